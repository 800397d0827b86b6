package ingest

import (
	"strings"

	"github.com/shopspring/decimal"
)

// groupSeparators strips the thousands separators seen across statement
// sources: apostrophe, regular space, no-break space and narrow no-break
// space.
var groupSeparators = strings.NewReplacer(
	"'", "",
	"’", "",
	" ", "",
	" ", "",
	" ", "",
)

// ParseNumber converts a locale-formatted numeric string into a decimal.
// It accepts Swiss apostrophe and space group separators, a decimal comma
// or decimal point, a trailing percent sign and parenthesized negatives.
// The percent sign is stripped without rescaling; see NormalizeNumber.
// The boolean reports whether the string held a parseable number.
func ParseNumber(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Decimal{}, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	s = groupSeparators.Replace(s)

	// A single comma with no decimal point is a decimal mark. Any other
	// comma arrangement means commas are thousands separators.
	if strings.Contains(s, ",") {
		if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

// NormalizeNumber parses raw with ParseNumber and, when percent is true,
// rescales the result from percentage points to a fraction (÷100).
func NormalizeNumber(raw string, percent bool) (decimal.Decimal, bool) {
	d, ok := ParseNumber(raw)
	if !ok {
		return decimal.Decimal{}, false
	}
	if percent {
		d = d.Div(decimal.NewFromInt(100))
	}
	return d, true
}

// IsPercentUnit reports whether a unit cell marks its row as quoted in
// percent of nominal value rather than in currency.
func IsPercentUnit(unit string) bool {
	return strings.Contains(unit, "%")
}
