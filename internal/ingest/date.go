package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date layouts used by the supported statement sources.
const (
	SwissDateLayout = "02.01.2006"
	ISODateLayout   = "2006-01-02"
)

var monthsByAbbrev = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// filenameDatePattern matches "<Month> <day> <year>" fragments such as
// "Mar 26 2025" or "March 26 2025" inside a statement filename.
var filenameDatePattern = regexp.MustCompile(`([A-Za-z]{3,9})[ _](\d{1,2})[ _](\d{4})`)

// StatementDateFromFilename extracts the as-of date encoded in statement
// filenames like "Statement_Mar 26 2025.xlsx". It returns false when the
// name carries no recognizable date.
func StatementDateFromFilename(name string) (time.Time, bool) {
	for _, m := range filenameDatePattern.FindAllStringSubmatch(name, -1) {
		month, ok := monthsByAbbrev[strings.ToLower(m[1])[:3]]
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])

		d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		// time.Date normalizes overflows like Feb 30; reject those.
		if d.Day() != day || d.Month() != month {
			continue
		}
		return d, true
	}
	return time.Time{}, false
}

// ParseDate parses a trimmed date cell with the given layout.
func ParseDate(raw, layout string) (time.Time, error) {
	return time.Parse(layout, strings.TrimSpace(raw))
}
