package ingest

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	apperrors "portocli/internal/errors"
)

// Format is the on-disk statement format a profile reads.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Canonical column keys. Profiles map source-specific header labels onto
// these keys; the rest of the pipeline only ever sees canonical keys.
const (
	ColCategory      = "category"
	ColSubCategory   = "sub_category"
	ColInstrument    = "instrument"
	ColTicker        = "ticker"
	ColISIN          = "isin"
	ColValor         = "valor"
	ColCurrency      = "currency"
	ColQuantity      = "quantity"
	ColPurchasePrice = "purchase_price"
	ColCurrentPrice  = "current_price"
	ColUnit          = "unit"
	ColAccountName   = "account_name"
	ColDate          = "date"
	ColAmount        = "amount"
	ColDescription   = "description"
	ColAccount       = "account"
)

// positionColumns are the canonical keys a position import cannot do
// without; transactionColumns likewise for bank transaction imports.
var (
	positionColumns    = []string{ColCategory, ColInstrument, ColCurrency, ColQuantity}
	transactionColumns = []string{ColDate, ColAmount, ColDescription}
)

// CellRef addresses a single cell in the raw statement grid, zero-based.
type CellRef struct {
	Row int
	Col int
}

// SourceProfile describes one statement source: its file format, header
// placement, header vocabulary and the fixed cells carrying statement-level
// metadata. All format-specific knowledge lives here so the parser itself
// stays source-agnostic.
type SourceProfile struct {
	Name      string
	Format    Format
	Delimiter rune
	// HeaderRow is the zero-based grid row expected to hold the column
	// headers. The parser scans for the header vocabulary first and only
	// falls back to this index.
	HeaderRow  int
	SheetIndex int

	// Aliases maps canonical column keys to the header labels this source
	// uses for them. Matching is case-insensitive.
	Aliases map[string][]string

	// StatementDateCell, when set, points at a cell holding the statement
	// as-of date in StatementDateLayout. Used when the filename carries no
	// date.
	StatementDateCell   *CellRef
	StatementDateLayout string

	// AccountCell points at a labeled cell such as "Portfolio-Nr.: 123-456";
	// AccountPattern extracts the account number as its first capture group.
	AccountCell    *CellRef
	AccountPattern *regexp.Regexp

	// RowDateLayout is the layout of per-row date cells (transactions).
	RowDateLayout string

	// SkipCategories lists category labels whose rows another processor
	// owns; they are counted as skipped, not parsed.
	SkipCategories []string

	// CashCategories lists category labels marking cash account rows.
	CashCategories []string

	// CashNameHints lists instrument-name prefixes that identify cash
	// account rows missing a quantity cell.
	CashNameHints []string
}

// SkipsCategory reports whether rows of the given category are owned by
// another processor and must be skipped.
func (p SourceProfile) SkipsCategory(category string) bool {
	return containsFold(p.SkipCategories, category)
}

// IsCashCategory reports whether the category marks a cash account row.
func (p SourceProfile) IsCashCategory(category string) bool {
	return containsFold(p.CashCategories, category)
}

// MatchesCashName reports whether an instrument name identifies a cash
// account row (e.g. "Kontokorrent CHF").
func (p SourceProfile) MatchesCashName(instrument string) bool {
	name := strings.ToLower(strings.TrimSpace(instrument))
	for _, hint := range p.CashNameHints {
		if strings.HasPrefix(name, strings.ToLower(hint)) {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	s = strings.TrimSpace(s)
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

// zkbAccountPattern matches the labeled portfolio number cell of ZKB
// depot statements.
var zkbAccountPattern = regexp.MustCompile(`(?i)Portfolio[ -]?(?:Nr|No)\.?\s*:?\s*([0-9][0-9 .-]*[0-9]|[0-9]+)`)

var builtinProfiles = map[string]SourceProfile{
	"generic-csv": {
		Name:      "generic-csv",
		Format:    FormatCSV,
		Delimiter: ',',
		HeaderRow: 0,
		Aliases: map[string][]string{
			ColCategory:      {"Category", "Asset Class"},
			ColSubCategory:   {"Sub Category", "Subcategory", "Sub-Category"},
			ColInstrument:    {"Instrument", "Name", "Security"},
			ColTicker:        {"Ticker", "Symbol"},
			ColISIN:          {"ISIN"},
			ColValor:         {"Valor", "Valor Nr"},
			ColCurrency:      {"Currency", "Ccy"},
			ColQuantity:      {"Quantity", "Units", "Nominal"},
			ColPurchasePrice: {"Purchase Price", "Cost Price"},
			ColCurrentPrice:  {"Current Price", "Price", "Market Price"},
			ColUnit:          {"Unit", "Price Unit"},
			ColAccountName:   {"Account Name"},
			ColDate:          {"Date", "Booking Date"},
			ColAmount:        {"Amount"},
			ColDescription:   {"Description", "Text"},
			ColAccount:       {"Account", "Account Number"},
		},
		StatementDateLayout: ISODateLayout,
		RowDateLayout:       ISODateLayout,
		CashCategories:      []string{"Cash", "Liquidity"},
		CashNameHints:       []string{"Cash Account", "Current Account", "Savings Account"},
	},
	"zkb-csv": {
		Name:      "zkb-csv",
		Format:    FormatCSV,
		Delimiter: ';',
		HeaderRow: 7,
		Aliases: map[string][]string{
			ColCategory:      {"Kategorie", "Anlagekategorie"},
			ColSubCategory:   {"Unterkategorie", "Anlageklasse"},
			ColInstrument:    {"Bezeichnung", "Titel"},
			ColTicker:        {"Symbol"},
			ColISIN:          {"ISIN"},
			ColValor:         {"Valor", "Valoren-Nr."},
			ColCurrency:      {"Whrg.", "Währung"},
			ColQuantity:      {"Anzahl / Nominal", "Anzahl", "Nominal"},
			ColPurchasePrice: {"Einstandskurs"},
			ColCurrentPrice:  {"Kurs", "Aktueller Kurs"},
			ColUnit:          {"Einheit", "Kurswährung"},
			ColAccountName:   {"Konto", "Kontobezeichnung"},
			ColDate:          {"Datum", "Buchungsdatum", "Valuta"},
			ColAmount:        {"Betrag", "Betrag CHF"},
			ColDescription:   {"Buchungstext", "Text"},
			ColAccount:       {"Konto", "Kontonummer"},
		},
		StatementDateCell:   &CellRef{Row: 1, Col: 1},
		StatementDateLayout: SwissDateLayout,
		AccountCell:         &CellRef{Row: 2, Col: 0},
		AccountPattern:      zkbAccountPattern,
		RowDateLayout:       SwissDateLayout,
		SkipCategories:      []string{"Konten"},
		CashCategories:      []string{"Liquidität", "Flüssige Mittel"},
		CashNameHints:       []string{"Konto", "Kontokorrent", "Sparkonto", "Privatkonto"},
	},
}

func init() {
	genericXLSX := builtinProfiles["generic-csv"]
	genericXLSX.Name = "generic-xlsx"
	genericXLSX.Format = FormatXLSX
	builtinProfiles["generic-xlsx"] = genericXLSX

	zkbXLSX := builtinProfiles["zkb-csv"]
	zkbXLSX.Name = "zkb-xlsx"
	zkbXLSX.Format = FormatXLSX
	builtinProfiles["zkb-xlsx"] = zkbXLSX
}

// ProfileNames returns the built-in profile names, sorted.
func ProfileNames() []string {
	names := make([]string, 0, len(builtinProfiles))
	for name := range builtinProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProfileByName looks up a built-in source profile.
func ProfileByName(name string) (SourceProfile, error) {
	p, ok := builtinProfiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return SourceProfile{}, apperrors.NewConfigError(
			fmt.Sprintf("unknown source profile %q (available: %s)", name, strings.Join(ProfileNames(), ", ")), nil)
	}
	return p, nil
}

// resolveColumns maps the header row onto canonical column indexes using
// the profile's alias table. Missing required columns produce a parsing
// error naming both the missing keys and the headers actually seen.
func resolveColumns(headers []string, profile SourceProfile, required []string) (map[string]int, error) {
	byLabel := make(map[string]int, len(headers))
	for i, h := range headers {
		label := strings.ToLower(strings.TrimSpace(stripBOM(h)))
		if label == "" {
			continue
		}
		if _, seen := byLabel[label]; !seen {
			byLabel[label] = i
		}
	}

	cols := make(map[string]int)
	for key, aliases := range profile.Aliases {
		for _, alias := range aliases {
			if idx, ok := byLabel[strings.ToLower(alias)]; ok {
				cols[key] = idx
				break
			}
		}
	}

	var missing []string
	for _, key := range required {
		if _, ok := cols[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("header row missing required columns: %s", strings.Join(missing, ", ")), nil).
			WithContext("profile", profile.Name).
			WithContext("headers", strings.Join(headers, "|"))
	}
	return cols, nil
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
