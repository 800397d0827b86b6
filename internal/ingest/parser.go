// Package ingest turns raw bank statement exports (CSV and XLSX) into
// canonical position and transaction records. A SourceProfile carries all
// per-bank knowledge; the parser itself is source-agnostic.
package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "portocli/internal/errors"
	"portocli/internal/infrastructure"
	"portocli/pkg/contracts/domain"
)

// ErrNoStatementDate is returned when neither the filename, the statement
// body nor an operator override yields an as-of date.
var ErrNoStatementDate = apperrors.NewParsingError(
	"statement date not found in filename or statement body and no override given", nil)

// ProgressFunc receives human-readable progress lines during a parse.
type ProgressFunc func(message string)

// Parser reads statement files described by one source profile.
type Parser struct {
	profile      SourceProfile
	baseCurrency string
	logger       *slog.Logger
	progress     ProgressFunc
}

// Option configures a Parser.
type Option func(*Parser)

// WithProgress registers a sink for progress messages.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Parser) { p.progress = fn }
}

// WithLogger overrides the package logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// NewParser creates a parser for one source profile. baseCurrency fills in
// rows whose currency cell is blank.
func NewParser(profile SourceProfile, baseCurrency string, opts ...Option) *Parser {
	p := &Parser{
		profile:      profile,
		baseCurrency: strings.ToUpper(baseCurrency),
		logger:       infrastructure.GetLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PositionResult is the outcome of parsing one position statement.
type PositionResult struct {
	Run     domain.ImportRun
	Records []domain.PositionRecord
}

// TransactionResult is the outcome of parsing one bank transaction export.
type TransactionResult struct {
	Run     domain.ImportRun
	Records []domain.BankRecord
}

func (p *Parser) emit(format string, args ...interface{}) {
	if p.progress != nil {
		p.progress(fmt.Sprintf(format, args...))
	}
}

// ParsePositions parses a position statement into canonical records.
// dateOverride supplies the as-of date when neither the filename nor the
// statement body carries one; pass the zero time to require a derived date.
func (p *Parser) ParsePositions(path string, dateOverride time.Time) (*PositionResult, error) {
	start := time.Now()
	base := filepath.Base(path)

	if err := CheckStatementFile(path, p.profile.Format); err != nil {
		return nil, err
	}

	grid, err := readGrid(path, p.profile)
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, apperrors.NewParsingError("statement file has no rows", nil).
			WithContext("file", base)
	}

	asOf, dateSource, err := statementDate(base, grid, p.profile, dateOverride)
	if err != nil {
		return nil, err
	}
	if dateSource == "override" {
		p.logger.Warn("using operator-supplied statement date",
			slog.String("file", base),
			slog.Time("statement_date", asOf))
	}
	p.emit("%s: statement date %s (from %s)", base, asOf.Format(ISODateLayout), dateSource)

	account := p.resolveAccount(grid)
	if account != "" {
		p.emit("%s: portfolio account %s", base, account)
	}

	headerRow := findHeaderRow(grid, p.profile, ColCategory)
	cols, err := resolveColumns(grid[headerRow], p.profile, positionColumns)
	if err != nil {
		return nil, err
	}

	dataRows := grid[headerRow+1:]
	p.emit("%s: %d data rows", base, len(dataRows))

	var records []domain.PositionRecord
	var summary domain.ImportSummary

	for i, row := range dataRows {
		if isEmptyRow(row) {
			continue
		}
		summary.TotalRows++
		line := headerRow + i + 2 // 1-based, as shown in a spreadsheet

		raw := buildRawRow(row, cols)
		category := raw[ColCategory]

		if p.profile.SkipsCategory(category) {
			summary.Skipped++
			p.logger.Debug("skipping row owned by another processor",
				slog.String("file", base),
				slog.Int("line", line),
				slog.String("category", category))
			continue
		}

		record, rowOutcome := p.buildPositionRecord(raw, account, asOf)
		switch rowOutcome {
		case rowSkipped:
			summary.Skipped++
			p.logger.Warn("skipping unparseable position row",
				slog.String("file", base),
				slog.Int("line", line),
				slog.String("instrument", raw[ColInstrument]))
			continue
		case rowPercentValued:
			summary.PercentValued++
		}

		if record.SubClass == domain.SubClassUnclassified {
			summary.Unclassified++
		}
		if record.IsCash {
			summary.CashAccounts++
		} else {
			summary.SecurityRecords++
		}
		summary.ParsedRows++
		records = append(records, record)
	}

	p.emit("%s: parsed %d of %d rows (%d cash, %d securities, %d skipped)",
		base, summary.ParsedRows, summary.TotalRows,
		summary.CashAccounts, summary.SecurityRecords, summary.Skipped)

	p.logger.Info("position statement parsed",
		slog.String("file", base),
		slog.String("profile", p.profile.Name),
		slog.Time("statement_date", asOf),
		slog.Int("total_rows", summary.TotalRows),
		slog.Int("parsed_rows", summary.ParsedRows),
		slog.Int("skipped", summary.Skipped),
		slog.Int("unclassified", summary.Unclassified))

	run := domain.ImportRun{
		ID:            uuid.NewString(),
		Profile:       p.profile.Name,
		File:          base,
		Account:       account,
		StatementDate: asOf,
		Summary:       summary,
		StartedAt:     start,
		FinishedAt:    time.Now(),
	}
	return &PositionResult{Run: run, Records: records}, nil
}

type rowOutcome int

const (
	rowParsed rowOutcome = iota
	rowSkipped
	rowPercentValued
)

// buildPositionRecord maps one raw row onto a PositionRecord. Rows without
// a parseable quantity are skipped unless the row identifies itself as a
// cash account, whose balance lives in the account ledger, not here.
func (p *Parser) buildPositionRecord(raw RawRow, account string, asOf time.Time) (domain.PositionRecord, rowOutcome) {
	isCash := p.profile.IsCashCategory(raw[ColCategory]) || p.profile.MatchesCashName(raw[ColInstrument])

	quantity, qok := ParseNumber(raw[ColQuantity])
	if !qok {
		if !isCash {
			return domain.PositionRecord{}, rowSkipped
		}
		quantity = decimal.Zero
	}

	instrument := raw[ColInstrument]
	if instrument == "" {
		return domain.PositionRecord{}, rowSkipped
	}

	currency := strings.ToUpper(raw[ColCurrency])
	if currency == "" {
		currency = p.baseCurrency
	}
	if len(currency) != 3 {
		return domain.PositionRecord{}, rowSkipped
	}

	// Identifiers are best-effort; a malformed ISIN is dropped rather than
	// failing the row.
	isin := strings.ToUpper(raw[ColISIN])
	if len(isin) != 12 {
		isin = ""
	}

	percent := IsPercentUnit(raw[ColUnit])
	outcome := rowParsed
	if percent {
		outcome = rowPercentValued
	}

	subClass, _ := Classify(raw[ColCategory], raw[ColSubCategory], isCash)

	return domain.PositionRecord{
		AccountNumber:  account,
		AccountName:    raw[ColAccountName],
		InstrumentName: instrument,
		TickerSymbol:   raw[ColTicker],
		ISIN:           isin,
		ValorNr:        raw[ColValor],
		Currency:       currency,
		Quantity:       quantity,
		PurchasePrice:  optionalPrice(raw[ColPurchasePrice], percent),
		CurrentPrice:   optionalPrice(raw[ColCurrentPrice], percent),
		ReportDate:     asOf,
		IsCash:         isCash,
		SubClass:       subClass,
	}, outcome
}

// optionalPrice parses a price cell, rescaling percent-quoted values, and
// returns nil for blank or unparseable cells.
func optionalPrice(raw string, percent bool) *decimal.Decimal {
	d, ok := NormalizeNumber(raw, percent)
	if !ok {
		return nil
	}
	return &d
}

// resolveAccount extracts the portfolio account number from the profile's
// labeled account cell, if any.
func (p *Parser) resolveAccount(grid [][]string) string {
	if p.profile.AccountCell == nil || p.profile.AccountPattern == nil {
		return ""
	}
	cell := cellAt(grid, *p.profile.AccountCell)
	if cell == "" {
		return ""
	}
	m := p.profile.AccountPattern.FindStringSubmatch(cell)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// ParseTransactions parses a bank transaction export into canonical
// records. Rows failing field validation are skipped and counted, never
// fatal; the run's statement date is the latest transaction date seen.
func (p *Parser) ParseTransactions(path string) (*TransactionResult, error) {
	start := time.Now()
	base := filepath.Base(path)

	if err := CheckStatementFile(path, p.profile.Format); err != nil {
		return nil, err
	}

	grid, err := readGrid(path, p.profile)
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, apperrors.NewParsingError("transaction export is empty", nil).
			WithContext("file", base)
	}

	headerRow := findHeaderRow(grid, p.profile, ColDate)
	cols, err := resolveColumns(grid[headerRow], p.profile, transactionColumns)
	if err != nil {
		return nil, err
	}

	var records []domain.BankRecord
	var summary domain.ImportSummary
	var latest time.Time

	for i, row := range grid[headerRow+1:] {
		if isEmptyRow(row) {
			continue
		}
		summary.TotalRows++
		line := headerRow + i + 2

		record, err := ValidateBankRecord(buildRawRow(row, cols), p.profile.RowDateLayout, p.baseCurrency)
		if err != nil {
			summary.Skipped++
			var fieldErr *apperrors.FieldError
			if errors.As(err, &fieldErr) {
				p.logger.Warn("skipping invalid transaction row",
					slog.String("file", base),
					slog.Int("line", line),
					slog.String("field", fieldErr.Field),
					slog.String("reason", fieldErr.Error()))
			} else {
				p.logger.Warn("skipping invalid transaction row",
					slog.String("file", base),
					slog.Int("line", line),
					slog.String("reason", err.Error()))
			}
			continue
		}

		summary.ParsedRows++
		if record.TransactionDate.After(latest) {
			latest = record.TransactionDate
		}
		records = append(records, record)
	}

	p.emit("%s: parsed %d of %d transactions (%d skipped)",
		base, summary.ParsedRows, summary.TotalRows, summary.Skipped)

	p.logger.Info("transaction export parsed",
		slog.String("file", base),
		slog.String("profile", p.profile.Name),
		slog.Int("total_rows", summary.TotalRows),
		slog.Int("parsed_rows", summary.ParsedRows),
		slog.Int("skipped", summary.Skipped))

	run := domain.ImportRun{
		ID:            uuid.NewString(),
		Profile:       p.profile.Name,
		File:          base,
		StatementDate: latest,
		Summary:       summary,
		StartedAt:     start,
		FinishedAt:    time.Now(),
	}
	return &TransactionResult{Run: run, Records: records}, nil
}

// findHeaderRow locates the header row by scanning for the first row that
// names the given canonical column. Statement preambles vary in length
// between exports (and the CSV reader drops blank lines), so a fixed
// index is unreliable; the profile's HeaderRow is kept as the fallback.
func findHeaderRow(grid [][]string, profile SourceProfile, key string) int {
	aliases := profile.Aliases[key]
	for i, row := range grid {
		for _, cell := range row {
			if containsFold(aliases, stripBOM(cell)) {
				return i
			}
		}
	}
	if profile.HeaderRow < len(grid) {
		return profile.HeaderRow
	}
	return 0
}
