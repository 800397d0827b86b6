package exporter

import (
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"portocli/pkg/contracts/domain"
)

var positionHeaders = []string{
	"report_date", "account_number", "account_name", "instrument_name",
	"ticker_symbol", "isin", "valor_nr", "currency", "quantity",
	"purchase_price", "current_price", "sub_class", "is_cash",
}

var transactionHeaders = []string{
	"transaction_date", "description", "amount", "currency", "bank_account",
}

var runHeaders = []string{
	"id", "profile", "file", "account", "statement_date",
	"total_rows", "parsed_rows", "cash_accounts", "security_records",
	"percent_valued", "skipped", "unclassified",
}

const exportDateLayout = "2006-01-02"

// ExportPositions writes canonical position records as a CSV report.
func (w *CSVWriter) ExportPositions(filePath string, records []domain.PositionRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.ReportDate.Format(exportDateLayout),
			r.AccountNumber,
			r.AccountName,
			r.InstrumentName,
			r.TickerSymbol,
			r.ISIN,
			r.ValorNr,
			r.Currency,
			r.Quantity.String(),
			formatOptional(r.PurchasePrice),
			formatOptional(r.CurrentPrice),
			r.SubClass.String(),
			strconv.FormatBool(r.IsCash),
		})
	}
	return w.WriteSimpleCSV(filePath, positionHeaders, rows)
}

// ExportTransactions writes canonical bank records as a CSV report.
func (w *CSVWriter) ExportTransactions(filePath string, records []domain.BankRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.TransactionDate.Format(exportDateLayout),
			r.Description,
			r.Amount.String(),
			r.Currency,
			r.BankAccount,
		})
	}
	return w.WriteSimpleCSV(filePath, transactionHeaders, rows)
}

// AppendRunLog appends one import run to the cumulative run log, creating
// the log with headers on first use.
func (w *CSVWriter) AppendRunLog(filePath string, run domain.ImportRun) error {
	row := []string{
		run.ID,
		run.Profile,
		run.File,
		run.Account,
		run.StatementDate.Format(exportDateLayout),
		strconv.Itoa(run.Summary.TotalRows),
		strconv.Itoa(run.Summary.ParsedRows),
		strconv.Itoa(run.Summary.CashAccounts),
		strconv.Itoa(run.Summary.SecurityRecords),
		strconv.Itoa(run.Summary.PercentValued),
		strconv.Itoa(run.Summary.Skipped),
		strconv.Itoa(run.Summary.Unclassified),
	}

	fullPath := w.resolvePath(filePath)
	if _, err := os.Stat(fullPath); err != nil {
		return w.WriteCSV(filePath, WriteOptions{
			Headers:   runHeaders,
			Records:   [][]string{row},
			BOMPrefix: true,
		})
	}
	return w.WriteCSV(filePath, WriteOptions{Records: [][]string{row}, Append: true})
}

func formatOptional(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
