package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"portocli/pkg/contracts/domain"
)

const zkbDepotFixture = `Zürcher Kantonalbank
Per;26.03.2025
Portfolio-Nr.: 123-456789.0

Depotauszug

Kategorie;Unterkategorie;Bezeichnung;Symbol;ISIN;Valor;Whrg.;Anzahl / Nominal;Einstandskurs;Kurs;Einheit;Konto
Aktien;Aktien;Nestlé N;NESN;CH0038863350;3886335;CHF;150;95.50;88.30;CHF;Depot
Obligationen;Obligationen;UBS 2.5% 2030;;CH0012345678;1234567;CHF;10'000;99.85;101.25;%;Depot
Liquidität;;Kontokorrent CHF;;;;CHF;;;;;Privatkonto
Konten;;Sparkonto CHF;;;;CHF;25'000;;;;
Strukturierte Produkte;Barrier Reverse Convertible;BRC on SMI;;CH0099999999;;CHF;5;;;;
`

func writeDepotFixture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(zkbDepotFixture), 0644))
	return path
}

func TestParsePositions_ZKBDepot(t *testing.T) {
	profile, err := ProfileByName("zkb-csv")
	require.NoError(t, err)

	var progress []string
	parser := NewParser(profile, "CHF", WithProgress(func(msg string) {
		progress = append(progress, msg)
	}))

	result, err := parser.ParsePositions(writeDepotFixture(t, "depot.csv"), time.Time{})
	require.NoError(t, err)

	// Statement date comes from the "Per" cell since the filename has none.
	assert.Equal(t, time.Date(2025, 3, 26, 0, 0, 0, 0, time.UTC), result.Run.StatementDate)
	assert.Equal(t, "123-456789.0", result.Run.Account)
	assert.Equal(t, "zkb-csv", result.Run.Profile)
	assert.NotEmpty(t, result.Run.ID)

	summary := result.Run.Summary
	assert.Equal(t, 5, summary.TotalRows)
	assert.Equal(t, 4, summary.ParsedRows)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.CashAccounts)
	assert.Equal(t, 3, summary.SecurityRecords)
	assert.Equal(t, 1, summary.PercentValued)
	assert.Equal(t, 1, summary.Unclassified)

	require.Len(t, result.Records, 4)

	nestle := result.Records[0]
	assert.Equal(t, "Nestlé N", nestle.InstrumentName)
	assert.Equal(t, "NESN", nestle.TickerSymbol)
	assert.Equal(t, "CH0038863350", nestle.ISIN)
	assert.Equal(t, "150", nestle.Quantity.String())
	assert.Equal(t, domain.SubClassSingleStock, nestle.SubClass)
	assert.True(t, nestle.IsSecurity())
	require.NotNil(t, nestle.CurrentPrice)
	assert.Equal(t, "88.3", nestle.CurrentPrice.String())

	bond := result.Records[1]
	assert.Equal(t, "10000", bond.Quantity.String())
	assert.Equal(t, domain.SubClassCorporateBond, bond.SubClass)
	require.NotNil(t, bond.CurrentPrice)
	assert.Equal(t, "1.0125", bond.CurrentPrice.String())
	require.NotNil(t, bond.PurchasePrice)
	assert.Equal(t, "0.9985", bond.PurchasePrice.String())

	cash := result.Records[2]
	assert.True(t, cash.IsCash)
	assert.Equal(t, domain.SubClassCash, cash.SubClass)
	assert.True(t, cash.Quantity.IsZero())

	brc := result.Records[3]
	assert.Equal(t, domain.SubClassUnclassified, brc.SubClass)

	assert.True(t, len(progress) >= 3)
	assert.Contains(t, strings.Join(progress, "\n"), "statement date 2025-03-26")
}

func TestParsePositions_Idempotent(t *testing.T) {
	profile, err := ProfileByName("zkb-csv")
	require.NoError(t, err)

	path := writeDepotFixture(t, "depot.csv")
	parser := NewParser(profile, "CHF")

	first, err := parser.ParsePositions(path, time.Time{})
	require.NoError(t, err)
	second, err := parser.ParsePositions(path, time.Time{})
	require.NoError(t, err)

	// Same file, same outcome: identical summaries and record lists. Only
	// the run identity differs.
	assert.Equal(t, first.Run.Summary, second.Run.Summary)
	assert.Equal(t, first.Records, second.Records)
	assert.NotEqual(t, first.Run.ID, second.Run.ID)
}

func TestParsePositions_FilenameDateWins(t *testing.T) {
	profile, err := ProfileByName("zkb-csv")
	require.NoError(t, err)

	parser := NewParser(profile, "CHF")
	result, err := parser.ParsePositions(writeDepotFixture(t, "Depot_Jun 30 2025.csv"), time.Time{})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), result.Run.StatementDate)
	for _, record := range result.Records {
		assert.Equal(t, result.Run.StatementDate, record.ReportDate)
	}
}

func TestParsePositions_NoDateAnywhere(t *testing.T) {
	profile, err := ProfileByName("generic-csv")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "positions.csv")
	content := "Category,Instrument,Currency,Quantity\nEquities,Roche GS,CHF,10\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	parser := NewParser(profile, "CHF")
	_, err = parser.ParsePositions(path, time.Time{})
	assert.ErrorIs(t, err, ErrNoStatementDate)

	// An operator-supplied date unblocks the same file.
	override := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	result, err := parser.ParsePositions(path, override)
	require.NoError(t, err)
	assert.Equal(t, override, result.Run.StatementDate)
}

func TestParsePositions_MissingHeadersRejected(t *testing.T) {
	profile, err := ProfileByName("generic-csv")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "broken.csv")
	content := "Category,Instrument,Currency\nEquities,Roche GS,CHF\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	parser := NewParser(profile, "CHF")
	_, err = parser.ParsePositions(path, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantity")
}

func TestParsePositions_XLSX(t *testing.T) {
	profile, err := ProfileByName("generic-xlsx")
	require.NoError(t, err)

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Category", "Sub Category", "Instrument", "Currency", "Quantity", "Unit"},
		{"Equities", "ETF", "iShares Core SPI", "CHF", "200", "CHF"},
		{"Cash", "", "Cash Account CHF", "CHF", "15000", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "Statement_Mar 26 2025.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	parser := NewParser(profile, "CHF")
	result, err := parser.ParsePositions(path, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 26, 0, 0, 0, 0, time.UTC), result.Run.StatementDate)
	require.Len(t, result.Records, 2)
	assert.Equal(t, domain.SubClassEquityETF, result.Records[0].SubClass)
	assert.True(t, result.Records[1].IsCash)
	assert.Equal(t, "15000", result.Records[1].Quantity.String())
}

func TestParseTransactions(t *testing.T) {
	profile, err := ProfileByName("generic-csv")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "transactions.csv")
	content := strings.Join([]string{
		"Date,Amount,Description,Currency,Account",
		"2025-03-01,1'000.00,Salary,CHF,CH93-0000",
		"2025-03-05,-50.00,Custody fees,,",
		"not-a-date,10,Broken row,,",
		"2025-03-10,100,,,",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	parser := NewParser(profile, "CHF")
	result, err := parser.ParseTransactions(path)
	require.NoError(t, err)

	summary := result.Run.Summary
	assert.Equal(t, 4, summary.TotalRows)
	assert.Equal(t, 2, summary.ParsedRows)
	assert.Equal(t, 2, summary.Skipped)

	require.Len(t, result.Records, 2)
	assert.Equal(t, "Salary", result.Records[0].Description)
	assert.Equal(t, "1000", result.Records[0].Amount.String())
	assert.Equal(t, "CHF", result.Records[1].Currency)

	// Run date is the latest parsed transaction date.
	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), result.Run.StatementDate)
}

func TestParseTransactions_ZKBPreamble(t *testing.T) {
	profile, err := ProfileByName("zkb-csv")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "konto.csv")
	content := strings.Join([]string{
		"Zürcher Kantonalbank",
		"Kontoauszug per 31.03.2025",
		"",
		"Datum;Buchungstext;Betrag;Whrg.;Konto",
		"03.03.2025;Gutschrift Lohn;5'000.00;CHF;CH93-0000",
		"28.03.2025;Belastung Miete;(1'800.00);CHF;CH93-0000",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	parser := NewParser(profile, "CHF")
	result, err := parser.ParseTransactions(path)
	require.NoError(t, err)

	require.Len(t, result.Records, 2)
	assert.Equal(t, "5000", result.Records[0].Amount.String())
	assert.Equal(t, "-1800", result.Records[1].Amount.String())
	assert.Equal(t, time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC), result.Run.StatementDate)
}

func TestProfileByName_Unknown(t *testing.T) {
	_, err := ProfileByName("ubs-pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zkb-csv")
}
