package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "portocli/internal/errors"
)

func TestValidateBankRecord_Valid(t *testing.T) {
	row := RawRow{
		ColDate:        "2025-03-26",
		ColAmount:      "1'250.00",
		ColDescription: "Dividend Nestlé",
		ColCurrency:    "chf",
		ColAccount:     "123-456",
	}

	record, err := ValidateBankRecord(row, ISODateLayout, "CHF")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 26, 0, 0, 0, 0, time.UTC), record.TransactionDate)
	assert.Equal(t, "1250", record.Amount.String())
	assert.Equal(t, "Dividend Nestlé", record.Description)
	assert.Equal(t, "CHF", record.Currency)
	assert.Equal(t, "123-456", record.BankAccount)
}

func TestValidateBankRecord_CurrencyAndAccountDefaults(t *testing.T) {
	row := RawRow{
		ColDate:        "26.03.2025",
		ColAmount:      "(99.50)",
		ColDescription: "Depotgebühren",
	}

	record, err := ValidateBankRecord(row, SwissDateLayout, "CHF")
	require.NoError(t, err)

	assert.Equal(t, "CHF", record.Currency)
	assert.Equal(t, "", record.BankAccount)
	assert.Equal(t, "-99.5", record.Amount.String())
}

func TestValidateBankRecord_FieldErrors(t *testing.T) {
	valid := RawRow{
		ColDate:        "2025-03-26",
		ColAmount:      "100",
		ColDescription: "Transfer",
	}

	tests := []struct {
		name     string
		mutate   func(RawRow)
		kind     apperrors.FieldErrorKind
		field    string
	}{
		{"missing date", func(r RawRow) { r[ColDate] = "" }, apperrors.FieldMissing, "Date"},
		{"invalid date", func(r RawRow) { r[ColDate] = "26/03/2025" }, apperrors.FieldInvalidDate, "Date"},
		{"missing amount", func(r RawRow) { r[ColAmount] = "" }, apperrors.FieldMissing, "Amount"},
		{"invalid amount", func(r RawRow) { r[ColAmount] = "abc" }, apperrors.FieldInvalidNumber, "Amount"},
		{"missing description", func(r RawRow) { r[ColDescription] = "" }, apperrors.FieldMissing, "Description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := RawRow{}
			for k, v := range valid {
				row[k] = v
			}
			tt.mutate(row)

			_, err := ValidateBankRecord(row, ISODateLayout, "CHF")
			require.Error(t, err)

			var fieldErr *apperrors.FieldError
			require.True(t, errors.As(err, &fieldErr))
			assert.Equal(t, tt.kind, fieldErr.Kind)
			assert.Equal(t, tt.field, fieldErr.Field)
		})
	}
}

func TestStatementDate_FilenameWins(t *testing.T) {
	profile, err := ProfileByName("zkb-csv")
	require.NoError(t, err)

	grid := [][]string{
		{"Depotauszug"},
		{"Per", "31.12.2024"},
	}

	d, source, err := statementDate("Statement_Mar 26 2025.csv", grid, profile, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "filename", source)
	assert.Equal(t, time.Date(2025, 3, 26, 0, 0, 0, 0, time.UTC), d)
}

func TestStatementDate_CellFallback(t *testing.T) {
	profile, err := ProfileByName("zkb-csv")
	require.NoError(t, err)

	grid := [][]string{
		{"Depotauszug"},
		{"Per", "31.12.2024"},
	}

	d, source, err := statementDate("depot.csv", grid, profile, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "statement", source)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), d)
}

func TestStatementDate_OverrideLast(t *testing.T) {
	profile, err := ProfileByName("generic-csv")
	require.NoError(t, err)

	override := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	d, source, err := statementDate("positions.csv", nil, profile, override)
	require.NoError(t, err)
	assert.Equal(t, "override", source)
	assert.Equal(t, override, d)
}

func TestStatementDate_NoneIsTypedError(t *testing.T) {
	profile, err := ProfileByName("generic-csv")
	require.NoError(t, err)

	_, _, err = statementDate("positions.csv", nil, profile, time.Time{})
	assert.ErrorIs(t, err, ErrNoStatementDate)
}
