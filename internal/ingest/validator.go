package ingest

import (
	"strings"
	"time"

	apperrors "portocli/internal/errors"
	"portocli/pkg/contracts/domain"
)

// ValidateBankRecord turns one raw transaction row into a BankRecord.
// Date, Amount and Description are mandatory; Currency falls back to the
// base currency and Account to empty. Failures come back as typed field
// errors so callers can skip the row and report precisely what was wrong.
func ValidateBankRecord(row RawRow, dateLayout, baseCurrency string) (domain.BankRecord, error) {
	dateRaw := row[ColDate]
	if dateRaw == "" {
		return domain.BankRecord{}, apperrors.NewMissingFieldError("Date")
	}
	txDate, err := ParseDate(dateRaw, dateLayout)
	if err != nil {
		return domain.BankRecord{}, apperrors.NewInvalidDateError("Date", dateRaw)
	}

	amountRaw := row[ColAmount]
	if amountRaw == "" {
		return domain.BankRecord{}, apperrors.NewMissingFieldError("Amount")
	}
	amount, ok := ParseNumber(amountRaw)
	if !ok {
		return domain.BankRecord{}, apperrors.NewInvalidNumberError("Amount", amountRaw)
	}

	description := row[ColDescription]
	if description == "" {
		return domain.BankRecord{}, apperrors.NewMissingFieldError("Description")
	}

	currency := strings.ToUpper(row[ColCurrency])
	if currency == "" {
		currency = baseCurrency
	}

	return domain.BankRecord{
		TransactionDate: txDate,
		Description:     description,
		Amount:          amount,
		Currency:        currency,
		BankAccount:     row[ColAccount],
	}, nil
}

// statementDate resolves the as-of date for a position statement. The
// filename wins; a profile-designated cell is the fallback; an explicit
// operator override comes last. ErrNoStatementDate is returned when all
// three are absent: the date is never silently invented.
func statementDate(filename string, grid [][]string, profile SourceProfile, override time.Time) (time.Time, string, error) {
	if d, ok := StatementDateFromFilename(filename); ok {
		return d, "filename", nil
	}
	if profile.StatementDateCell != nil {
		cell := cellAt(grid, *profile.StatementDateCell)
		if cell != "" {
			if d, err := ParseDate(cell, profile.StatementDateLayout); err == nil {
				return d, "statement", nil
			}
		}
	}
	if !override.IsZero() {
		return override, "override", nil
	}
	return time.Time{}, "", ErrNoStatementDate
}
