package store

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	apperrors "portocli/internal/errors"
	"portocli/pkg/contracts/domain"
)

// SaveBankRecords stores one transaction import atomically and returns the
// number of newly inserted records. Rows already present (same date, text,
// amount, currency and account) are ignored, so overlapping exports can be
// re-imported safely.
func (s *Store) SaveBankRecords(run domain.ImportRun, records []domain.BankRecord) (int, error) {
	if err := s.validate.Struct(run); err != nil {
		return 0, apperrors.NewValidationError("import run failed validation", err)
	}
	for i := range records {
		if err := s.validate.Struct(&records[i]); err != nil {
			return 0, apperrors.NewValidationError(
				fmt.Sprintf("bank record %d failed validation", i), err).
				WithContext("description", records[i].Description)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, apperrors.NewStorageError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if err := insertRun(tx, run); err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO transactions (
			run_id, transaction_date, description, amount, currency, bank_account
		) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, apperrors.NewStorageError("failed to prepare transaction insert", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range records {
		result, err := stmt.Exec(
			run.ID, formatDate(r.TransactionDate), r.Description,
			r.Amount.String(), r.Currency, r.BankAccount)
		if err != nil {
			return 0, apperrors.NewStorageError("failed to insert bank record", err).
				WithContext("description", r.Description)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, apperrors.NewStorageError("failed to read insert result", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, apperrors.NewStorageError("failed to commit transaction import", err)
	}
	return inserted, nil
}

// TransactionsBetween returns bank records with from <= date <= to, oldest
// first.
func (s *Store) TransactionsBetween(from, to time.Time) ([]domain.BankRecord, error) {
	rows, err := s.db.Query(`
		SELECT transaction_date, description, amount, currency, bank_account
		FROM transactions
		WHERE transaction_date >= ? AND transaction_date <= ?
		ORDER BY transaction_date, id`,
		formatDate(from), formatDate(to))
	if err != nil {
		return nil, apperrors.NewStorageError("failed to query transactions", err)
	}
	defer rows.Close()

	var records []domain.BankRecord
	for rows.Next() {
		var r domain.BankRecord
		var date, amount string

		if err := rows.Scan(&date, &r.Description, &amount, &r.Currency, &r.BankAccount); err != nil {
			return nil, apperrors.NewStorageError("failed to scan bank record", err)
		}
		if r.TransactionDate, err = parseStoredDate(date); err != nil {
			return nil, apperrors.NewStorageError("stored transaction date is malformed", err)
		}
		if r.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, apperrors.NewStorageError("stored amount is malformed", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to iterate transactions", err)
	}
	return records, nil
}
