package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	apperrors "portocli/internal/errors"
	"portocli/pkg/contracts/domain"
)

// SavePositions stores one position import atomically: the run, then its
// records. Re-importing a statement for the same account and date replaces
// the earlier snapshot so imports stay idempotent.
func (s *Store) SavePositions(run domain.ImportRun, records []domain.PositionRecord) error {
	if err := s.validate.Struct(run); err != nil {
		return apperrors.NewValidationError("import run failed validation", err)
	}
	for i := range records {
		if err := s.validate.Struct(&records[i]); err != nil {
			return apperrors.NewValidationError(
				fmt.Sprintf("position record %d failed validation", i), err).
				WithContext("instrument", records[i].InstrumentName)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return apperrors.NewStorageError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if err := insertRun(tx, run); err != nil {
		return err
	}

	if _, err := tx.Exec(
		`DELETE FROM positions WHERE account_number = ? AND report_date = ?`,
		run.Account, formatDate(run.StatementDate),
	); err != nil {
		return apperrors.NewStorageError("failed to replace earlier snapshot", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO positions (
			run_id, account_number, account_name, instrument_name,
			ticker_symbol, isin, valor_nr, currency, quantity,
			purchase_price, current_price, report_date, is_cash, sub_class
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return apperrors.NewStorageError("failed to prepare position insert", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(
			run.ID, r.AccountNumber, r.AccountName, r.InstrumentName,
			r.TickerSymbol, r.ISIN, r.ValorNr, r.Currency, r.Quantity.String(),
			optionalDecimal(r.PurchasePrice), optionalDecimal(r.CurrentPrice),
			formatDate(r.ReportDate), r.IsCash, r.SubClass.String(),
		); err != nil {
			return apperrors.NewStorageError("failed to insert position", err).
				WithContext("instrument", r.InstrumentName)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStorageError("failed to commit position import", err)
	}
	return nil
}

// LatestStatementDate returns the newest position snapshot date, or false
// when no positions were imported yet.
func (s *Store) LatestStatementDate() (time.Time, bool, error) {
	var raw sql.NullString
	err := s.db.QueryRow(`SELECT MAX(report_date) FROM positions`).Scan(&raw)
	if err != nil {
		return time.Time{}, false, apperrors.NewStorageError("failed to query latest statement date", err)
	}
	if !raw.Valid || raw.String == "" {
		return time.Time{}, false, nil
	}
	d, err := parseStoredDate(raw.String)
	if err != nil {
		return time.Time{}, false, apperrors.NewStorageError("stored statement date is malformed", err)
	}
	return d, true, nil
}

// PositionsOn returns all position records snapshotted on the given date.
func (s *Store) PositionsOn(date time.Time) ([]domain.PositionRecord, error) {
	rows, err := s.db.Query(`
		SELECT account_number, account_name, instrument_name, ticker_symbol,
		       isin, valor_nr, currency, quantity, purchase_price,
		       current_price, report_date, is_cash, sub_class
		FROM positions
		WHERE report_date = ?
		ORDER BY account_number, is_cash DESC, instrument_name`,
		formatDate(date))
	if err != nil {
		return nil, apperrors.NewStorageError("failed to query positions", err)
	}
	defer rows.Close()

	var records []domain.PositionRecord
	for rows.Next() {
		var r domain.PositionRecord
		var quantity, reportDate, subClass string
		var purchase, current sql.NullString

		if err := rows.Scan(
			&r.AccountNumber, &r.AccountName, &r.InstrumentName, &r.TickerSymbol,
			&r.ISIN, &r.ValorNr, &r.Currency, &quantity, &purchase,
			&current, &reportDate, &r.IsCash, &subClass,
		); err != nil {
			return nil, apperrors.NewStorageError("failed to scan position", err)
		}

		if r.Quantity, err = decimal.NewFromString(quantity); err != nil {
			return nil, apperrors.NewStorageError("stored quantity is malformed", err)
		}
		if r.ReportDate, err = parseStoredDate(reportDate); err != nil {
			return nil, apperrors.NewStorageError("stored report date is malformed", err)
		}
		r.PurchasePrice, err = scanOptionalDecimal(purchase)
		if err != nil {
			return nil, apperrors.NewStorageError("stored purchase price is malformed", err)
		}
		r.CurrentPrice, err = scanOptionalDecimal(current)
		if err != nil {
			return nil, apperrors.NewStorageError("stored current price is malformed", err)
		}
		r.SubClass = domain.SubClassFromName(subClass)

		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to iterate positions", err)
	}
	return records, nil
}

// LatestPositions returns the records of the newest snapshot, or nil when
// the store is empty.
func (s *Store) LatestPositions() ([]domain.PositionRecord, error) {
	date, ok, err := s.LatestStatementDate()
	if err != nil || !ok {
		return nil, err
	}
	return s.PositionsOn(date)
}

func insertRun(tx *sql.Tx, run domain.ImportRun) error {
	_, err := tx.Exec(`
		INSERT INTO import_runs (
			id, profile, file, account, statement_date,
			total_rows, parsed_rows, cash_accounts, security_records,
			percent_valued, skipped, unclassified, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Profile, run.File, run.Account, formatDate(run.StatementDate),
		run.Summary.TotalRows, run.Summary.ParsedRows, run.Summary.CashAccounts,
		run.Summary.SecurityRecords, run.Summary.PercentValued,
		run.Summary.Skipped, run.Summary.Unclassified,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return apperrors.NewStorageError("failed to insert import run", err).
			WithContext("run_id", run.ID)
	}
	return nil
}

// Runs returns the most recent import runs, newest first.
func (s *Store) Runs(limit int) ([]domain.ImportRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, profile, file, account, statement_date,
		       total_rows, parsed_rows, cash_accounts, security_records,
		       percent_valued, skipped, unclassified, started_at, finished_at
		FROM import_runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to query import runs", err)
	}
	defer rows.Close()

	var runs []domain.ImportRun
	for rows.Next() {
		var run domain.ImportRun
		var statementDate, startedAt, finishedAt string

		if err := rows.Scan(
			&run.ID, &run.Profile, &run.File, &run.Account, &statementDate,
			&run.Summary.TotalRows, &run.Summary.ParsedRows,
			&run.Summary.CashAccounts, &run.Summary.SecurityRecords,
			&run.Summary.PercentValued, &run.Summary.Skipped,
			&run.Summary.Unclassified, &startedAt, &finishedAt,
		); err != nil {
			return nil, apperrors.NewStorageError("failed to scan import run", err)
		}

		if run.StatementDate, err = parseStoredDate(statementDate); err != nil {
			return nil, apperrors.NewStorageError("stored statement date is malformed", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedAt)

		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to iterate import runs", err)
	}
	return runs, nil
}

func optionalDecimal(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

func scanOptionalDecimal(raw sql.NullString) (*decimal.Decimal, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
