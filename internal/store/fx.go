package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	apperrors "portocli/internal/errors"
)

// SaveFXRate upserts one daily exchange rate (1 base = rate quote).
func (s *Store) SaveFXRate(date time.Time, base, quote string, rate decimal.Decimal) error {
	_, err := s.db.Exec(`
		INSERT INTO fx_rates (rate_date, base_currency, quote_currency, rate)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (rate_date, base_currency, quote_currency)
		DO UPDATE SET rate = excluded.rate`,
		formatDate(date), base, quote, rate.String())
	if err != nil {
		return apperrors.NewStorageError("failed to save fx rate", err)
	}
	return nil
}

// FXRate returns the stored rate for the given day, or false when none
// exists.
func (s *Store) FXRate(date time.Time, base, quote string) (decimal.Decimal, bool, error) {
	var raw string
	err := s.db.QueryRow(`
		SELECT rate FROM fx_rates
		WHERE rate_date = ? AND base_currency = ? AND quote_currency = ?`,
		formatDate(date), base, quote).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Decimal{}, false, nil
	}
	if err != nil {
		return decimal.Decimal{}, false, apperrors.NewStorageError("failed to query fx rate", err)
	}

	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false, apperrors.NewStorageError("stored fx rate is malformed", err)
	}
	return rate, true, nil
}
