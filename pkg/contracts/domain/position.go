package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionRecord is the canonical form of one row of a position statement.
// It is produced by the ingestion pipeline and consumed by the persistence
// layer; it has no lifecycle of its own beyond a single import run.
type PositionRecord struct {
	AccountNumber  string           `json:"account_number" db:"account_number"`
	AccountName    string           `json:"account_name" db:"account_name"`
	InstrumentName string           `json:"instrument_name" db:"instrument_name" validate:"required"`
	TickerSymbol   string           `json:"ticker_symbol,omitempty" db:"ticker_symbol"`
	ISIN           string           `json:"isin,omitempty" db:"isin" validate:"omitempty,len=12"`
	ValorNr        string           `json:"valor_nr,omitempty" db:"valor_nr"`
	Currency       string           `json:"currency" db:"currency" validate:"required,len=3,uppercase"`
	Quantity       decimal.Decimal  `json:"quantity" db:"quantity"`
	PurchasePrice  *decimal.Decimal `json:"purchase_price,omitempty" db:"purchase_price"`
	CurrentPrice   *decimal.Decimal `json:"current_price,omitempty" db:"current_price"`
	ReportDate     time.Time        `json:"report_date" db:"report_date" validate:"required"`
	IsCash         bool             `json:"is_cash" db:"is_cash"`
	SubClass       SubClass         `json:"sub_class" db:"sub_class"`
}

// IsSecurity reports whether the record represents a tradable instrument
// holding rather than a bank-account cash balance.
func (p *PositionRecord) IsSecurity() bool {
	return !p.IsCash
}
