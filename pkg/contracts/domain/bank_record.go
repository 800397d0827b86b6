package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankRecord is the canonical form of one transaction-style statement row.
// Amount is signed; debits are negative.
type BankRecord struct {
	TransactionDate time.Time       `json:"transaction_date" db:"transaction_date" validate:"required"`
	Description     string          `json:"description" db:"description" validate:"required"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	Currency        string          `json:"currency" db:"currency" validate:"required,len=3,uppercase"`
	BankAccount     string          `json:"bank_account" db:"bank_account"`
}
