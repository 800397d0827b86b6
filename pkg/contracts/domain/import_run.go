package domain

import (
	"time"
)

// ImportSummary aggregates per-row outcomes of one parse invocation.
// It is derived data, read-only once produced.
type ImportSummary struct {
	TotalRows       int `json:"total_rows"`
	ParsedRows      int `json:"parsed_rows"`
	CashAccounts    int `json:"cash_accounts"`
	SecurityRecords int `json:"security_records"`
	PercentValued   int `json:"percent_valued"`
	Skipped         int `json:"skipped"`
	Unclassified    int `json:"unclassified"`
}

// ImportRun ties a parsed statement file to its outcome so persisted
// imports stay traceable. One run per file per invocation.
type ImportRun struct {
	ID            string        `json:"id" db:"id" validate:"required,uuid"`
	Profile       string        `json:"profile" db:"profile" validate:"required"`
	File          string        `json:"file" db:"file" validate:"required"`
	Account       string        `json:"account" db:"account"`
	StatementDate time.Time     `json:"statement_date" db:"statement_date" validate:"required"`
	Summary       ImportSummary `json:"summary"`
	StartedAt     time.Time     `json:"started_at" db:"started_at"`
	FinishedAt    time.Time     `json:"finished_at" db:"finished_at"`
}
