package store

// schema is applied on every Open; all statements are idempotent. Decimal
// amounts are stored as text to keep exact values round-trippable.
const schema = `
CREATE TABLE IF NOT EXISTS import_runs (
	id               TEXT PRIMARY KEY,
	profile          TEXT NOT NULL,
	file             TEXT NOT NULL,
	account          TEXT NOT NULL DEFAULT '',
	statement_date   TEXT NOT NULL,
	total_rows       INTEGER NOT NULL,
	parsed_rows      INTEGER NOT NULL,
	cash_accounts    INTEGER NOT NULL,
	security_records INTEGER NOT NULL,
	percent_valued   INTEGER NOT NULL,
	skipped          INTEGER NOT NULL,
	unclassified     INTEGER NOT NULL,
	started_at       TEXT NOT NULL,
	finished_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS positions (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id          TEXT NOT NULL REFERENCES import_runs(id) ON DELETE CASCADE,
	account_number  TEXT NOT NULL DEFAULT '',
	account_name    TEXT NOT NULL DEFAULT '',
	instrument_name TEXT NOT NULL,
	ticker_symbol   TEXT NOT NULL DEFAULT '',
	isin            TEXT NOT NULL DEFAULT '',
	valor_nr        TEXT NOT NULL DEFAULT '',
	currency        TEXT NOT NULL,
	quantity        TEXT NOT NULL,
	purchase_price  TEXT,
	current_price   TEXT,
	report_date     TEXT NOT NULL,
	is_cash         INTEGER NOT NULL,
	sub_class       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_positions_report_date
	ON positions(report_date);
CREATE INDEX IF NOT EXISTS idx_positions_account
	ON positions(account_number, report_date);

CREATE TABLE IF NOT EXISTS transactions (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id           TEXT NOT NULL REFERENCES import_runs(id) ON DELETE CASCADE,
	transaction_date TEXT NOT NULL,
	description      TEXT NOT NULL,
	amount           TEXT NOT NULL,
	currency         TEXT NOT NULL,
	bank_account     TEXT NOT NULL DEFAULT '',
	UNIQUE(transaction_date, description, amount, currency, bank_account)
);

CREATE TABLE IF NOT EXISTS fx_rates (
	rate_date      TEXT NOT NULL,
	base_currency  TEXT NOT NULL,
	quote_currency TEXT NOT NULL,
	rate           TEXT NOT NULL,
	PRIMARY KEY (rate_date, base_currency, quote_currency)
);
`
