package models

import "database/sql"

// LedgerRow mirrors one record of the ledger table. Decimals and timestamps
// travel as exact text; nothing in the storage layer goes through binary
// floating point.
type LedgerRow struct {
	PK         int64          // Surrogate sequence key
	ID         string         // Logical event id, shared across a pair
	Timestamp  string         // ISO-8601, second precision
	Type       string         // BUY, SELL, TRANSFER, FEE, REVERSAL
	Asset      string         // Uppercase
	Amount     string         // Signed decimal as exact text
	Currency   string         // Uppercase
	Price      sql.NullString // Optional decimal as exact text
	Venue      string         // Lowercase
	Note       sql.NullString // Nullable
	RowFp      string         // Fingerprint, UNIQUE
	ImportedAt string         // Insertion timestamp, RFC3339Nano
}
