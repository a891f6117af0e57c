package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// RowType classifies a ledger movement. The set is closed; anything else is
// rejected before persistence.
type RowType string

const (
	Buy      RowType = "BUY"
	Sell     RowType = "SELL"
	Transfer RowType = "TRANSFER"
	Fee      RowType = "FEE"
	Reversal RowType = "REVERSAL"
)

// IsValid reports whether t is one of the closed set of row types.
func (t RowType) IsValid() bool {
	switch t {
	case Buy, Sell, Transfer, Fee, Reversal:
		return true
	}
	return false
}

// TimestampLayout is the canonical second-precision layout used for
// fingerprinting and persistence.
const TimestampLayout = "2006-01-02T15:04:05"

// timestampLayouts are the accepted textual timestamp formats.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05Z",
}

// ParseTimestamp parses one of the accepted textual timestamp formats.
func ParseTimestamp(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Row is one immutable ledger movement. Two rows sharing an ID form a
// double-entry pair. Persisted rows are never updated or deleted; a later
// REVERSAL row is the only corrective mechanism.
type Row struct {
	Key       int64            `json:"key"` // Surrogate sequence key, 0 until persisted
	ID        string           `json:"id"`  // Shared across a double-entry pair
	Timestamp time.Time        `json:"timestamp"`
	Type      RowType          `json:"type"`
	Asset     string           `json:"asset"`  // Uppercase
	Amount    decimal.Decimal  `json:"amount"` // Signed, never zero
	Currency  string           `json:"currency"`
	Price     *decimal.Decimal `json:"price,omitempty"` // Informational per-unit price
	Venue     string           `json:"venue"`           // Lowercase
	Note      string           `json:"note,omitempty"`
}

// Fingerprint returns the deterministic deduplication key for the row: a
// sha256 over the second-precision timestamp, uppercase type, lowercase
// venue, uppercase asset and the amount fixed to 8 decimal places. ID and
// Note deliberately do not participate, so two imports of the same logical
// event collide regardless of generated identifiers.
func (r Row) Fingerprint() string {
	normalized := r.Timestamp.Format(TimestampLayout) +
		string(r.Type) +
		r.Venue +
		r.Asset +
		r.Amount.StringFixed(8)
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// PlainRecord is the export-facing rendering of a Row: every field as text,
// decimals without loss of precision, timestamp in ISO-8601.
type PlainRecord struct {
	Key       string `json:"key"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Asset     string `json:"asset"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Price     string `json:"price"`
	Venue     string `json:"venue"`
	Note      string `json:"note"`
}

// ToPlainRecord renders the row for export and UI adapters.
func (r Row) ToPlainRecord() PlainRecord {
	rec := PlainRecord{
		Key:       strconv.FormatInt(r.Key, 10),
		ID:        r.ID,
		Timestamp: r.Timestamp.Format(TimestampLayout),
		Type:      string(r.Type),
		Asset:     r.Asset,
		Amount:    r.Amount.String(),
		Currency:  r.Currency,
		Venue:     r.Venue,
		Note:      r.Note,
	}
	if r.Price != nil {
		rec.Price = r.Price.String()
	}
	return rec
}
