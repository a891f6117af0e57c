package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RowSummary is a condensed view of a persisted row, used for interactive
// selection of reversal targets.
type RowSummary struct {
	Key        int64           `json:"key"`
	ID         string          `json:"id"`
	Timestamp  time.Time       `json:"timestamp"`
	Type       RowType         `json:"type"`
	Asset      string          `json:"asset"`
	Amount     decimal.Decimal `json:"amount"`
	Venue      string          `json:"venue"`
	InsertedAt time.Time       `json:"insertedAt"`
}
