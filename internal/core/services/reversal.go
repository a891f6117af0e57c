package services

import (
	"time"

	"github.com/mkadlec/assetledger/internal/core/domain"
)

// reversalNotePrefix links a REVERSAL row back to the id it negates. This is
// provenance only, not enforced referential integrity.
const reversalNotePrefix = "reversal of"

// BuildReversal constructs a new row negating the economic effect of the
// original: fresh id, type REVERSAL, same asset/currency/venue, amount
// negated, price copied verbatim, timestamp truncated to whole seconds.
func BuildReversal(newID func() string, now func() time.Time, original domain.Row) domain.Row {
	return domain.Row{
		ID:        newID(),
		Timestamp: now().Truncate(time.Second),
		Type:      domain.Reversal,
		Asset:     original.Asset,
		Amount:    original.Amount.Neg(),
		Currency:  original.Currency,
		Price:     original.Price,
		Venue:     original.Venue,
		Note:      reversalNotePrefix + " " + original.ID,
	}
}

// BuildReversalPair reverses every leg of a double-entry pair, one REVERSAL
// per leg. The builder applies no atomicity across legs; reversing all legs
// or none is the caller's choice.
func BuildReversalPair(newID func() string, now func() time.Time, originals []domain.Row) []domain.Row {
	reversals := make([]domain.Row, len(originals))
	for i, original := range originals {
		reversals[i] = BuildReversal(newID, now, original)
	}
	return reversals
}
