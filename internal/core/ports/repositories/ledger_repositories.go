package repositories

import (
	"context"

	"github.com/mkadlec/assetledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerRepositoryFacade defines the persistence operations for the
// append-only ledger. There is deliberately no update or delete: persisted
// rows are immutable and only superseded by later REVERSAL rows.
type LedgerRepositoryFacade interface {
	// Insert persists the row. It returns false when the row's fingerprint
	// already exists (a duplicate, which is a normal outcome) and an error
	// only for genuine storage faults.
	Insert(ctx context.Context, row domain.Row) (bool, error)

	// InsertPair persists both legs of a double-entry pair inside one
	// transaction boundary for crash atomicity. Duplicate detection stays
	// per-row: one leg may be inserted while the other is rejected.
	InsertPair(ctx context.Context, assetLeg, currencyLeg domain.Row) (bool, bool, error)

	// Timeline returns all rows ordered by timestamp ascending, ties broken
	// by insertion order.
	Timeline(ctx context.Context) ([]domain.Row, error)

	// AssetBalances sums amounts grouped by asset using exact decimal
	// arithmetic.
	AssetBalances(ctx context.Context) (map[string]decimal.Decimal, error)

	// VenueBalances sums amounts grouped by (venue, asset).
	VenueBalances(ctx context.Context) (map[string]map[string]decimal.Decimal, error)

	// Diagnostics returns one NEGATIVE_BALANCE warning per (venue, asset)
	// pair whose balance is below zero.
	Diagnostics(ctx context.Context) ([]domain.Diagnostic, error)

	// FindRowByKey fetches a row by its surrogate sequence key. Returns
	// apperrors.ErrNotFound when no such row exists.
	FindRowByKey(ctx context.Context, key int64) (*domain.Row, error)

	// FindRowsByID fetches every leg sharing a logical id, timestamp-ordered.
	FindRowsByID(ctx context.Context, id string) ([]domain.Row, error)

	// Recent returns summary records ordered by insertion recency descending.
	Recent(ctx context.Context, limit int) ([]domain.RowSummary, error)

	// Count returns the number of persisted rows.
	Count(ctx context.Context) (int64, error)
}
