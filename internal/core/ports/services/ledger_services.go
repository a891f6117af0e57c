package services

import (
	"context"

	"github.com/mkadlec/assetledger/internal/core/domain"
	"github.com/mkadlec/assetledger/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerSvcFacade is the sole entry point into the ledger core. Importers and
// UI adapters call this interface and never touch the store directly.
//
// Write operations return a structured result for expected outcomes
// (validation failures, duplicates); the error return is reserved for
// storage faults.
type LedgerSvcFacade interface {
	ImportRows(ctx context.Context, rows []domain.Row) (*dto.ImportResult, error)
	AddRow(ctx context.Context, req dto.CreateRowRequest) (*dto.OperationResult, error)
	AddTrade(ctx context.Context, req dto.CreateTradeRequest) (*dto.OperationResult, error)
	AddReversal(ctx context.Context, req dto.CreateReversalRequest) (*dto.OperationResult, error)

	Timeline(ctx context.Context) ([]domain.Row, error)
	AssetBalances(ctx context.Context) (map[string]decimal.Decimal, error)
	VenueBalances(ctx context.Context) (map[string]map[string]decimal.Decimal, error)
	Diagnostics(ctx context.Context) ([]domain.Diagnostic, error)
	Recent(ctx context.Context, limit int) ([]domain.RowSummary, error)
	Count(ctx context.Context) (int64, error)
	GetRowByKey(ctx context.Context, key int64) (*domain.Row, error)
	GetRowsByID(ctx context.Context, id string) ([]domain.Row, error)
}
