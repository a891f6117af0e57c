package dto

import (
	"github.com/mkadlec/assetledger/internal/core/domain"
)

// CreateRowRequest carries one manual ledger entry. Amount and price travel
// as strings so the service can reject malformed decimals as validation
// errors rather than transport errors.
type CreateRowRequest struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp" binding:"required"`
	Type      string `json:"type" binding:"required"`
	Asset     string `json:"asset" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
	Currency  string `json:"currency" binding:"required"`
	Price     string `json:"price"`
	Venue     string `json:"venue" binding:"required"`
	Note      string `json:"note"`
}

// CreateTradeRequest carries a double-entry trade. Amounts are magnitudes;
// the trade builder applies the signs.
type CreateTradeRequest struct {
	Timestamp      string `json:"timestamp" binding:"required"`
	Type           string `json:"type" binding:"required,oneof=BUY SELL"`
	Asset          string `json:"asset" binding:"required"`
	AssetAmount    string `json:"assetAmount" binding:"required"`
	Currency       string `json:"currency" binding:"required"`
	CurrencyAmount string `json:"currencyAmount" binding:"required"`
	Venue          string `json:"venue" binding:"required"`
	Price          string `json:"price"`
	Note           string `json:"note"`
}

// CreateReversalRequest identifies the row to negate by its surrogate key.
// ReversePair reverses every leg sharing the row's id when a pair exists.
type CreateReversalRequest struct {
	Key         int64 `json:"key" binding:"required"`
	ReversePair bool  `json:"reversePair"`
}

// OperationResult is the outcome of one write operation. Validation failures
// and duplicate rejections land in Errors; Diagnostics carries a fresh
// negative-balance snapshot after every successful write.
type OperationResult struct {
	Success      bool                `json:"success"`
	RowsInserted int                 `json:"rowsInserted"`
	Errors       []string            `json:"errors,omitempty"`
	Diagnostics  []domain.Diagnostic `json:"diagnostics,omitempty"`
	InsertedRows []domain.Row        `json:"insertedRows,omitempty"`
}

// RowErrors collects the validation messages for one row of a batch.
type RowErrors struct {
	Index  int      `json:"index"`
	Errors []string `json:"errors"`
}

// ImportResult is the outcome of a batch import.
type ImportResult struct {
	Inserted         int                 `json:"inserted"`
	Skipped          int                 `json:"skipped"`
	ValidationErrors []RowErrors         `json:"validationErrors,omitempty"`
	Diagnostics      []domain.Diagnostic `json:"diagnostics,omitempty"`
}

// RowResponse is the export-facing rendering of a row.
type RowResponse = domain.PlainRecord

// ToRowResponse converts a domain Row to its plain-record response.
func ToRowResponse(row domain.Row) RowResponse {
	return row.ToPlainRecord()
}

// ToRowResponses converts a slice of rows.
func ToRowResponses(rows []domain.Row) []RowResponse {
	responses := make([]RowResponse, len(rows))
	for i, row := range rows {
		responses[i] = row.ToPlainRecord()
	}
	return responses
}
