package services

import (
	"fmt"

	"github.com/mkadlec/assetledger/internal/core/domain"
)

// ValidateRow performs the pure syntactic check of one row. All checks run
// independently and every failure is collected; nothing short-circuits.
// Validation never touches storage state, so it cannot detect duplicates or
// negative balances — those are the store's concern at write time.
func ValidateRow(row domain.Row) (bool, []string) {
	var errs []string

	if row.ID == "" {
		errs = append(errs, "missing id")
	}

	if row.Timestamp.IsZero() {
		errs = append(errs, "timestamp is not a valid point in time")
	}

	if !row.Type.IsValid() {
		errs = append(errs, fmt.Sprintf("invalid type: %q (allowed: BUY, SELL, TRANSFER, FEE, REVERSAL)", row.Type))
	}

	if row.Asset == "" {
		errs = append(errs, "missing asset")
	}

	if row.Amount.IsZero() {
		errs = append(errs, "amount is zero")
	}

	if row.Currency == "" {
		errs = append(errs, "missing currency")
	}

	if row.Venue == "" {
		errs = append(errs, "missing venue")
	}

	return len(errs) == 0, errs
}

// ValidateRows splits a batch into valid rows and the per-row error lists of
// the rejected ones. Indices refer to positions in the input slice.
func ValidateRows(rows []domain.Row) ([]domain.Row, []RowValidationError) {
	var valid []domain.Row
	var invalid []RowValidationError
	for i, row := range rows {
		if ok, errs := ValidateRow(row); ok {
			valid = append(valid, row)
		} else {
			invalid = append(invalid, RowValidationError{Index: i, Errors: errs})
		}
	}
	return valid, invalid
}

// RowValidationError ties a batch index to its validation messages.
type RowValidationError struct {
	Index  int
	Errors []string
}
