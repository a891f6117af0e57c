package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DiagnosticType identifies a class of consistency warning.
type DiagnosticType string

// NegativeBalance flags a (venue, asset) pair whose summed balance is below
// zero. Diagnostics are warnings, never failures; they never block a write.
const NegativeBalance DiagnosticType = "NEGATIVE_BALANCE"

// Diagnostic is one non-blocking consistency warning derived from the
// aggregated ledger state.
type Diagnostic struct {
	Type    DiagnosticType  `json:"type"`
	Venue   string          `json:"venue"`
	Asset   string          `json:"asset"`
	Balance decimal.Decimal `json:"balance"`
	Message string          `json:"message"`
}

// NewNegativeBalance builds the warning for a negative (venue, asset) balance.
func NewNegativeBalance(venue, asset string, balance decimal.Decimal) Diagnostic {
	return Diagnostic{
		Type:    NegativeBalance,
		Venue:   venue,
		Asset:   asset,
		Balance: balance,
		Message: fmt.Sprintf("negative balance: %s at %s = %s", asset, venue, balance.String()),
	}
}
