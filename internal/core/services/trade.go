package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/mkadlec/assetledger/internal/apperrors"
	"github.com/mkadlec/assetledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TradeParams are the inputs of a double-entry trade. AssetAmount and
// CurrencyAmount are magnitudes; BuildTrade applies the signs.
type TradeParams struct {
	Timestamp      time.Time
	Type           domain.RowType
	Asset          string
	AssetAmount    decimal.Decimal
	Currency       string
	CurrencyAmount decimal.Decimal
	Venue          string
	Price          *decimal.Decimal
	Note           string
}

// BuildTrade constructs the two legs of a double-entry trade sharing one
// freshly generated id. For BUY the asset leg is +AssetAmount and the
// currency leg -CurrencyAmount; for SELL the signs invert. Each leg's
// currency field is set to the other leg's asset, which is what links the
// pair in balance views. BuildTrade has no persistence side effect.
func BuildTrade(newID func() string, p TradeParams) (domain.Row, domain.Row, error) {
	if p.Type != domain.Buy && p.Type != domain.Sell {
		return domain.Row{}, domain.Row{}, apperrors.NewAppError(400,
			fmt.Sprintf("trade type must be BUY or SELL, got %q", p.Type), apperrors.ErrValidation)
	}

	asset := strings.ToUpper(strings.TrimSpace(p.Asset))
	currency := strings.ToUpper(strings.TrimSpace(p.Currency))
	venue := strings.ToLower(strings.TrimSpace(p.Venue))

	assetAmount := p.AssetAmount
	currencyAmount := p.CurrencyAmount.Neg()
	if p.Type == domain.Sell {
		assetAmount = p.AssetAmount.Neg()
		currencyAmount = p.CurrencyAmount
	}

	sharedID := newID()

	assetLeg := domain.Row{
		ID:        sharedID,
		Timestamp: p.Timestamp,
		Type:      p.Type,
		Asset:     asset,
		Amount:    assetAmount,
		Currency:  currency,
		Price:     p.Price,
		Venue:     venue,
		Note:      p.Note,
	}

	currencyLeg := domain.Row{
		ID:        sharedID,
		Timestamp: p.Timestamp,
		Type:      p.Type,
		Asset:     currency,
		Amount:    currencyAmount,
		Currency:  asset,
		Price:     p.Price,
		Venue:     venue,
		Note:      p.Note,
	}

	return assetLeg, currencyLeg, nil
}
