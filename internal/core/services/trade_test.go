package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/mkadlec/assetledger/internal/apperrors"
	"github.com/mkadlec/assetledger/internal/core/domain"
	"github.com/mkadlec/assetledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedID(id string) func() string {
	return func() string { return id }
}

func tradeParams(t *testing.T, tradeType domain.RowType) services.TradeParams {
	t.Helper()
	return services.TradeParams{
		Timestamp:      time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		Type:           tradeType,
		Asset:          "btc",
		AssetAmount:    mustDecimal(t, "0.1"),
		Currency:       "eur",
		CurrencyAmount: mustDecimal(t, "5000"),
		Venue:          "Kraken",
	}
}

func TestBuildTradeBuy(t *testing.T) {
	assetLeg, currencyLeg, err := services.BuildTrade(fixedID("trade-1"), tradeParams(t, domain.Buy))
	require.NoError(t, err)

	assert.Equal(t, "trade-1", assetLeg.ID)
	assert.Equal(t, "trade-1", currencyLeg.ID)

	assert.Equal(t, "BTC", assetLeg.Asset)
	assert.True(t, assetLeg.Amount.Equal(mustDecimal(t, "0.1")))
	assert.Equal(t, "EUR", assetLeg.Currency)

	assert.Equal(t, "EUR", currencyLeg.Asset)
	assert.True(t, currencyLeg.Amount.Equal(mustDecimal(t, "-5000")))
	assert.Equal(t, "BTC", currencyLeg.Currency)

	assert.Equal(t, "kraken", assetLeg.Venue)
	assert.Equal(t, "kraken", currencyLeg.Venue)
}

func TestBuildTradeSellInvertsSigns(t *testing.T) {
	assetLeg, currencyLeg, err := services.BuildTrade(fixedID("trade-2"), tradeParams(t, domain.Sell))
	require.NoError(t, err)

	assert.True(t, assetLeg.Amount.Equal(mustDecimal(t, "-0.1")))
	assert.True(t, currencyLeg.Amount.Equal(mustDecimal(t, "5000")))
}

func TestBuildTradeCrossLinksLegs(t *testing.T) {
	assetLeg, currencyLeg, err := services.BuildTrade(fixedID("trade-3"), tradeParams(t, domain.Buy))
	require.NoError(t, err)

	// Each leg's currency is the other leg's asset.
	assert.Equal(t, assetLeg.Asset, currencyLeg.Currency)
	assert.Equal(t, currencyLeg.Asset, assetLeg.Currency)
}

func TestBuildTradeBothLegsValidate(t *testing.T) {
	assetLeg, currencyLeg, err := services.BuildTrade(fixedID("trade-4"), tradeParams(t, domain.Buy))
	require.NoError(t, err)

	okA, errsA := services.ValidateRow(assetLeg)
	assert.True(t, okA, "asset leg errors: %v", errsA)
	okC, errsC := services.ValidateRow(currencyLeg)
	assert.True(t, okC, "currency leg errors: %v", errsC)
}

func TestBuildTradeRejectsNonTradeTypes(t *testing.T) {
	for _, tradeType := range []domain.RowType{domain.Transfer, domain.Fee, domain.Reversal, domain.RowType("AIRDROP")} {
		_, _, err := services.BuildTrade(fixedID("x"), tradeParams(t, tradeType))
		require.Error(t, err, "type %s", tradeType)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
	}
}
