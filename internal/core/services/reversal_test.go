package services_test

import (
	"testing"
	"time"

	"github.com/mkadlec/assetledger/internal/core/domain"
	"github.com/mkadlec/assetledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestBuildReversalNegatesOriginal(t *testing.T) {
	price := mustDecimal(t, "61000")
	original := domain.Row{
		Key:       7,
		ID:        "orig-1",
		Timestamp: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		Type:      domain.Buy,
		Asset:     "BTC",
		Amount:    mustDecimal(t, "0.5"),
		Currency:  "EUR",
		Price:     &price,
		Venue:     "kraken",
		Note:      "original note",
	}

	now := time.Date(2024, 4, 2, 8, 0, 0, 123456789, time.UTC)
	rev := services.BuildReversal(fixedID("rev-1"), fixedClock(now), original)

	assert.Equal(t, "rev-1", rev.ID)
	assert.Equal(t, domain.Reversal, rev.Type)
	assert.True(t, rev.Amount.Equal(mustDecimal(t, "-0.5")))
	assert.Equal(t, "BTC", rev.Asset)
	assert.Equal(t, "EUR", rev.Currency)
	assert.Equal(t, "kraken", rev.Venue)
	require.NotNil(t, rev.Price)
	assert.True(t, rev.Price.Equal(price))
	assert.Equal(t, "reversal of orig-1", rev.Note)

	// Timestamp is the clock's now, truncated to whole seconds.
	assert.Equal(t, time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC), rev.Timestamp)
}

func TestBuildReversalOfNegativeAmount(t *testing.T) {
	original := domain.Row{
		ID:        "fee-1",
		Timestamp: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		Type:      domain.Fee,
		Asset:     "EUR",
		Amount:    mustDecimal(t, "-12.5"),
		Currency:  "EUR",
		Venue:     "kraken",
	}

	rev := services.BuildReversal(fixedID("rev-2"), fixedClock(time.Now()), original)
	assert.True(t, rev.Amount.Equal(mustDecimal(t, "12.5")))
}

func TestBuildReversalValidates(t *testing.T) {
	original := domain.Row{
		ID:        "orig-2",
		Timestamp: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		Type:      domain.Transfer,
		Asset:     "ETH",
		Amount:    mustDecimal(t, "2"),
		Currency:  "ETH",
		Venue:     "ledger",
	}

	rev := services.BuildReversal(fixedID("rev-3"), fixedClock(time.Now()), original)
	ok, errs := services.ValidateRow(rev)
	assert.True(t, ok, "errors: %v", errs)
}

func TestBuildReversalPair(t *testing.T) {
	assetLeg, currencyLeg, err := services.BuildTrade(fixedID("pair-1"), tradeParams(t, domain.Buy))
	require.NoError(t, err)

	counter := 0
	newID := func() string {
		counter++
		return map[int]string{1: "rev-a", 2: "rev-b"}[counter]
	}

	reversals := services.BuildReversalPair(newID, fixedClock(time.Now()), []domain.Row{assetLeg, currencyLeg})
	require.Len(t, reversals, 2)

	// One REVERSAL per leg, each with its own fresh id.
	assert.NotEqual(t, reversals[0].ID, reversals[1].ID)
	assert.True(t, reversals[0].Amount.Equal(assetLeg.Amount.Neg()))
	assert.True(t, reversals[1].Amount.Equal(currencyLeg.Amount.Neg()))
	assert.Equal(t, domain.Reversal, reversals[0].Type)
	assert.Equal(t, domain.Reversal, reversals[1].Type)
}
