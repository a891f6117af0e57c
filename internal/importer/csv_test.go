package importer

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkadlec/assetledger/internal/core/domain"
)

func newTestLoader() *CSVLoader {
	counter := 0
	return &CSVLoader{NewID: func() string {
		counter++
		return fmt.Sprintf("gen-%d", counter)
	}}
}

const csvHeader = "id,timestamp,type,asset,amount,currency,price,venue,note\n"

func TestLoadParsesWellFormedRows(t *testing.T) {
	input := csvHeader +
		"row-1,2024-03-01T10:30:00,BUY,btc,0.5,eur,61000,Kraken,dca order\n"

	result, err := newTestLoader().Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Empty(t, result.Errors)

	row := result.Rows[0]
	assert.Equal(t, "row-1", row.ID)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), row.Timestamp)
	assert.Equal(t, domain.Buy, row.Type)
	assert.Equal(t, "BTC", row.Asset)
	assert.Equal(t, "0.5", row.Amount.String())
	assert.Equal(t, "EUR", row.Currency)
	require.NotNil(t, row.Price)
	assert.Equal(t, "61000", row.Price.String())
	assert.Equal(t, "kraken", row.Venue)
	assert.Equal(t, "dca order", row.Note)
}

func TestLoadGeneratesMissingIDs(t *testing.T) {
	input := csvHeader +
		",2024-03-01T10:30:00,BUY,BTC,0.5,EUR,,kraken,\n" +
		"nan,2024-03-01T10:31:00,SELL,BTC,-0.1,EUR,,kraken,\n"

	result, err := newTestLoader().Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "gen-1", result.Rows[0].ID)
	assert.Equal(t, "gen-2", result.Rows[1].ID)
}

func TestLoadSkipsPaddingRows(t *testing.T) {
	input := csvHeader +
		",,,,,,,,\n" +
		"row-1,2024-03-01T10:30:00,BUY,BTC,0.5,EUR,,kraken,\n" +
		",,,,,,,,\n"

	result, err := newTestLoader().Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, result.Rows, 1)
	assert.Empty(t, result.Errors)
}

func TestLoadCollectsPerRowErrors(t *testing.T) {
	input := csvHeader +
		"row-1,not-a-date,BUY,BTC,abc,EUR,,kraken,\n" +
		"row-2,2024-03-01T10:30:00,BUY,BTC,0.5,EUR,,kraken,\n"

	result, err := newTestLoader().Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "row-2", result.Rows[0].ID)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Index)
	require.Len(t, result.Errors[0].Errors, 2)
	assert.Contains(t, result.Errors[0].Errors[0], "cannot parse timestamp")
	assert.Contains(t, result.Errors[0].Errors[1], "invalid or missing amount")
}

func TestLoadInvalidPriceReported(t *testing.T) {
	input := csvHeader +
		"row-1,2024-03-01T10:30:00,BUY,BTC,0.5,EUR,cheap,kraken,\n"

	result, err := newTestLoader().Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, result.Rows)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Errors[0], "invalid price")
}

func TestLoadScrubsPlaceholderNotes(t *testing.T) {
	input := csvHeader +
		"row-1,2024-03-01T10:30:00,BUY,BTC,0.5,EUR,,kraken,NaN\n" +
		"row-2,2024-03-01T10:31:00,BUY,BTC,0.5,EUR,,kraken,none\n"

	result, err := newTestLoader().Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Empty(t, result.Rows[0].Note)
	assert.Empty(t, result.Rows[1].Note)
}

func TestLoadHeaderCaseInsensitive(t *testing.T) {
	input := "ID,Timestamp,TYPE,Asset,Amount,Currency,Price,Venue,Note\n" +
		"row-1,2024-03-01 10:30:00,BUY,BTC,0.5,EUR,,kraken,\n"

	result, err := newTestLoader().Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "row-1", result.Rows[0].ID)
}

func TestLoadEmptyStream(t *testing.T) {
	result, err := newTestLoader().Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, result.Rows)
	assert.Empty(t, result.Errors)
}
