package exporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkadlec/assetledger/internal/core/domain"
)

func sampleRows(t *testing.T) []domain.Row {
	t.Helper()
	price := decimal.RequireFromString("61000.5")
	return []domain.Row{
		{
			Key:       1,
			ID:        "row-1",
			Timestamp: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
			Type:      domain.Buy,
			Asset:     "BTC",
			Amount:    decimal.RequireFromString("0.00000003"),
			Currency:  "EUR",
			Price:     &price,
			Venue:     "kraken",
			Note:      "tiny, but exact",
		},
		{
			Key:       2,
			ID:        "row-2",
			Timestamp: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
			Type:      domain.Fee,
			Asset:     "EUR",
			Amount:    decimal.RequireFromString("-1.5"),
			Currency:  "EUR",
			Venue:     "kraken",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows(t)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"key", "id", "timestamp", "type", "asset", "amount", "currency", "price", "venue", "note"}, records[0])
	assert.Equal(t, []string{"1", "row-1", "2024-03-01T10:30:00", "BUY", "BTC", "0.00000003", "EUR", "61000.5", "kraken", "tiny, but exact"}, records[1])
	assert.Equal(t, []string{"2", "row-2", "2024-03-02T09:00:00", "FEE", "EUR", "-1.5", "EUR", "", "kraken", ""}, records[2])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRows(t)))

	var records []domain.PlainRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 2)

	assert.Equal(t, "row-1", records[0].ID)
	assert.Equal(t, "0.00000003", records[0].Amount)
	assert.Equal(t, "61000.5", records[0].Price)
	assert.Equal(t, "", records[1].Price)
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))

	var records []domain.PlainRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	assert.Empty(t, records)
}
