// Package exporter serializes already-validated ledger rows to CSV or JSON.
// It is pure formatting over plain records; no storage handles cross this
// boundary.
package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mkadlec/assetledger/internal/core/domain"
)

var csvHeader = []string{"key", "id", "timestamp", "type", "asset", "amount", "currency", "price", "venue", "note"}

// WriteCSV renders the rows as headered CSV, decimals without loss of
// precision.
func WriteCSV(w io.Writer, rows []domain.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		rec := row.ToPlainRecord()
		record := []string{rec.Key, rec.ID, rec.Timestamp, rec.Type, rec.Asset, rec.Amount, rec.Currency, rec.Price, rec.Venue, rec.Note}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON renders the rows as a JSON array of plain records.
func WriteJSON(w io.Writer, rows []domain.Row) error {
	records := make([]domain.PlainRecord, len(rows))
	for i, row := range rows {
		records[i] = row.ToPlainRecord()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
