package mapping

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mkadlec/assetledger/internal/core/domain"
	"github.com/mkadlec/assetledger/internal/models"
)

// ToModelRow converts a domain Row to its storage record. Fingerprint and
// insertion timestamp are supplied by the repository at write time.
func ToModelRow(d domain.Row, rowFp, importedAt string) models.LedgerRow {
	m := models.LedgerRow{
		PK:         d.Key,
		ID:         d.ID,
		Timestamp:  d.Timestamp.Format(domain.TimestampLayout),
		Type:       string(d.Type),
		Asset:      d.Asset,
		Amount:     d.Amount.String(),
		Currency:   d.Currency,
		Venue:      d.Venue,
		RowFp:      rowFp,
		ImportedAt: importedAt,
	}
	if d.Price != nil {
		m.Price = sql.NullString{String: d.Price.String(), Valid: true}
	}
	if d.Note != "" {
		m.Note = sql.NullString{String: d.Note, Valid: true}
	}
	return m
}

// ToDomainRow converts a storage record back to a domain Row, re-parsing the
// exact-text decimals. A parse failure means the stored data is corrupt.
func ToDomainRow(m models.LedgerRow) (domain.Row, error) {
	ts, err := domain.ParseTimestamp(m.Timestamp)
	if err != nil {
		return domain.Row{}, fmt.Errorf("stored timestamp is not parseable: %w", err)
	}

	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return domain.Row{}, fmt.Errorf("stored amount is not a valid decimal: %w", err)
	}

	d := domain.Row{
		Key:       m.PK,
		ID:        m.ID,
		Timestamp: ts,
		Type:      domain.RowType(m.Type),
		Asset:     m.Asset,
		Amount:    amount,
		Currency:  m.Currency,
		Venue:     m.Venue,
	}
	if m.Price.Valid {
		price, err := decimal.NewFromString(m.Price.String)
		if err != nil {
			return domain.Row{}, fmt.Errorf("stored price is not a valid decimal: %w", err)
		}
		d.Price = &price
	}
	if m.Note.Valid {
		d.Note = m.Note.String
	}
	return d, nil
}
