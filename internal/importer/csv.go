// Package importer is the untrusted input adapter: it turns raw CSV files
// into ledger rows plus per-row parse errors. The core never sees the
// original file format.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkadlec/assetledger/internal/core/domain"
)

// RowError collects the parse failures of one raw input row.
type RowError struct {
	Index  int      `json:"index"`
	Errors []string `json:"errors"`
}

// LoadResult is the outcome of reading one raw file.
type LoadResult struct {
	Rows   []domain.Row
	Errors []RowError
}

// CSVLoader reads raw CSV exports. The id generator is injectable for
// deterministic tests.
type CSVLoader struct {
	NewID func() string
}

// NewCSVLoader creates a loader with the production id generator.
func NewCSVLoader() *CSVLoader {
	return &CSVLoader{NewID: uuid.NewString}
}

// Load reads a headered CSV stream. Rows missing both a type and an asset
// are silently skipped (spreadsheet padding); rows with unparseable fields
// are reported per index, never aborting the whole file. Field meaning is
// passed through untouched apart from case/whitespace normalization.
func (l *CSVLoader) Load(reader io.Reader) (*LoadResult, error) {
	cr := csv.NewReader(reader)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return &LoadResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, name := range header {
		header[i] = strings.ToLower(strings.TrimSpace(name))
	}

	result := &LoadResult{}
	for index := 1; ; index++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, RowError{Index: index, Errors: []string{err.Error()}})
			continue
		}

		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				fields[name] = record[i]
			}
		}

		if strings.TrimSpace(fields["type"]) == "" || strings.TrimSpace(fields["asset"]) == "" {
			continue
		}

		row, rowErr := l.normalizeRow(fields, index)
		if rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
			continue
		}
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}

// normalizeRow maps a raw field dictionary onto a domain row, collecting all
// parse failures instead of stopping at the first.
func (l *CSVLoader) normalizeRow(fields map[string]string, index int) (domain.Row, *RowError) {
	var errs []string

	ts, err := domain.ParseTimestamp(strings.TrimSpace(fields["timestamp"]))
	if err != nil {
		errs = append(errs, fmt.Sprintf("cannot parse timestamp: %q", fields["timestamp"]))
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(fields["amount"]))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid or missing amount: %q", fields["amount"]))
	}

	var price *decimal.Decimal
	if rawPrice := strings.TrimSpace(fields["price"]); rawPrice != "" {
		p, err := decimal.NewFromString(rawPrice)
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid price: %q", rawPrice))
		} else {
			price = &p
		}
	}

	if len(errs) > 0 {
		return domain.Row{}, &RowError{Index: index, Errors: errs}
	}

	note := strings.TrimSpace(fields["note"])
	if low := strings.ToLower(note); low == "nan" || low == "none" {
		note = ""
	}

	id := strings.TrimSpace(fields["id"])
	if id == "" || strings.ToLower(id) == "nan" {
		id = l.NewID()
	}

	return domain.Row{
		ID:        id,
		Timestamp: ts,
		Type:      domain.RowType(strings.ToUpper(strings.TrimSpace(fields["type"]))),
		Asset:     strings.ToUpper(strings.TrimSpace(fields["asset"])),
		Amount:    amount,
		Currency:  strings.ToUpper(strings.TrimSpace(fields["currency"])),
		Price:     price,
		Venue:     strings.ToLower(strings.TrimSpace(fields["venue"])),
		Note:      note,
	}, nil
}
