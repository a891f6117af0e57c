package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkadlec/assetledger/internal/apperrors"
	"github.com/mkadlec/assetledger/internal/core/domain"
	portsrepo "github.com/mkadlec/assetledger/internal/core/ports/repositories"
	"github.com/mkadlec/assetledger/internal/models"
	"github.com/mkadlec/assetledger/internal/utils/mapping"
)

// SQLiteLedgerRepository persists ledger rows in an append-only SQLite table.
// There is no UPDATE or DELETE path anywhere in this repository.
type SQLiteLedgerRepository struct {
	BaseRepository
	now func() time.Time
}

// NewSQLiteLedgerRepository creates a repository over an open database handle.
func NewSQLiteLedgerRepository(db *sql.DB) portsrepo.LedgerRepositoryFacade {
	return &SQLiteLedgerRepository{
		BaseRepository: BaseRepository{DB: db},
		now:            time.Now,
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*SQLiteLedgerRepository)(nil)

const rowColumns = "pk, id, timestamp, type, asset, amount, currency, price, venue, note, row_fp, imported_at"

// isUniqueViolation detects a fingerprint collision surfaced by the UNIQUE
// index on row_fp.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// insertRow runs the INSERT against either the pool or an open transaction.
// It returns false for a fingerprint collision and errors only for genuine
// storage faults.
func (r *SQLiteLedgerRepository) insertRow(ctx context.Context, q dbtx, row domain.Row) (bool, error) {
	m := mapping.ToModelRow(row, row.Fingerprint(), r.now().UTC().Format(time.RFC3339Nano))

	_, err := q.ExecContext(ctx, `
		INSERT INTO ledger (id, timestamp, type, asset, amount, currency, price, venue, note, row_fp, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Timestamp, m.Type, m.Asset, m.Amount, m.Currency, m.Price, m.Venue, m.Note, m.RowFp, m.ImportedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, apperrors.NewAppError(500, "failed to insert ledger row", err)
	}
	return true, nil
}

// Insert persists one row. Duplicates return (false, nil).
func (r *SQLiteLedgerRepository) Insert(ctx context.Context, row domain.Row) (bool, error) {
	return r.insertRow(ctx, r.DB, row)
}

// InsertPair persists both legs inside one transaction so a crash cannot
// leave a half-written pair. Duplicate detection remains per leg: one leg may
// commit while the other is rejected.
func (r *SQLiteLedgerRepository) InsertPair(ctx context.Context, assetLeg, currencyLeg domain.Row) (bool, bool, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return false, false, err
	}
	defer r.Rollback(tx)

	insertedA, err := r.insertRow(ctx, tx, assetLeg)
	if err != nil {
		return false, false, err
	}
	insertedC, err := r.insertRow(ctx, tx, currencyLeg)
	if err != nil {
		return false, false, err
	}

	if err := r.Commit(tx); err != nil {
		return false, false, err
	}
	return insertedA, insertedC, nil
}

// scanRow maps one result row onto the domain type via the storage record,
// re-parsing decimals from their stored exact-text form.
func scanRow(scanner interface{ Scan(dest ...any) error }) (domain.Row, error) {
	var m models.LedgerRow
	if err := scanner.Scan(&m.PK, &m.ID, &m.Timestamp, &m.Type, &m.Asset, &m.Amount,
		&m.Currency, &m.Price, &m.Venue, &m.Note, &m.RowFp, &m.ImportedAt); err != nil {
		return domain.Row{}, err
	}
	return mapping.ToDomainRow(m)
}

func (r *SQLiteLedgerRepository) queryRows(ctx context.Context, query string, args ...any) ([]domain.Row, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger rows", err)
	}
	defer rows.Close()

	var result []domain.Row
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate ledger rows", err)
	}
	return result, nil
}

// Timeline returns every row ordered by timestamp ascending, insertion order
// breaking ties.
func (r *SQLiteLedgerRepository) Timeline(ctx context.Context) ([]domain.Row, error) {
	return r.queryRows(ctx, "SELECT "+rowColumns+" FROM ledger ORDER BY timestamp ASC, pk ASC")
}

// sumAmounts folds stored exact-text amounts into decimal sums keyed by the
// query's first column. Monetary correctness depends on never accumulating
// through floating point, so the summation happens here, not in SQL.
func (r *SQLiteLedgerRepository) sumAmounts(ctx context.Context, query string) (map[string]decimal.Decimal, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query balances", err)
	}
	defer rows.Close()

	sums := make(map[string]decimal.Decimal)
	for rows.Next() {
		var key, amount string
		if err := rows.Scan(&key, &amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan balance row", err)
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, apperrors.NewAppError(500, "stored amount is not a valid decimal", err)
		}
		sums[key] = sums[key].Add(value)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate balance rows", err)
	}
	return sums, nil
}

// AssetBalances sums amounts grouped by asset.
func (r *SQLiteLedgerRepository) AssetBalances(ctx context.Context) (map[string]decimal.Decimal, error) {
	return r.sumAmounts(ctx, "SELECT asset, amount FROM ledger")
}

// VenueBalances sums amounts grouped by (venue, asset).
func (r *SQLiteLedgerRepository) VenueBalances(ctx context.Context) (map[string]map[string]decimal.Decimal, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT venue, asset, amount FROM ledger")
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query venue balances", err)
	}
	defer rows.Close()

	balances := make(map[string]map[string]decimal.Decimal)
	for rows.Next() {
		var venue, asset, amount string
		if err := rows.Scan(&venue, &asset, &amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan venue balance row", err)
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, apperrors.NewAppError(500, "stored amount is not a valid decimal", err)
		}
		if balances[venue] == nil {
			balances[venue] = make(map[string]decimal.Decimal)
		}
		balances[venue][asset] = balances[venue][asset].Add(value)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate venue balance rows", err)
	}
	return balances, nil
}

// Diagnostics emits one NEGATIVE_BALANCE warning per (venue, asset) pair in
// deficit, in deterministic venue/asset order.
func (r *SQLiteLedgerRepository) Diagnostics(ctx context.Context) ([]domain.Diagnostic, error) {
	venueBalances, err := r.VenueBalances(ctx)
	if err != nil {
		return nil, err
	}

	venues := make([]string, 0, len(venueBalances))
	for venue := range venueBalances {
		venues = append(venues, venue)
	}
	sort.Strings(venues)

	var warnings []domain.Diagnostic
	for _, venue := range venues {
		assets := make([]string, 0, len(venueBalances[venue]))
		for asset := range venueBalances[venue] {
			assets = append(assets, asset)
		}
		sort.Strings(assets)

		for _, asset := range assets {
			balance := venueBalances[venue][asset]
			if balance.IsNegative() {
				warnings = append(warnings, domain.NewNegativeBalance(venue, asset, balance))
			}
		}
	}
	return warnings, nil
}

// FindRowByKey fetches one row by its surrogate sequence key.
func (r *SQLiteLedgerRepository) FindRowByKey(ctx context.Context, key int64) (*domain.Row, error) {
	row, err := scanRow(r.DB.QueryRowContext(ctx,
		"SELECT "+rowColumns+" FROM ledger WHERE pk = ?", key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find ledger row by key", err)
	}
	return &row, nil
}

// FindRowsByID fetches every leg sharing a logical id, timestamp-ordered.
func (r *SQLiteLedgerRepository) FindRowsByID(ctx context.Context, id string) ([]domain.Row, error) {
	return r.queryRows(ctx, "SELECT "+rowColumns+" FROM ledger WHERE id = ? ORDER BY timestamp ASC, pk ASC", id)
}

// Recent returns summaries of the most recently inserted rows, newest first.
func (r *SQLiteLedgerRepository) Recent(ctx context.Context, limit int) ([]domain.RowSummary, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT pk, id, timestamp, type, asset, amount, venue, imported_at
		FROM ledger ORDER BY pk DESC LIMIT ?`, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query recent rows", err)
	}
	defer rows.Close()

	var summaries []domain.RowSummary
	for rows.Next() {
		var (
			summary    domain.RowSummary
			timestamp  string
			rowType    string
			amount     string
			importedAt string
		)
		if err := rows.Scan(&summary.Key, &summary.ID, &timestamp, &rowType, &summary.Asset, &amount, &summary.Venue, &importedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan recent row", err)
		}
		ts, err := domain.ParseTimestamp(timestamp)
		if err != nil {
			return nil, apperrors.NewAppError(500, "stored timestamp is not parseable", err)
		}
		summary.Timestamp = ts
		summary.Type = domain.RowType(rowType)
		summary.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, apperrors.NewAppError(500, "stored amount is not a valid decimal", err)
		}
		if insertedAt, err := time.Parse(time.RFC3339Nano, importedAt); err == nil {
			summary.InsertedAt = insertedAt
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate recent rows", err)
	}
	return summaries, nil
}

// Count returns the number of persisted rows.
func (r *SQLiteLedgerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM ledger").Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count ledger rows", err)
	}
	return count, nil
}
