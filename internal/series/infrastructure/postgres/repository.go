package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"petrodata-cloud/internal/refdata"
	domainseries "petrodata-cloud/internal/series/domain"
)

const defaultRecordTable = "price_records"

// PostgresRecordRepository is a Postgres implementation for daily price records.
type PostgresRecordRepository struct {
	db    *sql.DB
	table string
}

// NewPostgresRecordRepository creates a repository using the default table name.
func NewPostgresRecordRepository(db *sql.DB, opts ...RepositoryOption) *PostgresRecordRepository {
	repo := &PostgresRecordRepository{
		db:    db,
		table: defaultRecordTable,
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// RepositoryOption configures the repository.
type RepositoryOption func(*PostgresRecordRepository)

// WithTable overrides the default table name.
func WithTable(table string) RepositoryOption {
	return func(repo *PostgresRecordRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// Save upserts a record keyed by (scope, state, period).
func (r *PostgresRecordRepository) Save(ctx context.Context, record *domainseries.PriceRecord) error {
	if record == nil {
		return errors.New("record repo: nil record")
	}
	if record.Period.IsZero() {
		return domainseries.ErrInvalidPeriod
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	id,
	scope,
	state,
	period,
	ago,
	pms,
	dpk,
	lpg,
	ice,
	contributors,
	created_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
)
ON CONFLICT (scope, state, period)
DO UPDATE SET
	ago = EXCLUDED.ago,
	pms = EXCLUDED.pms,
	dpk = EXCLUDED.dpk,
	lpg = EXCLUDED.lpg,
	ice = EXCLUDED.ice,
	contributors = EXCLUDED.contributors,
	created_at = EXCLUDED.created_at`, r.table)

	_, err := r.db.ExecContext(
		ctx,
		query,
		record.ID,
		string(record.Scope),
		record.State,
		record.Period,
		record.AGO,
		record.PMS,
		record.DPK,
		record.LPG,
		record.ICE,
		pq.StringArray(record.Contributors),
		record.CreatedAt,
	)
	return err
}

// ListByZone returns state-scoped records for a zone within [from, to).
func (r *PostgresRecordRepository) ListByZone(ctx context.Context, zone refdata.Zone, from, to time.Time) ([]*domainseries.PriceRecord, error) {
	if !refdata.IsZone(string(zone)) {
		return nil, domainseries.ErrInvalidScope
	}
	query := fmt.Sprintf(`
%s
WHERE scope = $1
	AND period >= $2
	AND period < $3
ORDER BY period ASC, id ASC`, selectRecords(r.table))

	return r.queryRecords(ctx, query, string(zone), from, to)
}

// ListNational returns national rollup records within [from, to).
func (r *PostgresRecordRepository) ListNational(ctx context.Context, from, to time.Time) ([]*domainseries.PriceRecord, error) {
	query := fmt.Sprintf(`
%s
WHERE scope = $1
	AND period >= $2
	AND period < $3
ORDER BY period ASC, id ASC`, selectRecords(r.table))

	return r.queryRecords(ctx, query, string(refdata.ZoneNational), from, to)
}

// ListRange returns every record within [from, to).
func (r *PostgresRecordRepository) ListRange(ctx context.Context, from, to time.Time) ([]*domainseries.PriceRecord, error) {
	query := fmt.Sprintf(`
%s
WHERE period >= $1
	AND period < $2
ORDER BY period ASC, id ASC`, selectRecords(r.table))

	return r.queryRecords(ctx, query, from, to)
}

// PeriodBounds returns the oldest and newest period over all records.
func (r *PostgresRecordRepository) PeriodBounds(ctx context.Context) (time.Time, time.Time, error) {
	query := fmt.Sprintf(`SELECT MIN(period), MAX(period) FROM %s`, r.table)

	var min, max sql.NullTime
	if err := r.db.QueryRowContext(ctx, query).Scan(&min, &max); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !min.Valid || !max.Valid {
		return time.Time{}, time.Time{}, domainseries.ErrNoRecords
	}
	return min.Time, max.Time, nil
}

func (r *PostgresRecordRepository) queryRecords(ctx context.Context, query string, args ...any) ([]*domainseries.PriceRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domainseries.PriceRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func selectRecords(table string) string {
	return fmt.Sprintf(`
SELECT
	id,
	scope,
	state,
	period,
	ago,
	pms,
	dpk,
	lpg,
	ice,
	contributors,
	created_at
FROM %s`, table)
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*domainseries.PriceRecord, error) {
	var (
		record       domainseries.PriceRecord
		scope        string
		contributors pq.StringArray
	)

	if err := scanner.Scan(
		&record.ID,
		&scope,
		&record.State,
		&record.Period,
		&record.AGO,
		&record.PMS,
		&record.DPK,
		&record.LPG,
		&record.ICE,
		&contributors,
		&record.CreatedAt,
	); err != nil {
		return nil, err
	}

	record.Scope = refdata.Zone(scope)
	record.Contributors = contributors
	return &record, nil
}
