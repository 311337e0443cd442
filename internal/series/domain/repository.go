package series

import (
	"context"
	"time"

	"petrodata-cloud/internal/refdata"
)

// Repository persists aggregated daily price records.
type Repository interface {
	// Save upserts a record keyed by (scope, state, period) so the daily
	// job can rerun without duplicating rows.
	Save(ctx context.Context, record *PriceRecord) error
	// ListByZone returns state-scoped records for a zone with a period in
	// [from, to), oldest first.
	ListByZone(ctx context.Context, zone refdata.Zone, from, to time.Time) ([]*PriceRecord, error)
	// ListNational returns national rollup records with a period in
	// [from, to), oldest first.
	ListNational(ctx context.Context, from, to time.Time) ([]*PriceRecord, error)
	// ListRange returns every record with a period in [from, to), oldest
	// first, national rows included.
	ListRange(ctx context.Context, from, to time.Time) ([]*PriceRecord, error)
	// PeriodBounds returns the oldest and newest period over all records.
	// It returns ErrNoRecords for an empty series.
	PeriodBounds(ctx context.Context) (min, max time.Time, err error)
}
