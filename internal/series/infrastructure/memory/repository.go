package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"petrodata-cloud/internal/refdata"
	domainseries "petrodata-cloud/internal/series/domain"
)

type recordKey struct {
	scope  string
	state  string
	period time.Time
}

// MemoryRecordRepository is an in-memory price record repository used in
// tests and local runs.
type MemoryRecordRepository struct {
	mu      sync.RWMutex
	records map[recordKey]*domainseries.PriceRecord
}

// NewMemoryRecordRepository creates an empty repository.
func NewMemoryRecordRepository() *MemoryRecordRepository {
	return &MemoryRecordRepository{
		records: make(map[recordKey]*domainseries.PriceRecord),
	}
}

// Save upserts a record keyed by (scope, state, period).
func (r *MemoryRecordRepository) Save(_ context.Context, record *domainseries.PriceRecord) error {
	if record == nil || record.Period.IsZero() {
		return domainseries.ErrInvalidPeriod
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := recordKey{scope: string(record.Scope), state: record.State, period: record.Period}
	copied := *record
	r.records[key] = &copied
	return nil
}

// ListByZone returns state-scoped records for a zone within [from, to).
func (r *MemoryRecordRepository) ListByZone(_ context.Context, zone refdata.Zone, from, to time.Time) ([]*domainseries.PriceRecord, error) {
	if !refdata.IsZone(string(zone)) {
		return nil, domainseries.ErrInvalidScope
	}
	return r.list(func(record *domainseries.PriceRecord) bool {
		return record.Scope == zone && inRange(record.Period, from, to)
	}), nil
}

// ListNational returns national rollup records within [from, to).
func (r *MemoryRecordRepository) ListNational(_ context.Context, from, to time.Time) ([]*domainseries.PriceRecord, error) {
	return r.list(func(record *domainseries.PriceRecord) bool {
		return record.National() && inRange(record.Period, from, to)
	}), nil
}

// ListRange returns every record within [from, to).
func (r *MemoryRecordRepository) ListRange(_ context.Context, from, to time.Time) ([]*domainseries.PriceRecord, error) {
	return r.list(func(record *domainseries.PriceRecord) bool {
		return inRange(record.Period, from, to)
	}), nil
}

// PeriodBounds returns the oldest and newest period over all records.
func (r *MemoryRecordRepository) PeriodBounds(_ context.Context) (time.Time, time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.records) == 0 {
		return time.Time{}, time.Time{}, domainseries.ErrNoRecords
	}
	var min, max time.Time
	first := true
	for _, record := range r.records {
		if first {
			min, max = record.Period, record.Period
			first = false
			continue
		}
		if record.Period.Before(min) {
			min = record.Period
		}
		if record.Period.After(max) {
			max = record.Period
		}
	}
	return min, max, nil
}

func (r *MemoryRecordRepository) list(match func(*domainseries.PriceRecord) bool) []*domainseries.PriceRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domainseries.PriceRecord
	for _, record := range r.records {
		if !match(record) {
			continue
		}
		copied := *record
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Period.Equal(result[j].Period) {
			return result[i].Period.Before(result[j].Period)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func inRange(period, from, to time.Time) bool {
	return !period.Before(from) && period.Before(to)
}
