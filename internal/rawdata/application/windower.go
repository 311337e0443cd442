package application

import (
	"context"
	"errors"
	"log"
	"time"

	domainseries "petrodata-cloud/internal/series/domain"
)

// WeeksPerBatch is the fixed weekly-window page size.
const WeeksPerBatch = 5

const week = 7 * 24 * time.Hour

// WeekWindow is one 7-day bucket of the aggregated series, newest first.
type WeekWindow struct {
	WeekStartDate time.Time
	WeekEndDate   time.Time
	Year          int
	Category      string
	Period        string
	Source        string
}

// PeriodBoundsReader exposes the series period bounds.
type PeriodBoundsReader interface {
	PeriodBounds(ctx context.Context) (min, max time.Time, err error)
}

// Windower partitions the aggregated series span into weekly buckets.
type Windower struct {
	bounds PeriodBoundsReader
	source string
	logger *log.Logger
}

// NewWindower constructs a Windower. Source names the data provider
// stamped on every window.
func NewWindower(bounds PeriodBoundsReader, source string, logger *log.Logger) (*Windower, error) {
	if bounds == nil {
		return nil, errors.New("windower: nil bounds reader")
	}
	if source == "" {
		source = "Nigerian Bureau Of Statistics"
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Windower{bounds: bounds, source: source, logger: logger}, nil
}

// TotalWeeks counts the 7-day buckets spanned by the series. An empty
// series yields 0.
func (w *Windower) TotalWeeks(ctx context.Context) (int, error) {
	min, max, err := w.bounds.PeriodBounds(ctx)
	if err != nil {
		if errors.Is(err, domainseries.ErrNoRecords) {
			return 0, nil
		}
		return 0, err
	}
	return totalWeeks(min, max), nil
}

// Windows returns one batch of weekly windows, counted backward from the
// newest period. The max period is extended by one day so the final day is
// inside the last window. Batch is 1-indexed, five windows per batch.
func (w *Windower) Windows(ctx context.Context, batch int) ([]WeekWindow, error) {
	if batch < 1 {
		batch = 1
	}
	min, max, err := w.bounds.PeriodBounds(ctx)
	if err != nil {
		if errors.Is(err, domainseries.ErrNoRecords) {
			return nil, nil
		}
		return nil, err
	}

	total := totalWeeks(min, max)
	skip := (batch - 1) * WeeksPerBatch
	if skip >= total {
		return nil, nil
	}
	count := total - skip
	if count > WeeksPerBatch {
		count = WeeksPerBatch
	}

	extendedMax := max.AddDate(0, 0, 1)
	windows := make([]WeekWindow, 0, count)
	for i := skip; i < skip+count; i++ {
		end := extendedMax.Add(-time.Duration(i) * week)
		start := end.Add(-week)
		windows = append(windows, WeekWindow{
			WeekStartDate: start,
			WeekEndDate:   end,
			Year:          start.Year(),
			Category:      "Pricing",
			Period:        "Weekly",
			Source:        w.source,
		})
	}
	return windows, nil
}

func totalWeeks(min, max time.Time) int {
	span := max.Sub(min)
	if span < 0 {
		return 0
	}
	weeks := int(span / week)
	if span%week != 0 || weeks == 0 {
		weeks++
	}
	return weeks
}
