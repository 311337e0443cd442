package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"petrodata-cloud/internal/aggregation/notify"
	"petrodata-cloud/internal/observability/metrics"
	"petrodata-cloud/internal/refdata"
	domainseries "petrodata-cloud/internal/series/domain"
	domainsubmission "petrodata-cloud/internal/submission/domain"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// DailyAggregationJob rolls approved submissions from the previous day into
// per-state and national price records.
type DailyAggregationJob struct {
	aggregator domainsubmission.Aggregator
	records    domainseries.Repository
	notifier   notify.Notifier
	clock      Clock
	logger     *log.Logger
}

// NewDailyAggregationJob constructs the job.
func NewDailyAggregationJob(
	aggregator domainsubmission.Aggregator,
	records domainseries.Repository,
	notifier notify.Notifier,
	clock Clock,
	logger *log.Logger,
) (*DailyAggregationJob, error) {
	if aggregator == nil {
		return nil, errors.New("aggregation job: nil aggregator")
	}
	if records == nil {
		return nil, errors.New("aggregation job: nil record repository")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = log.Default()
	}

	return &DailyAggregationJob{
		aggregator: aggregator,
		records:    records,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
	}, nil
}

// Run aggregates the previous day's approved submissions. A state that
// fails to persist is logged and skipped; a national rollup failure fails
// the run. Rerunning the job for the same day overwrites its records.
func (j *DailyAggregationJob) Run(ctx context.Context) error {
	started := j.clock.Now()
	err := j.run(ctx, started)
	metrics.ObserveAggregationRun(err == nil, time.Since(started))
	return err
}

func (j *DailyAggregationJob) run(ctx context.Context, now time.Time) error {
	now = now.UTC()
	dayEnd := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayStart := dayEnd.AddDate(0, 0, -1)

	states, err := j.aggregator.StateAveragesInWindow(ctx, dayStart, dayEnd)
	if err != nil {
		return fmt.Errorf("aggregation job: read averages: %w", err)
	}
	if len(states) == 0 {
		j.logger.Printf("aggregation: no approved submissions for %s", dayStart.Format("2006-01-02"))
		return nil
	}

	saved := 0
	for _, state := range states {
		if empty(state) {
			continue
		}
		zone, err := refdata.ZoneOf(state.State)
		if err != nil {
			j.logger.Printf("aggregation: skip state %q: %v", state.State, err)
			continue
		}

		record, err := domainseries.NewStateRecord(zone, state.State, dayStart)
		if err != nil {
			j.logger.Printf("aggregation: skip state %q: %v", state.State, err)
			continue
		}
		record.ID = uuid.NewString()
		record.Contributors = state.Contributors
		record.CreatedAt = now.UTC()
		for product, avg := range state.Averages {
			if avg == nil {
				continue
			}
			record.SetPrice(product, round2(*avg))
		}

		if err := j.records.Save(ctx, record); err != nil {
			j.logger.Printf("aggregation: save state %q: %v", state.State, err)
			continue
		}
		saved++
	}

	// The national row averages every submission in the window with equal
	// weight; it does not depend on which per-state rows persisted.
	national, err := j.aggregator.NationalAveragesInWindow(ctx, dayStart, dayEnd)
	if err != nil {
		return fmt.Errorf("aggregation job: national averages: %w", err)
	}
	rollup, err := domainseries.NewNationalRecord(dayStart)
	if err != nil {
		return fmt.Errorf("aggregation job: national record: %w", err)
	}
	rollup.ID = uuid.NewString()
	rollup.Contributors = national.Contributors
	rollup.CreatedAt = now.UTC()
	for product, avg := range national.Averages {
		if avg == nil {
			continue
		}
		rollup.SetPrice(product, round2(*avg))
	}
	if err := j.records.Save(ctx, rollup); err != nil {
		return fmt.Errorf("aggregation job: save national rollup: %w", err)
	}

	j.logger.Printf("aggregation: day=%s states=%d", dayStart.Format("2006-01-02"), saved)
	j.notify(ctx, dayStart, saved)
	return nil
}

func (j *DailyAggregationJob) notify(ctx context.Context, day time.Time, states int) {
	if j.notifier == nil {
		return
	}
	msg := notify.Message{
		Day:    day.Format("2006-01-02"),
		States: states,
	}
	if err := j.notifier.Notify(ctx, msg); err != nil {
		j.logger.Printf("aggregation: notify: %v", err)
	}
}

func empty(state domainsubmission.StateAverages) bool {
	for _, avg := range state.Averages {
		if avg != nil {
			return false
		}
	}
	return true
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
