package application

import (
	"context"
	"log"
	"time"
)

// Scheduler triggers the daily aggregation job on schedule.
type Scheduler struct {
	job     *DailyAggregationJob
	dailyAt string
	logger  *log.Logger
}

// NewScheduler constructs a Scheduler.
func NewScheduler(job *DailyAggregationJob, dailyAt string, logger *log.Logger) *Scheduler {
	return &Scheduler{
		job:     job,
		dailyAt: dailyAt,
		logger:  logger,
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	if s == nil || s.job == nil {
		return
	}
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if !s.shouldRun(now.UTC()) {
				continue
			}
			if err := s.job.Run(ctx); err != nil && s.logger != nil {
				s.logger.Printf("aggregation schedule error: %v", err)
			}
		}
	}
}

func (s *Scheduler) shouldRun(now time.Time) bool {
	hour, minute, err := parseDailyAt(s.dailyAt)
	if err != nil {
		return false
	}
	return now.Hour() == hour && now.Minute() == minute
}

func parseDailyAt(value string) (int, int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}
