package application

import (
	"context"
	"errors"
	"log"
	"time"

	domainanalytics "petrodata-cloud/internal/analytics/domain"
	"petrodata-cloud/internal/observability/metrics"
	"petrodata-cloud/internal/refdata"
	domainseries "petrodata-cloud/internal/series/domain"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Query is one analytics request.
type Query struct {
	Regions  []string
	Interval refdata.Interval
	Product  refdata.Product
}

// Result carries the flat record list plus the derived change metrics.
type Result struct {
	Records       []*domainseries.PriceRecord
	OverallChange string
	RecentChange  string
}

// AnalyticsService answers periodic-window price analysis queries.
type AnalyticsService struct {
	records domainseries.Repository
	clock   Clock
	logger  *log.Logger
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(records domainseries.Repository, clock Clock, logger *log.Logger) (*AnalyticsService, error) {
	if records == nil {
		return nil, errors.New("analytics service: nil record repository")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &AnalyticsService{records: records, clock: clock, logger: logger}, nil
}

// Analyze fetches records per requested scope over the interval window and
// derives the percent-change metrics. Scopes keep their request order in
// the flat list; MAX fetches full history.
func (s *AnalyticsService) Analyze(ctx context.Context, query Query) (*Result, error) {
	started := s.clock.Now()
	result, err := s.analyze(ctx, query, started)
	metrics.ObserveAnalyticsQuery(err == nil, time.Since(started))
	return result, err
}

func (s *AnalyticsService) analyze(ctx context.Context, query Query, now time.Time) (*Result, error) {
	if len(query.Regions) == 0 {
		return nil, domainanalytics.ErrNoRegions
	}
	if !query.Product.IsValid() {
		return nil, refdata.ErrInvalidProduct
	}
	interval, err := refdata.ParseInterval(string(query.Interval))
	if err != nil {
		return nil, err
	}

	var from time.Time
	if !interval.Unbounded() {
		from, err = interval.From(now)
		if err != nil {
			return nil, err
		}
	}

	var flat []*domainseries.PriceRecord
	for _, region := range query.Regions {
		records, err := s.fetchScope(ctx, region, from, now)
		if err != nil {
			return nil, err
		}
		flat = append(flat, records...)
	}

	overall, recent := domainanalytics.PercentChange(flat, query.Product)
	return &Result{
		Records:       flat,
		OverallChange: domainanalytics.FormatSigned(overall),
		RecentChange:  domainanalytics.FormatSigned(recent),
	}, nil
}

func (s *AnalyticsService) fetchScope(ctx context.Context, region string, from, to time.Time) ([]*domainseries.PriceRecord, error) {
	if region == string(refdata.ZoneNational) {
		return s.records.ListNational(ctx, from, to)
	}
	if !refdata.IsZone(region) {
		return nil, domainanalytics.ErrInvalidRegion
	}
	return s.records.ListByZone(ctx, refdata.Zone(region), from, to)
}
