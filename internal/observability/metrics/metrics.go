package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "petrodata_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	uploadRequests *prometheus.CounterVec
	uploadRows     prometheus.Counter
	uploadLatency  *prometheus.HistogramVec

	decisionTotal *prometheus.CounterVec

	aggregationRunTotal   *prometheus.CounterVec
	aggregationRunLatency *prometheus.HistogramVec

	analyticsQueryTotal   *prometheus.CounterVec
	analyticsQueryLatency *prometheus.HistogramVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		uploadRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "upload_requests_total",
				Help: "Total submission upload requests by result",
			},
			[]string{"result"},
		)
		uploadRows = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "upload_rows_total",
				Help: "Total submission rows accepted",
			},
		)
		uploadLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "upload_latency_seconds",
				Help:    "Submission upload latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		decisionTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "decision_total",
				Help: "Total approval decisions by action and result",
			},
			[]string{"action", "result"},
		)

		aggregationRunTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "aggregation_run_total",
				Help: "Total daily aggregation runs by result",
			},
			[]string{"result"},
		)
		aggregationRunLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "aggregation_run_latency_seconds",
				Help:    "Daily aggregation run latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		analyticsQueryTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "analytics_query_total",
				Help: "Total analytics queries by result",
			},
			[]string{"result"},
		)
		analyticsQueryLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "analytics_query_latency_seconds",
				Help:    "Analytics query latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total export operations by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			uploadRequests,
			uploadRows,
			uploadLatency,
			decisionTotal,
			aggregationRunTotal,
			aggregationRunLatency,
			analyticsQueryTotal,
			analyticsQueryLatency,
			exportTotal,
			exportLatency,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveUpload records upload request duration and result.
func ObserveUpload(result string, rows int, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if uploadRequests != nil {
		uploadRequests.WithLabelValues(result).Inc()
	}
	if uploadRows != nil && rows > 0 && result == resultSuccess {
		uploadRows.Add(float64(rows))
	}
	if uploadLatency != nil {
		uploadLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncDecision increments the decision counter.
func IncDecision(action string, ok bool) {
	if action == "" {
		action = "unknown"
	}
	if decisionTotal != nil {
		decisionTotal.WithLabelValues(action, resultLabel(ok)).Inc()
	}
}

// ObserveAggregationRun records aggregation run latency and result.
func ObserveAggregationRun(ok bool, duration time.Duration) {
	result := resultLabel(ok)
	if aggregationRunTotal != nil {
		aggregationRunTotal.WithLabelValues(result).Inc()
	}
	if aggregationRunLatency != nil {
		aggregationRunLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveAnalyticsQuery records analytics query latency and result.
func ObserveAnalyticsQuery(ok bool, duration time.Duration) {
	result := resultLabel(ok)
	if analyticsQueryTotal != nil {
		analyticsQueryTotal.WithLabelValues(result).Inc()
	}
	if analyticsQueryLatency != nil {
		analyticsQueryLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format string, ok bool, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	result := resultLabel(ok)
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

func resultLabel(ok bool) string {
	if ok {
		return resultSuccess
	}
	return resultError
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
