package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "feasibility_"

	// ResultSuccess and ResultError label observed operations.
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	projectionRunTotal   *prometheus.CounterVec
	projectionRunLatency *prometheus.HistogramVec

	compareTotal   *prometheus.CounterVec
	compareLatency *prometheus.HistogramVec

	reportExportTotal   *prometheus.CounterVec
	reportExportLatency *prometheus.HistogramVec

	metricUndefinedTotal *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		projectionRunTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "projection_runs_total",
				Help: "Total projection runs by result",
			},
			[]string{"result"},
		)
		projectionRunLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "projection_run_latency_seconds",
				Help:    "Projection run latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		compareTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "scenario_compare_total",
				Help: "Total scenario comparison runs by result",
			},
			[]string{"result"},
		)
		compareLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "scenario_compare_latency_seconds",
				Help:    "Scenario comparison latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		reportExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)
		reportExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_export_latency_seconds",
				Help:    "Report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		metricUndefinedTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "metric_undefined_total",
				Help: "Projection runs where a financial metric degraded to undefined",
			},
			[]string{"metric"},
		)

		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by method and status class",
			},
			[]string{"method", "class"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_latency_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		)

		prometheus.MustRegister(
			projectionRunTotal,
			projectionRunLatency,
			compareTotal,
			compareLatency,
			reportExportTotal,
			reportExportLatency,
			metricUndefinedTotal,
			httpRequests,
			httpLatency,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveProjectionRun records one projection run.
func ObserveProjectionRun(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if projectionRunTotal != nil {
		projectionRunTotal.WithLabelValues(result).Inc()
	}
	if projectionRunLatency != nil {
		projectionRunLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveCompare records one scenario comparison run.
func ObserveCompare(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if compareTotal != nil {
		compareTotal.WithLabelValues(result).Inc()
	}
	if compareLatency != nil {
		compareLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveReportExport records one report export by format.
func ObserveReportExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = ResultSuccess
	}
	if reportExportTotal != nil {
		reportExportTotal.WithLabelValues(format, result).Inc()
	}
	if reportExportLatency != nil {
		reportExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// IncMetricUndefined counts a financial metric degrading to undefined.
func IncMetricUndefined(metric string) {
	if metric == "" {
		metric = "unknown"
	}
	if metricUndefinedTotal != nil {
		metricUndefinedTotal.WithLabelValues(metric).Inc()
	}
}

// ObserveHTTP records an HTTP request.
func ObserveHTTP(method string, status int, duration time.Duration) {
	class := "2xx"
	switch {
	case status >= 500:
		class = "5xx"
	case status >= 400:
		class = "4xx"
	case status >= 300:
		class = "3xx"
	}
	if httpRequests != nil {
		httpRequests.WithLabelValues(method, class).Inc()
	}
	if httpLatency != nil {
		httpLatency.WithLabelValues(method).Observe(duration.Seconds())
	}
}
