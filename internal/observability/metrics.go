// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Scan metrics
	ScansTotal        prometheus.Counter
	GapsDetected      *prometheus.CounterVec
	ScanFailures      *prometheus.CounterVec
	ScanDuration      prometheus.Histogram
	SymbolsPerScan    prometheus.Histogram
	BacktestsRun      prometheus.Counter
	EstimatesComputed *prometheus.CounterVec

	// Provider metrics
	ProviderRequestDuration *prometheus.HistogramVec
	ProviderRequestErrors   *prometheus.CounterVec
	BarCacheHits            prometheus.Counter
	BarCacheMisses          prometheus.Counter

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulScan prometheus.Gauge
	UptimeSeconds      prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "gap_analysis"
	}

	return &Metrics{
		// Scan metrics
		ScansTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "runs_total",
			Help:      "Total number of watchlist scans executed",
		}),
		GapsDetected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "gaps_detected_total",
			Help:      "Total number of gaps detected by direction",
		}, []string{"direction"}),
		ScanFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "symbol_failures_total",
			Help:      "Total number of per-symbol scan failures by reason",
		}, []string{"reason"}),
		ScanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "Watchlist scan duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		SymbolsPerScan: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "symbols_per_run",
			Help:      "Number of watchlist symbols per scan",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
		}),
		BacktestsRun: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "backtests_total",
			Help:      "Total number of backtest simulations run",
		}),
		EstimatesComputed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "estimates_computed_total",
			Help:      "Total number of fill probability estimates by confidence",
		}, []string{"confidence"}),

		// Provider metrics
		ProviderRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "request_duration_seconds",
			Help:      "Market data provider request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
		ProviderRequestErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "request_errors_total",
			Help:      "Total number of failed provider requests",
		}, []string{"path"}),
		BarCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "bar_cache_hits_total",
			Help:      "Total number of bar requests served from cache",
		}),
		BarCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "bar_cache_misses_total",
			Help:      "Total number of bar requests fetched upstream",
		}),

		// HTTP metrics
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status",
		}, []string{"route", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulScan: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_scan_timestamp",
			Help:      "Unix timestamp of last successful scan",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordScan records a completed watchlist scan.
func RecordScan(symbols int, durationSeconds float64) {
	DefaultMetrics.ScansTotal.Inc()
	DefaultMetrics.SymbolsPerScan.Observe(float64(symbols))
	DefaultMetrics.ScanDuration.Observe(durationSeconds)
}

// RecordGapDetected increments the gap counter for a direction.
func RecordGapDetected(direction string) {
	DefaultMetrics.GapsDetected.WithLabelValues(direction).Inc()
}

// RecordScanFailure records a per-symbol scan failure.
func RecordScanFailure(reason string) {
	DefaultMetrics.ScanFailures.WithLabelValues(reason).Inc()
}

// RecordBacktest increments the backtest counter.
func RecordBacktest() {
	DefaultMetrics.BacktestsRun.Inc()
}

// RecordEstimate records a computed fill probability estimate.
func RecordEstimate(confidence string) {
	DefaultMetrics.EstimatesComputed.WithLabelValues(confidence).Inc()
}

// RecordProviderRequest records a market data provider request.
func RecordProviderRequest(path string, seconds float64, err error) {
	DefaultMetrics.ProviderRequestDuration.WithLabelValues(path).Observe(seconds)
	if err != nil {
		DefaultMetrics.ProviderRequestErrors.WithLabelValues(path).Inc()
	}
}

// RecordBarCacheHit increments the bar cache hit counter.
func RecordBarCacheHit() {
	DefaultMetrics.BarCacheHits.Inc()
}

// RecordBarCacheMiss increments the bar cache miss counter.
func RecordBarCacheMiss() {
	DefaultMetrics.BarCacheMisses.Inc()
}

// RecordHTTPRequest records an HTTP request by route and status code.
func RecordHTTPRequest(route, status string, seconds float64) {
	DefaultMetrics.HTTPRequestsTotal.WithLabelValues(route, status).Inc()
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(route).Observe(seconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// MarkScanSuccess updates the last successful scan timestamp.
func MarkScanSuccess(unixSeconds int64) {
	DefaultMetrics.LastSuccessfulScan.Set(float64(unixSeconds))
}
