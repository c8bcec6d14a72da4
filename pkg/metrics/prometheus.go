// Package metrics provides Prometheus metrics for the lunch roulette service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// defaultLatencyBucketsMs covers request latencies from a quick JSON call up
// to a full pick stream, in milliseconds.
var defaultLatencyBucketsMs = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 7500, 10000, 30000, 60000} //nolint:gochecknoglobals // shared bucket layout

// Manager manages all Prometheus metrics for the roulette service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Pick flow - what the user actually experiences
	picksStarted   prometheus.Counter
	pickOutcomes   *prometheus.CounterVec
	pickDuration   prometheus.Histogram
	activeSessions prometheus.Gauge

	// Animator
	rouletteTicks   prometheus.Counter
	rouletteWinners prometheus.Counter
	rouletteAborted prometheus.Counter

	// Places API
	placesRequests        *prometheus.CounterVec
	placesRequestDuration *prometheus.HistogramVec
	searchResultCount     prometheus.Histogram
	enrichmentFallbacks   *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "lunchroulette",
		subsystem:        "picker",
		histogramBuckets: defaultLatencyBucketsMs,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// Enabled reports whether the manager records observations.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval is how often gauge updaters should refresh this manager.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) name(n string) string { return m.metricPrefix + n }

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.picksStarted = auto.NewCounter(m.counterOpts("picks_started_total",
		"Total number of pick actions started by users"))

	m.pickOutcomes = auto.NewCounterVec(m.counterOpts("pick_outcomes_total",
		"Pick actions by terminal outcome (winner, no_results, search_failed, ...)"),
		[]string{"outcome"})

	m.pickDuration = auto.NewHistogram(m.histogramOpts("pick_duration_milliseconds",
		"End-to-end pick duration in milliseconds",
		[]float64{100, 500, 1000, 2500, 5000, 6000, 7500, 10000, 15000, 30000}))

	m.activeSessions = auto.NewGauge(m.gaugeOpts("active_sessions",
		"Number of roulette sessions currently animating"))

	m.rouletteTicks = auto.NewCounter(m.counterOpts("roulette_ticks_total",
		"Total number of roulette display updates emitted"))

	m.rouletteWinners = auto.NewCounter(m.counterOpts("roulette_winners_total",
		"Total number of roulette sessions that resolved to a winner"))

	m.rouletteAborted = auto.NewCounter(m.counterOpts("roulette_aborted_total",
		"Total number of roulette sessions cancelled before resolving"))

	m.placesRequests = auto.NewCounterVec(m.counterOpts("places_requests_total",
		"Places API calls by operation and result"),
		[]string{"operation", "result"})

	m.placesRequestDuration = auto.NewHistogramVec(m.histogramOpts("places_request_duration_milliseconds",
		"Places API call latency in milliseconds",
		[]float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}),
		[]string{"operation"})

	m.searchResultCount = auto.NewHistogram(m.histogramOpts("search_result_count",
		"Number of candidates returned by nearby search",
		[]float64{0, 1, 2, 5, 10, 15, 20}))

	m.enrichmentFallbacks = auto.NewCounterVec(m.counterOpts("enrichment_fallbacks_total",
		"Result cards rendered with fallback fields"),
		[]string{"reason"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds (user experience)", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Total number of errors by component and type"),
		[]string{"component", "error_type"})

	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total",
		"Total number of errors by type and severity"),
		[]string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"Total number of errors by HTTP endpoint"),
		[]string{"endpoint", "method", "error_type"})

	m.errorLatency = auto.NewHistogramVec(m.histogramOpts("error_latency_milliseconds",
		"Latency of operations that resulted in errors", m.histogramBuckets),
		[]string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"System memory usage in bytes"))

	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Number of goroutines"))

	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordPickStarted increments the picks started counter.
func RecordPickStarted() {
	if !globalManager.enabled {
		return
	}
	globalManager.picksStarted.Inc()
}

// RecordPickOutcome records how a pick action ended and how long it took.
func RecordPickOutcome(outcome string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.pickOutcomes.WithLabelValues(outcome).Inc()
	globalManager.pickDuration.Observe(durationMs)
}

// IncActiveSessions marks a roulette session as animating.
func IncActiveSessions() { globalManager.activeSessions.Inc() }

// DecActiveSessions marks a roulette session as finished.
func DecActiveSessions() { globalManager.activeSessions.Dec() }

// RecordRouletteTick increments the display update counter.
func RecordRouletteTick() {
	if !globalManager.enabled {
		return
	}
	globalManager.rouletteTicks.Inc()
}

// RecordRouletteWinner increments the resolved sessions counter.
func RecordRouletteWinner() {
	if !globalManager.enabled {
		return
	}
	globalManager.rouletteWinners.Inc()
}

// RecordRouletteAborted increments the cancelled sessions counter.
func RecordRouletteAborted() {
	if !globalManager.enabled {
		return
	}
	globalManager.rouletteAborted.Inc()
}

// RecordPlacesRequest records one Places API call.
func RecordPlacesRequest(operation, result string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.placesRequests.WithLabelValues(operation, result).Inc()
	globalManager.placesRequestDuration.WithLabelValues(operation).Observe(durationMs)
}

// RecordSearchResultCount records how many candidates a search returned.
func RecordSearchResultCount(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.searchResultCount.Observe(float64(n))
}

// RecordEnrichmentFallback counts a result card that used fallback fields.
func RecordEnrichmentFallback(reason string) {
	if !globalManager.enabled {
		return
	}
	globalManager.enrichmentFallbacks.WithLabelValues(reason).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// SetEnabled turns recording on the global manager on or off.
// Call it before recording starts.
func SetEnabled(enabled bool) { WithMetricsEnabled(enabled)(globalManager) }

// Enabled reports whether the global manager records observations.
func Enabled() bool { return globalManager.enabled }

// SetRefreshInterval changes how often system gauges should be refreshed.
// Non-positive values are ignored. Call it before the updater starts.
func SetRefreshInterval(interval time.Duration) { WithRefreshInterval(interval)(globalManager) }

// RefreshInterval returns the refresh interval of the global manager.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
