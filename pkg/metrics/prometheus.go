// Package metrics provides Prometheus metrics for the picksheet stats service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Breaker states as exported by the breaker state gauge.
const (
	BreakerClosed   = 0
	BreakerHalfOpen = 1
	BreakerOpen     = 2
)

// Manager manages all Prometheus metrics for the picksheet service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Sheet ingestion
	sheetFetches      *prometheus.CounterVec
	sheetFetchLatency prometheus.Histogram
	buildWarnings     prometheus.Counter

	// Current table shape
	tableEvents   prometheus.Gauge
	tablePlayers  prometheus.Gauge
	tableLastPick prometheus.Gauge
	tableLastDeck prometheus.Gauge

	// Cache behaviour
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	refreshRejected  prometheus.Counter
	cacheLoadedAtSec prometheus.Gauge

	// Derived views
	computeLatency *prometheus.HistogramVec
	standingsSize  prometheus.Gauge
	queryLatency   prometheus.Histogram

	// Outbound delivery
	notifications *prometheus.CounterVec
	breakerState  *prometheus.GaugeVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Init replaces the global manager with one built from opts on a fresh
// registry. It must run before any metric is recorded or GetRegistry is
// handed to an exporter.
func Init(opts ...Option) {
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithPrometheusRegistry(customRegistry))...)
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "picksheet",
		subsystem:        "stats",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.sheetFetches = auto.NewCounterVec(
		m.counterOpts("sheet_fetches_total", "Total number of sheet downloads by outcome"),
		[]string{"outcome"},
	)
	m.sheetFetchLatency = auto.NewHistogram(
		m.histogramOpts("sheet_fetch_latency_milliseconds", "Sheet download latency in milliseconds"),
	)
	m.buildWarnings = auto.NewCounter(
		m.counterOpts("build_warnings_total", "Total number of recoverable anomalies found while building the score table"),
	)

	m.tableEvents = auto.NewGauge(m.gaugeOpts("table_events", "Number of score events in the current table"))
	m.tablePlayers = auto.NewGauge(m.gaugeOpts("table_players", "Number of active players in the current table"))
	m.tableLastPick = auto.NewGauge(m.gaugeOpts("table_last_pick", "Latest pick present in the current table"))
	m.tableLastDeck = auto.NewGauge(m.gaugeOpts("table_last_deck", "Latest week id present in the current table"))

	m.cacheHits = auto.NewCounter(m.counterOpts("cache_hits_total", "Total number of table reads served from cache"))
	m.cacheMisses = auto.NewCounter(m.counterOpts("cache_misses_total", "Total number of table reads that reloaded the sheet"))
	m.refreshRejected = auto.NewCounter(
		m.counterOpts("refresh_rejected_total", "Total number of forced refreshes rejected by the cooldown"),
	)
	m.cacheLoadedAtSec = auto.NewGauge(m.gaugeOpts("cache_loaded_at_unix", "Unix timestamp of the last table load"))

	m.computeLatency = auto.NewHistogramVec(
		m.histogramOpts("compute_latency_milliseconds", "Latency of derived view computations in milliseconds"),
		[]string{"operation"},
	)
	m.standingsSize = auto.NewGauge(m.gaugeOpts("standings_size", "Number of players in the published season standings"))
	m.queryLatency = auto.NewHistogram(
		m.histogramOpts("standings_query_latency_milliseconds", "Standings query latency in milliseconds"),
	)

	m.notifications = auto.NewCounterVec(
		m.counterOpts("notifications_total", "Total number of weekly report deliveries by outcome"),
		[]string{"outcome"},
	)
	m.breakerState = auto.NewGaugeVec(
		m.gaugeOpts("breaker_state", "Circuit breaker state (0 closed, 1 half-open, 2 open)"),
		[]string{"name"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
}

// RecordSheetFetch records one sheet download with its outcome ("ok" or "error").
func RecordSheetFetch(outcome string, latencyMs float64) {
	globalManager.sheetFetches.WithLabelValues(outcome).Inc()
	globalManager.sheetFetchLatency.Observe(latencyMs)
}

// RecordBuildWarnings adds n table build warnings.
func RecordBuildWarnings(n int) {
	globalManager.buildWarnings.Add(float64(n))
}

// UpdateTableSize publishes the shape of the current table.
func UpdateTableSize(events, players, lastPick, lastDeck int) {
	globalManager.tableEvents.Set(float64(events))
	globalManager.tablePlayers.Set(float64(players))
	globalManager.tableLastPick.Set(float64(lastPick))
	globalManager.tableLastDeck.Set(float64(lastDeck))
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// RecordRefreshRejected increments the rejected refresh counter.
func RecordRefreshRejected() {
	globalManager.refreshRejected.Inc()
}

// UpdateCacheLoadedAt records when the table was last loaded.
func UpdateCacheLoadedAt(t time.Time) {
	globalManager.cacheLoadedAtSec.Set(float64(t.Unix()))
}

// RecordComputeLatency records how long a derived view took to compute.
func RecordComputeLatency(operation string, latencyMs float64) {
	globalManager.computeLatency.WithLabelValues(operation).Observe(latencyMs)
}

// UpdateStandingsSize sets the number of ranked players.
func UpdateStandingsSize(n int) {
	globalManager.standingsSize.Set(float64(n))
}

// RecordQueryLatency records a standings query latency in milliseconds.
func RecordQueryLatency(latencyMs float64) {
	globalManager.queryLatency.Observe(latencyMs)
}

// RecordNotification records a weekly report delivery outcome.
func RecordNotification(outcome string) {
	globalManager.notifications.WithLabelValues(outcome).Inc()
}

// UpdateBreakerState publishes the state of a named circuit breaker.
func UpdateBreakerState(name string, state int) {
	globalManager.breakerState.WithLabelValues(name).Set(float64(state))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error for a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
