package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every metric the platform emits.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec

	// Detection layer
	DetectionRunsTotal     CounterVec
	DetectionDuration      HistogramVec
	DetectionConflictCount HistogramVec
	ConflictsByRiskTotal   CounterVec

	// Variant layer
	VariantGenerationTotal    CounterVec
	VariantGenerationDuration HistogramVec

	// Registry provider layer
	RegistrySearchesTotal  CounterVec
	RegistrySearchDuration HistogramVec
	RegistryHitCount       HistogramVec
	ProviderErrorsTotal    CounterVec

	// Infrastructure
	CacheHitsTotal      CounterVec
	CacheMissesTotal    CounterVec
	EventPublishesTotal CounterVec
	AuditWritesTotal    CounterVec
}

// Bucket sets, sized to the latencies each layer actually shows.
var (
	DefaultHTTPDurationBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultSearchDurationBuckets = []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 30}
	DefaultRunDurationBuckets    = []float64{.5, 1, 2.5, 5, 10, 20, 30, 60, 120}
	DefaultResultCountBuckets    = []float64{0, 1, 5, 10, 20, 50, 100}
)

// NewAppMetrics registers all metrics against the collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total",
		"Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds",
		"HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")

	// Detection
	m.DetectionRunsTotal = collector.RegisterCounter("detection_runs_total",
		"Collision-detection runs", "status")
	m.DetectionDuration = collector.RegisterHistogram("detection_run_duration_seconds",
		"End-to-end detection run duration", DefaultRunDurationBuckets, "country")
	m.DetectionConflictCount = collector.RegisterHistogram("detection_conflict_count",
		"Conflicts reported per run", DefaultResultCountBuckets, "country")
	m.ConflictsByRiskTotal = collector.RegisterCounter("conflicts_by_risk_total",
		"Reported conflicts by risk bucket", "risk")

	// Variants
	m.VariantGenerationTotal = collector.RegisterCounter("variant_generations_total",
		"Variant strategy generations", "source")
	m.VariantGenerationDuration = collector.RegisterHistogram("variant_generation_duration_seconds",
		"Variant strategy generation duration", DefaultHTTPDurationBuckets, "source")

	// Registry provider
	m.RegistrySearchesTotal = collector.RegisterCounter("registry_searches_total",
		"Provider search round trips", "office", "status")
	m.RegistrySearchDuration = collector.RegisterHistogram("registry_search_duration_seconds",
		"Provider search round-trip duration", DefaultSearchDurationBuckets, "office")
	m.RegistryHitCount = collector.RegisterHistogram("registry_hit_count",
		"Hits returned per provider search", DefaultResultCountBuckets, "office")
	m.ProviderErrorsTotal = collector.RegisterCounter("provider_errors_total",
		"Provider errors by kind", "office", "kind")

	// Infrastructure
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total",
		"Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total",
		"Cache misses", "cache")
	m.EventPublishesTotal = collector.RegisterCounter("event_publishes_total",
		"Detection events published", "topic", "status")
	m.AuditWritesTotal = collector.RegisterCounter("audit_writes_total",
		"Detection audit rows written", "status")

	return m
}

// ─────────────────────────────────────────────────────────────────────────────
// Recording helpers
// ─────────────────────────────────────────────────────────────────────────────

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(m *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordDetectionRun records one completed (or failed) detection run.
func RecordDetectionRun(m *AppMetrics, country string, success bool, duration time.Duration, conflicts int) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	m.DetectionRunsTotal.WithLabelValues(status).Inc()
	m.DetectionDuration.WithLabelValues(country).Observe(duration.Seconds())
	if success {
		m.DetectionConflictCount.WithLabelValues(country).Observe(float64(conflicts))
	}
}

// RecordRegistrySearch records one provider round trip.
func RecordRegistrySearch(m *AppMetrics, office string, err error, duration time.Duration, hits int) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.RegistrySearchesTotal.WithLabelValues(office, status).Inc()
	m.RegistrySearchDuration.WithLabelValues(office).Observe(duration.Seconds())
	if err == nil {
		m.RegistryHitCount.WithLabelValues(office).Observe(float64(hits))
	}
}

// RecordCacheAccess records a cache hit or miss for the named cache.
func RecordCacheAccess(m *AppMetrics, cache string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}
