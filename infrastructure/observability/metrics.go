package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics publishes Prometheus counters/histograms for the five inbound
// operations, the cache layer, and the provider registry's fallback rate —
// the same "operation name + duration + status" shape as the teacher's
// CloudWatch RecordCommandExecution, now scraped instead of pushed.
type Metrics struct {
	operationDuration *prometheus.HistogramVec
	operationTotal    *prometheus.CounterVec
	cacheHits         *prometheus.CounterVec
	providerFallbacks *prometheus.CounterVec
}

// NewMetrics registers the engine's metric families against registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "semem",
			Name:      "operation_duration_seconds",
			Help:      "Duration of tell/ask/augment/navigate/iterate calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "status"}),
		operationTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semem",
			Name:      "operation_total",
			Help:      "Count of tell/ask/augment/navigate/iterate calls.",
		}, []string{"operation", "status"}),
		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semem",
			Name:      "cache_result_total",
			Help:      "Query cache hit/miss count.",
		}, []string{"result"}),
		providerFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semem",
			Name:      "provider_fallback_total",
			Help:      "Count of provider registry fallbacks by capability.",
		}, []string{"capability"}),
	}
}

// RecordOperation records one inbound operation's outcome.
func (m *Metrics) RecordOperation(name string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.operationDuration.WithLabelValues(name, status).Observe(duration.Seconds())
	m.operationTotal.WithLabelValues(name, status).Inc()
}

// RecordCacheResult records a query-cache hit or miss.
func (m *Metrics) RecordCacheResult(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheHits.WithLabelValues(result).Inc()
}

// RecordProviderFallback records the Provider Registry falling through to
// the next candidate for a capability.
func (m *Metrics) RecordProviderFallback(capability string) {
	m.providerFallbacks.WithLabelValues(capability).Inc()
}

// Handler returns the /metrics scrape endpoint for registry.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
