package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics the permissions client reports.
// The handle is built once and injected at construction time; there is
// no lazily initialized process-wide collector.
type Metrics struct {
	// Check metrics
	ChecksTotal   *prometheus.CounterVec
	CheckDuration *prometheus.HistogramVec

	// Cache metrics
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	// Remote fetch metrics
	RemoteFetchesTotal *prometheus.CounterVec

	// Token metrics
	TokenRefreshesTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics on the given registerer.
// service and environment become constant labels on every series, so one
// Prometheus can tell apart the client's deployments. Registration
// conflicts fail here, at construction, not on first use.
func NewMetrics(registerer prometheus.Registerer, service, environment string) *Metrics {
	constLabels := prometheus.Labels{}
	if service != "" {
		constLabels["service"] = service
	}
	if environment != "" {
		constLabels["env"] = environment
	}

	m := &Metrics{
		ChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "permissions_client_checks_total",
				Help:        "Total number of permission checks",
				ConstLabels: constLabels,
			},
			[]string{"call", "result", "scope"},
		),
		CheckDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "permissions_client_check_duration_seconds",
				Help:        "Permission check duration in seconds",
				Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
				ConstLabels: constLabels,
			},
			[]string{"call"},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name:        "permissions_client_cache_hits_total",
				Help:        "Total number of full cache hits",
				ConstLabels: constLabels,
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name:        "permissions_client_cache_misses_total",
				Help:        "Total number of cache misses, partial hits included",
				ConstLabels: constLabels,
			},
		),
		RemoteFetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "permissions_client_remote_fetches_total",
				Help:        "Total number of fetches issued to OS Core",
				ConstLabels: constLabels,
			},
			[]string{"operation"},
		),
		TokenRefreshesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "permissions_client_token_refreshes_total",
				Help:        "Total number of service token refreshes",
				ConstLabels: constLabels,
			},
			[]string{"service", "status"},
		),
	}

	registerer.MustRegister(
		m.ChecksTotal,
		m.CheckDuration,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.RemoteFetchesTotal,
		m.TokenRefreshesTotal,
	)

	return m
}

// NewUnregisteredMetrics builds a handle on a private throwaway
// registry. Used as the default when the caller does not care about
// metrics.
func NewUnregisteredMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry(), "", "")
}

// ObserveCheck records one completed permission check.
func (m *Metrics) ObserveCheck(call, result, scope string, d time.Duration) {
	m.ChecksTotal.WithLabelValues(call, result, scope).Inc()
	m.CheckDuration.WithLabelValues(call).Observe(d.Seconds())
}

// CacheHit counts one full cache hit.
func (m *Metrics) CacheHit() {
	m.CacheHitsTotal.Inc()
}

// CacheMiss counts one cache miss.
func (m *Metrics) CacheMiss() {
	m.CacheMissesTotal.Inc()
}

// RemoteFetch counts one gateway call.
func (m *Metrics) RemoteFetch(operation string) {
	m.RemoteFetchesTotal.WithLabelValues(operation).Inc()
}

// TokenRefresh counts one token refresh attempt.
func (m *Metrics) TokenRefresh(service, status string) {
	m.TokenRefreshesTotal.WithLabelValues(service, status).Inc()
}

// RegisterMetricsEndpoint registers the /metrics endpoint
func RegisterMetricsEndpoint(mux *http.ServeMux, registry *prometheus.Registry) {
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
