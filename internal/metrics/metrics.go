package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metric collectors for the Clientbook server.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Summarization metrics.
	SummarizationsTotal   *prometheus.CounterVec
	SummarizationDuration prometheus.Histogram

	// Stock feed metrics.
	StockRefreshesTotal *prometheus.CounterVec

	// Rate limiting and auth metrics.
	RateLimitRejectionsTotal prometheus.Counter
	AuthFailuresTotal        *prometheus.CounterVec

	// Server lifecycle.
	ServerStartTime prometheus.Gauge
}

// New creates and registers all Prometheus metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clientbook_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clientbook_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		SummarizationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clientbook_summarizations_total",
			Help: "Total number of meeting summarization attempts.",
		}, []string{"outcome"}),

		SummarizationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "clientbook_summarization_duration_seconds",
			Help:    "Duration of upstream summarization calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),

		StockRefreshesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clientbook_stock_refreshes_total",
			Help: "Total number of stock quote refresh attempts.",
		}, []string{"outcome"}),

		RateLimitRejectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clientbook_ratelimit_rejections_total",
			Help: "Total number of rate limit rejections.",
		}),

		AuthFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clientbook_auth_failures_total",
			Help: "Total number of authentication failures.",
		}, []string{"reason"}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clientbook_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SummarizationsTotal,
		m.SummarizationDuration,
		m.StockRefreshesTotal,
		m.RateLimitRejectionsTotal,
		m.AuthFailuresTotal,
		m.ServerStartTime,
	)

	m.ServerStartTime.Set(float64(time.Now().Unix()))

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus exposition handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RegisterDBPoolCollector registers a custom DB pool stats collector.
func (m *Metrics) RegisterDBPoolCollector(statFunc DBPoolStatFunc) {
	m.registry.MustRegister(NewDBPoolCollector(statFunc))
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, pathPattern string, statusCode int, seconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, pathPattern, fmt.Sprintf("%d", statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, pathPattern).Observe(seconds)
}

// ObserveSummarization records one summarization attempt.
func (m *Metrics) ObserveSummarization(seconds float64, outcome string) {
	m.SummarizationsTotal.WithLabelValues(outcome).Inc()
	m.SummarizationDuration.Observe(seconds)
}

// IncStockRefresh records one stock quote refresh attempt.
func (m *Metrics) IncStockRefresh(outcome string) {
	m.StockRefreshesTotal.WithLabelValues(outcome).Inc()
}

// IncRateLimitRejection increments the rate limit rejection counter.
func (m *Metrics) IncRateLimitRejection() {
	m.RateLimitRejectionsTotal.Inc()
}

// IncAuthFailure increments the auth failure counter for the given reason.
func (m *Metrics) IncAuthFailure(reason string) {
	m.AuthFailuresTotal.WithLabelValues(reason).Inc()
}
