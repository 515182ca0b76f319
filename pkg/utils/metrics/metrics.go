package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "oprisk"

// Metrics holds the collectors of the process on a dedicated registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	eventsGenerated     *prometheus.CounterVec
	assessmentsUpserted *prometheus.CounterVec
	activeSessions      prometheus.Gauge
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

// New creates a registry with Go runtime and process collectors plus the
// application collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		eventsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_generated_total",
			Help:      "Number of synthetic loss events generated.",
		}, []string{"risk_category"}),
		assessmentsUpserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_upserted_total",
			Help:      "Number of stored assessments by residual risk.",
		}, []string{"residual_risk"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of open sessions.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.eventsGenerated,
		m.assessmentsUpserted,
		m.activeSessions,
		m.httpRequests,
		m.httpDuration,
	)

	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// EventsGenerated counts generated events of one risk category.
func (m *Metrics) EventsGenerated(category string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.eventsGenerated.WithLabelValues(category).Add(float64(n))
}

// AssessmentUpserted counts one stored assessment.
func (m *Metrics) AssessmentUpserted(residual string) {
	if m == nil {
		return
	}
	m.assessmentsUpserted.WithLabelValues(residual).Inc()
}

// SessionOpened increments the open session gauge.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

// SessionClosed decrements the open session gauge.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

// ObserveHTTP records a served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
