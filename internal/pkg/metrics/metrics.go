package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes
const (
	OutcomeSuccess     = "success"
	OutcomeInvalidRole = "invalid_role"
	OutcomeInvalidForm = "invalid_form"
	OutcomeRejected    = "rejected"
	OutcomeError       = "error"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	LoginAttempts    *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
}

// New creates the collectors on a dedicated registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		LoginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uniportal",
			Name:      "login_attempts_total",
			Help:      "Login submissions by role and outcome.",
		}, []string{"role", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "uniportal",
			Name:      "auth_backend_request_duration_seconds",
			Help:      "Latency of calls to the auth backend.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"call", "status"}),
	}

	m.registry.MustRegister(
		m.LoginAttempts,
		m.UpstreamDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveLogin counts one login attempt
func (m *Metrics) ObserveLogin(role, outcome string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(role, outcome).Inc()
}

// ObserveUpstream records the latency of one auth backend call
func (m *Metrics) ObserveUpstream(call, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamDuration.WithLabelValues(call, status).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
