// Package metrics exposes Prometheus counters for attendance processing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/facegate/attendance-engine/internal/engine"
)

// Metrics holds the Prometheus collectors for the attendance service.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal  *prometheus.CounterVec
	RejectedTotal  *prometheus.CounterVec
	MatchDistance  prometheus.Histogram
	ProcessSeconds prometheus.Histogram
}

// New creates a Metrics instance backed by its own registry, so tests can
// instantiate it repeatedly without duplicate registration panics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_requests_total",
			Help: "Attendance requests processed, by type and outcome.",
		}, []string{"type", "outcome"}),
		RejectedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_rejected_total",
			Help: "Rejected attendance requests, by reason.",
		}, []string{"reason"}),
		MatchDistance: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "attendance_match_distance",
			Help:    "Euclidean distance of accepted descriptor matches.",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		ProcessSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "attendance_process_duration_seconds",
			Help:    "Duration of attendance request processing.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Registry returns the underlying registry for the /metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records a processed request result.
func (m *Metrics) Observe(res *engine.Result, seconds float64) {
	if res == nil {
		return
	}
	outcome := "rejected"
	if res.Accepted {
		outcome = "accepted"
		m.MatchDistance.Observe(res.MatchDistance)
	} else {
		m.RejectedTotal.WithLabelValues(string(res.Reason)).Inc()
	}
	m.RequestsTotal.WithLabelValues(string(res.Type), outcome).Inc()
	m.ProcessSeconds.Observe(seconds)
}
