package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/arbor/pkg/domain"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	NodeVisits         *prometheus.CounterVec
	CapabilityDuration *prometheus.HistogramVec
	CapabilityErrors   *prometheus.CounterVec
	Runs               *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors on the given
// registerer (use prometheus.DefaultRegisterer for the process default).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		NodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_node_visits_total",
				Help: "Total number of node visits",
			},
			[]string{"node_id", "kind"},
		),
		CapabilityDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "arbor_capability_duration_seconds",
				Help: "Duration of capability invocations",
			},
			[]string{"service", "action"},
		),
		CapabilityErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_capability_errors_total",
				Help: "Total number of failed capability invocations",
			},
			[]string{"service", "action"},
		),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_runs_total",
				Help: "Total number of tree runs by terminal status",
			},
			[]string{"status"},
		),
	}
	reg.MustRegister(m.NodeVisits, m.CapabilityDuration, m.CapabilityErrors, m.Runs)
	return m
}

// Hooks returns engine lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnNodeEnter: func(_ context.Context, e *domain.NodeEvent) {
			m.NodeVisits.WithLabelValues(e.NodeID, string(e.Kind)).Inc()
		},
		OnCapabilityReturn: func(_ context.Context, e *domain.CapabilityEvent) {
			m.CapabilityDuration.WithLabelValues(e.Service, e.Action).Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.CapabilityErrors.WithLabelValues(e.Service, e.Action).Inc()
			}
		},
	}
}

// ObserveRun records a completed run's terminal status.
func (m *Metrics) ObserveRun(rec *domain.Record) {
	m.Runs.WithLabelValues(string(rec.Status)).Inc()
}
