package observability

import (
	"github.com/aretw0/phocus/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "phocus"

// Metrics holds the Prometheus collectors fed by lifecycle hooks.
type Metrics struct {
	ContextChanges prometheus.Counter
	StackDepth     prometheus.Gauge
	Unresolved     prometheus.Gauge
	Keypresses     *prometheus.CounterVec
	Remaps         *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		ContextChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "context_changes_total",
			Help:      "Number of times the context stack was replaced.",
		}),
		StackDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "context_stack_depth",
			Help:      "Number of entries in the current context stack.",
		}),
		Unresolved: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unresolved_contexts",
			Help:      "Number of stack entries naming an unregistered context.",
		}),
		Keypresses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "keypresses_total",
			Help:      "Chord lookups by result and the context of the matched action.",
		}, []string{"result", "context"}),
		Remaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remaps_total",
			Help:      "Remapping changes by kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(m.ContextChanges, m.StackDepth, m.Unresolved, m.Keypresses, m.Remaps)
	return m
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnContextChange: func(e *domain.ContextEvent) {
			if !e.Rebound {
				m.ContextChanges.Inc()
			}
			m.StackDepth.Set(float64(len(e.Stack)))
			m.Unresolved.Set(float64(len(e.Unresolved)))
		},
		OnKeypress: func(e *domain.KeypressEvent) {
			if e.Matched {
				m.Keypresses.WithLabelValues("matched", e.Context).Inc()
				return
			}
			m.Keypresses.WithLabelValues("unmatched", "").Inc()
		},
		OnRemap: func(e *domain.RemapEvent) {
			kind := "set"
			if e.Cleared {
				kind = "clear"
			}
			m.Remaps.WithLabelValues(kind).Inc()
		},
	}
}
