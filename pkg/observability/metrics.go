package observability

import (
	"context"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by lifecycle hooks.
type Metrics struct {
	Navigations  *prometheus.CounterVec
	AutoAdvances prometheus.Counter
	GateReady    *prometheus.CounterVec
	CurrentIndex *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Navigations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lectern_navigations_total",
				Help: "Total number of successful navigations",
			},
			[]string{"layout", "action"},
		),
		AutoAdvances: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lectern_auto_advances_total",
				Help: "Total number of automatic step advances",
			},
		),
		GateReady: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lectern_gate_ready_total",
				Help: "Total number of gate variables observed becoming ready",
			},
			[]string{"key"},
		),
		CurrentIndex: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "lectern_current_index",
				Help: "Current position or frontier of the page",
			},
			[]string{"layout"},
		),
	}

	for _, c := range []prometheus.Collector{m.Navigations, m.AutoAdvances, m.GateReady, m.CurrentIndex} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnMount: func(_ context.Context, s *domain.Snapshot) {
			m.CurrentIndex.WithLabelValues(string(s.Layout)).Set(float64(s.Current))
		},
		OnNavigate: func(_ context.Context, e *domain.NavigationEvent) {
			m.Navigations.WithLabelValues(string(e.Layout), string(e.Action)).Inc()
			m.CurrentIndex.WithLabelValues(string(e.Layout)).Set(float64(e.To))
		},
		OnAutoAdvance: func(context.Context, *domain.NavigationEvent) {
			m.AutoAdvances.Inc()
		},
		OnGateChange: func(_ context.Context, e *domain.GateEvent) {
			if e.Ready {
				m.GateReady.WithLabelValues(e.Key).Inc()
			}
		},
	}
}

// LogHooks returns lifecycle hooks that log every event.
func LogHooks(logger Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnMount: func(ctx context.Context, s *domain.Snapshot) {
			logger.InfoContext(ctx, "page_mount",
				"layout", s.Layout,
				"total", s.Total,
				"current", s.Current,
			)
		},
		OnNavigate: func(ctx context.Context, e *domain.NavigationEvent) {
			args := []any{
				"layout", e.Layout,
				"action", e.Action,
				"from", e.From,
				"to", e.To,
			}
			if e.Layout == domain.LayoutSlides {
				args = append(args, "direction", e.Direction, "epoch", e.Epoch)
			}
			logger.InfoContext(ctx, "navigate", args...)
		},
		OnAutoAdvance: func(ctx context.Context, e *domain.NavigationEvent) {
			logger.InfoContext(ctx, "auto_advance", "from", e.From, "to", e.To)
		},
		OnGateChange: func(ctx context.Context, e *domain.GateEvent) {
			logger.InfoContext(ctx, "gate_change", "index", e.Index, "key", e.Key, "ready", e.Ready)
		},
	}
}

// Logger is the subset of *slog.Logger used by LogHooks.
type Logger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
}

// Combine fans every event out to each hook set in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnMount = chain(out.OnMount, h.OnMount)
		out.OnNavigate = chain(out.OnNavigate, h.OnNavigate)
		out.OnAutoAdvance = chain(out.OnAutoAdvance, h.OnAutoAdvance)
		out.OnGateChange = chain(out.OnGateChange, h.OnGateChange)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
