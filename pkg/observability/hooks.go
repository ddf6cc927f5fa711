package observability

import (
	"log/slog"

	"github.com/aretw0/phocus/pkg/domain"
)

// LoggingHooks returns hooks that log every event at debug level,
// and unmatched keypresses at info.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnContextChange: func(e *domain.ContextEvent) {
			contexts := make([]string, len(e.Stack))
			for i, entry := range e.Stack {
				contexts[i] = entry.Context
			}
			logger.Debug("context changed", "stack", contexts, "unresolved", e.Unresolved)
		},
		OnKeypress: func(e *domain.KeypressEvent) {
			if !e.Matched {
				logger.Info("unbound chord", "chord", e.Chord)
				return
			}
			logger.Debug("keypress", "chord", e.Chord, "action_id", e.ActionID, "context", e.Context)
		},
		OnRemap: func(e *domain.RemapEvent) {
			logger.Debug("remap", "action_id", e.ActionID, "mapping", e.Mapping, "cleared", e.Cleared)
		},
	}
}

// Chain merges hook sets. Callbacks run in argument order; nil callbacks are skipped.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnContextChange = chain(out.OnContextChange, h.OnContextChange)
		out.OnKeypress = chain(out.OnKeypress, h.OnKeypress)
		out.OnRemap = chain(out.OnRemap, h.OnRemap)
	}
	return out
}

func chain[E any](first, next func(*E)) func(*E) {
	switch {
	case first == nil:
		return next
	case next == nil:
		return first
	}
	return func(e *E) {
		first(e)
		next(e)
	}
}
