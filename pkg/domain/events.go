package domain

import (
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventContextChange EventType = "context_change"
	EventKeypress      EventType = "keypress"
	EventRemap         EventType = "remap"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// ContextEvent is emitted after the context stack is replaced, and after a
// context already on the stack is registered again.
type ContextEvent struct {
	EventBase
	Stack      []ContextStackEntry `json:"stack"`
	Unresolved []string            `json:"unresolved,omitempty"`

	// Rebound is set when the stack itself is unchanged but one of its
	// contexts was (re)registered, so resolution may differ.
	Rebound bool `json:"rebound,omitempty"`
}

// KeypressEvent is emitted after a chord lookup.
type KeypressEvent struct {
	EventBase
	Chord    string `json:"chord"`
	Matched  bool   `json:"matched"`
	ActionID string `json:"action_id,omitempty"`
	Context  string `json:"context,omitempty"`
}

// RemapEvent is emitted after a remapping is set or cleared.
type RemapEvent struct {
	EventBase
	ActionID string `json:"action_id"`
	Mapping  string `json:"mapping,omitempty"`
	Cleared  bool   `json:"cleared"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously on the calling goroutine, after state is updated.
type LifecycleHooks struct {
	OnContextChange func(*ContextEvent)
	OnKeypress      func(*KeypressEvent)
	OnRemap         func(*RemapEvent)
}
