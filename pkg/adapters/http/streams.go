package http

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/phocus/pkg/domain"
)

// StreamManager fans lifecycle events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- Message]struct{}
}

// Message is one encoded event ready to be written to a stream.
type Message struct {
	Type domain.EventType
	Data []byte
}

// NewStreamManager creates a StreamManager with no subscribers.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- Message]struct{}),
	}
}

// Subscribe registers a new buffered channel. The returned func unsubscribes
// and closes it.
func (sm *StreamManager) Subscribe() (<-chan Message, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Message, 16)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Broadcast encodes event and delivers it to every subscriber.
// Subscribers with a full buffer miss the message.
func (sm *StreamManager) Broadcast(eventType domain.EventType, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("StreamManager: encode failed", "type", eventType, "err", err)
		return
	}

	sm.mu.RLock()
	defer sm.mu.RUnlock()

	msg := Message{Type: eventType, Data: data}
	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			slog.Warn("SSE: Client buffer full, dropping message", "type", eventType)
		}
	}
}

// Hooks returns lifecycle hooks that broadcast every event.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnContextChange: func(e *domain.ContextEvent) { sm.Broadcast(e.Type, e) },
		OnKeypress:      func(e *domain.KeypressEvent) { sm.Broadcast(e.Type, e) },
		OnRemap:         func(e *domain.RemapEvent) { sm.Broadcast(e.Type, e) },
	}
}
