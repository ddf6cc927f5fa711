// Package registry binds handler names used in catalogs to the Go functions
// that actions invoke when they fire.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/phocus/pkg/domain"
)

// HandlerFunc is the caller-owned operation an action performs.
type HandlerFunc func()

// Registry manages the available handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	fallback func(name string) HandlerFunc
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]HandlerFunc),
	}
}

// Register adds a handler to the registry.
// If a handler with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = fn
}

// SetFallback installs a factory used for names with no registered handler.
// Tools that only inspect catalogs use it to accept any handler name.
func (r *Registry) SetFallback(fn func(name string) HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = fn
}

// Resolve looks up a handler by name.
// An empty name resolves to a nil handler; an unknown name is an error.
func (r *Registry) Resolve(name string) (HandlerFunc, error) {
	if name == "" {
		return nil, nil
	}
	if r == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownHandler, name)
	}

	r.mu.RLock()
	fn, ok := r.handlers[name]
	fallback := r.fallback
	r.mu.RUnlock()

	if !ok && fallback != nil {
		return fallback(name), nil
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownHandler, name)
	}
	return fn, nil
}

// Names returns the registered handler names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
