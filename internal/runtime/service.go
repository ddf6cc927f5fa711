package runtime

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/phocus/internal/logging"
	"github.com/aretw0/phocus/pkg/domain"
)

// Service is the action context engine. It owns the context registry, the
// remapping overlay and the current context stack.
//
// Construct one per independent scope; Clear returns it to the state of a
// freshly constructed Service.
type Service struct {
	mu sync.RWMutex

	registry *contextRegistry
	overlay  *remappingOverlay
	stack    []domain.ContextStackEntry

	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Service) {
		s.hooks = hooks
	}
}

// NewService creates an empty Service.
func NewService(opts ...Option) *Service {
	s := &Service{
		registry: newContextRegistry(),
		overlay:  newRemappingOverlay(),
		stack:    make([]domain.ContextStackEntry, 0),
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clear resets the registry, the remapping overlay and the current stack.
// OnContextChange fires when a non-empty stack was dropped.
func (s *Service) Clear() {
	s.mu.Lock()
	hadStack := len(s.stack) > 0
	s.registry = newContextRegistry()
	s.overlay = newRemappingOverlay()
	s.stack = make([]domain.ContextStackEntry, 0)
	s.mu.Unlock()

	s.logger.Debug("action context cleared")
	if hadStack {
		s.emitContext(nil, nil, false)
	}
}

// AddContext registers bp under id. Reusing an id overwrites the previous blueprint.
// When id is on the current stack, OnContextChange fires with Rebound set.
func (s *Service) AddContext(id string, bp domain.ContextBlueprint) {
	s.mu.Lock()
	s.registry.add(id, bp)
	onStack := false
	for _, entry := range s.stack {
		if entry.Context == id {
			onStack = true
			break
		}
	}
	var stack []domain.ContextStackEntry
	var unresolved []string
	if onStack {
		stack = cloneStack(s.stack)
		unresolved = s.unresolvedLocked()
	}
	s.mu.Unlock()

	s.logger.Debug("context registered", "context", id, "actions", len(bp.Actions), "opaque", bp.Opaque)
	if onStack {
		s.emitContext(stack, unresolved, true)
	}
}

// Context returns the blueprint registered under id.
func (s *Service) Context(id string) (domain.ContextBlueprint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.lookup(id)
}

// Contexts returns the registered context ids in registration order.
func (s *Service) Contexts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.ids()
}

// Action returns the action registered as actionID in context contextID.
func (s *Service) Action(contextID, actionID string) (*domain.Action, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bp, ok := s.registry.lookup(contextID)
	if !ok {
		return nil, false
	}
	for _, entry := range bp.Actions {
		if entry.ID == actionID {
			return entry.Action, true
		}
	}
	return nil, false
}

// SetContext rebuilds the context stack from el and its ancestors.
// The new stack fully replaces the previous one.
func (s *Service) SetContext(el domain.Element) {
	stack := buildStack(el)

	s.mu.Lock()
	s.stack = stack
	unresolved := s.unresolvedLocked()
	s.mu.Unlock()

	s.logger.Debug("context stack updated", "depth", len(stack), "unresolved", len(unresolved))
	s.emitContext(cloneStack(stack), unresolved, false)
}

func (s *Service) emitContext(stack []domain.ContextStackEntry, unresolved []string, rebound bool) {
	if s.hooks.OnContextChange == nil {
		return
	}
	if stack == nil {
		stack = make([]domain.ContextStackEntry, 0)
	}
	s.hooks.OnContextChange(&domain.ContextEvent{
		EventBase:  domain.EventBase{Timestamp: s.now(), Type: domain.EventContextChange},
		Stack:      stack,
		Unresolved: unresolved,
		Rebound:    rebound,
	})
}

// ContextStack returns a copy of the current stack, innermost first.
// Entries whose context is not registered are included.
func (s *Service) ContextStack() []domain.ContextStackEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneStack(s.stack)
}

// UnresolvedContexts lists the context ids on the stack that have no blueprint.
func (s *Service) UnresolvedContexts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unresolvedLocked()
}

func (s *Service) unresolvedLocked() []string {
	var ids []string
	for _, entry := range s.stack {
		if _, ok := s.registry.lookup(entry.Context); !ok {
			ids = append(ids, entry.Context)
		}
	}
	return ids
}

// AvailableActions returns the in-scope actions, innermost context first,
// truncated after the first opaque context.
func (s *Service) AvailableActions() []domain.ActionInContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return aggregate(s.stack, s.registry)
}

// ActionForKeypress returns the innermost available action whose effective keys
// contain chord. The second result is false when nothing is bound.
func (s *Service) ActionForKeypress(chord string) (domain.ActionInContext, bool) {
	s.mu.RLock()
	match, ok := matchChord(aggregate(s.stack, s.registry), chord, s.registry, s.overlay)
	s.mu.RUnlock()

	if s.hooks.OnKeypress != nil {
		event := &domain.KeypressEvent{
			EventBase: domain.EventBase{Timestamp: s.now(), Type: domain.EventKeypress},
			Chord:     chord,
			Matched:   ok,
		}
		if ok {
			event.ActionID = match.ActionID
			event.Context = match.Entry.Context
		}
		s.hooks.OnKeypress(event)
	}
	return match, ok
}

// EffectiveKeys returns the chords that currently trigger a.
func (s *Service) EffectiveKeys(a *domain.Action) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return effectiveKeys(a, s.registry, s.overlay)
}

// Conflicts reports chords claimed by more than one available action.
func (s *Service) Conflicts() []domain.Conflict {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return detectConflicts(aggregate(s.stack, s.registry), s.registry, s.overlay)
}

// Search returns the available actions whose name, documentation or search
// terms contain query, case-insensitively. An empty query matches everything.
func (s *Service) Search(query string) []domain.ActionInContext {
	available := s.AvailableActions()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return available
	}

	var hits []domain.ActionInContext
	for _, aic := range available {
		if aic.Action != nil && matchesQuery(aic.Action, q) {
			hits = append(hits, aic)
		}
	}
	return hits
}

func matchesQuery(a *domain.Action, q string) bool {
	if strings.Contains(strings.ToLower(a.Name()), q) ||
		strings.Contains(strings.ToLower(a.ShortDocumentation()), q) {
		return true
	}
	for _, term := range a.SearchTerms() {
		if strings.Contains(strings.ToLower(term), q) {
			return true
		}
	}
	return false
}

// RemapAction overrides the keys of a with chord. An empty chord removes the
// override and reverts to the default keys. If a is not attached to any
// registered context, nothing changes and domain.ErrActionNotRegistered is returned.
func (s *Service) RemapAction(a *domain.Action, chord string) error {
	s.mu.Lock()
	id, ok := s.registry.actionID(a)
	if !ok {
		s.mu.Unlock()
		s.logger.Warn("remap ignored: action not registered")
		return domain.ErrActionNotRegistered
	}
	s.applyLocked(id, chord)
	s.mu.Unlock()

	s.emitRemap(id, chord)
	return nil
}

// ApplyRemapping replays persisted remappings by action id. Entries whose id is
// not known to the registry are skipped and returned.
func (s *Service) ApplyRemapping(remappings []domain.Remapping) []string {
	s.mu.Lock()
	known := make(map[string]bool)
	for _, id := range s.registry.actionIDs {
		known[id] = true
	}

	var skipped, applied []domain.Remapping
	for _, r := range remappings {
		if !known[r.Action] {
			skipped = append(skipped, r)
			continue
		}
		s.applyLocked(r.Action, r.Mapping)
		applied = append(applied, r)
	}
	s.mu.Unlock()

	for _, r := range applied {
		s.emitRemap(r.Action, r.Mapping)
	}

	ids := make([]string, 0, len(skipped))
	for _, r := range skipped {
		ids = append(ids, r.Action)
	}
	if len(ids) > 0 {
		s.logger.Warn("remappings skipped for unknown actions", "actions", ids)
	}
	return ids
}

// RestoreRemapping replaces the overlay with remappings, keeping their order.
// It is meant for snapshots taken from CurrentRemapping. OnRemap fires for
// every action whose mapping changed.
func (s *Service) RestoreRemapping(remappings []domain.Remapping) {
	s.mu.Lock()
	before := make(map[string]string)
	for _, r := range s.overlay.export() {
		before[r.Action] = r.Mapping
	}

	s.overlay = newRemappingOverlay()
	after := make(map[string]string)
	for _, r := range remappings {
		if r.Mapping == "" {
			continue
		}
		s.overlay.set(r.Action, r.Mapping)
		after[r.Action] = r.Mapping
	}
	s.mu.Unlock()

	for _, r := range remappings {
		if chord, ok := after[r.Action]; ok && before[r.Action] != chord {
			s.emitRemap(r.Action, chord)
		}
	}
	for id := range before {
		if _, ok := after[id]; !ok {
			s.emitRemap(id, "")
		}
	}
	s.logger.Debug("remapping restored", "remappings", len(after))
}

func (s *Service) applyLocked(id, chord string) {
	if chord == "" {
		s.overlay.remove(id)
		s.logger.Debug("remapping cleared", "action", id)
		return
	}
	s.overlay.set(id, chord)
	s.logger.Debug("action remapped", "action", id, "chord", chord)
}

func (s *Service) emitRemap(id, chord string) {
	if s.hooks.OnRemap == nil {
		return
	}
	s.hooks.OnRemap(&domain.RemapEvent{
		EventBase: domain.EventBase{Timestamp: s.now(), Type: domain.EventRemap},
		ActionID:  id,
		Mapping:   chord,
		Cleared:   chord == "",
	})
}

// CurrentRemapping returns the active overrides in the order they were last established.
func (s *Service) CurrentRemapping() []domain.Remapping {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overlay.export()
}

func cloneStack(stack []domain.ContextStackEntry) []domain.ContextStackEntry {
	out := make([]domain.ContextStackEntry, len(stack))
	copy(out, stack)
	return out
}
