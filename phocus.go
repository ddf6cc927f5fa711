package phocus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/phocus/internal/logging"
	"github.com/aretw0/phocus/internal/runtime"
	"github.com/aretw0/phocus/pkg/adapters/loam"
	"github.com/aretw0/phocus/pkg/catalog"
	"github.com/aretw0/phocus/pkg/domain"
	"github.com/aretw0/phocus/pkg/ports"
	"github.com/aretw0/phocus/pkg/registry"
)

// DefaultProfile is the remapping profile used when none is configured.
const DefaultProfile = "default"

// Engine is the high-level entry point for the Phocus library.
// It wraps the runtime service and connects it to a blueprint source and
// an optional remapping store.
type Engine struct {
	service  *runtime.Service
	loader   ports.BlueprintLoader
	store    ports.RemappingStore
	profile  string
	handlers *registry.Registry
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	Name     string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader injects a custom BlueprintLoader, bypassing source detection.
func WithLoader(l ports.BlueprintLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHandlers sets the registry used to bind catalog handler names.
func WithHandlers(reg *registry.Registry) Option {
	return func(e *Engine) {
		e.handlers = reg
	}
}

// WithRemappingStore persists remappings under profile.
// An empty profile selects DefaultProfile.
func WithRemappingStore(store ports.RemappingStore, profile string) Option {
	return func(e *Engine) {
		e.store = store
		e.profile = profile
	}
}

// New initializes a new Phocus Engine.
//
// source selects the default blueprint loader: a .yaml, .yml or .json file is
// read as a catalog, a directory is opened as a Loam repository. source may be
// empty when contexts are registered in code or WithLoader is used.
func New(source string, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil && source != "" {
		loader, err := detectLoader(source, eng.handlers)
		if err != nil {
			return nil, err
		}
		eng.loader = loader
		eng.Name = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	} else if source != "" {
		eng.Name = filepath.Base(source)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.profile == "" {
		eng.profile = DefaultProfile
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("source", eng.Name)
	}

	eng.service = runtime.NewService(
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	)
	return eng, nil
}

func detectLoader(source string, handlers *registry.Registry) (ports.BlueprintLoader, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("invalid source: %w", err)
	}
	if info.IsDir() {
		return loam.Open(source, handlers)
	}

	switch strings.ToLower(filepath.Ext(source)) {
	case ".yaml", ".yml", ".json":
		return catalog.NewLoader(source, handlers), nil
	default:
		return nil, fmt.Errorf("unsupported source %q: expected a directory or a .yaml/.yml/.json catalog", source)
	}
}

// Load registers every blueprint from the loader, then replays the stored
// remapping profile. A missing profile is not an error.
func (e *Engine) Load(ctx context.Context) error {
	if e.loader != nil {
		blueprints, err := e.loader.LoadBlueprints(ctx)
		if err != nil {
			return fmt.Errorf("failed to load blueprints: %w", err)
		}
		for _, nb := range blueprints {
			e.service.AddContext(nb.ID, nb.Blueprint)
		}
		e.logger.Info("blueprints loaded", "contexts", len(blueprints))
	}

	if e.store == nil {
		return nil
	}

	remappings, err := e.store.Load(ctx, e.profile)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load profile %q: %w", e.profile, err)
	}

	skipped := e.service.ApplyRemapping(remappings)
	e.logger.Info("remapping profile applied", "profile", e.profile, "applied", len(remappings)-len(skipped), "skipped", len(skipped))
	return nil
}

// Profile returns the active remapping profile name.
func (e *Engine) Profile() string {
	return e.profile
}

// Clear drops every registered context, every remapping and the current stack.
// The stored profile is left untouched.
func (e *Engine) Clear() {
	e.service.Clear()
}

// AddContext registers bp under id. Reusing an id overwrites the previous blueprint.
func (e *Engine) AddContext(id string, bp domain.ContextBlueprint) {
	e.service.AddContext(id, bp)
}

// Context returns the blueprint registered under id.
func (e *Engine) Context(id string) (domain.ContextBlueprint, bool) {
	return e.service.Context(id)
}

// Contexts returns the registered context ids in registration order.
func (e *Engine) Contexts() []string {
	return e.service.Contexts()
}

// Action returns the action registered as actionID in context contextID.
func (e *Engine) Action(contextID, actionID string) (*domain.Action, bool) {
	return e.service.Action(contextID, actionID)
}

// SetContext rebuilds the context stack from the focused element.
func (e *Engine) SetContext(el domain.Element) {
	e.service.SetContext(el)
}

// ContextStack returns the current stack, innermost first.
func (e *Engine) ContextStack() []domain.ContextStackEntry {
	return e.service.ContextStack()
}

// UnresolvedContexts lists stack context ids that have no blueprint.
func (e *Engine) UnresolvedContexts() []string {
	return e.service.UnresolvedContexts()
}

// AvailableActions returns the actions in scope for the current stack.
func (e *Engine) AvailableActions() []domain.ActionInContext {
	return e.service.AvailableActions()
}

// ActionForKeypress returns the action bound to chord in the current stack.
func (e *Engine) ActionForKeypress(chord string) (domain.ActionInContext, bool) {
	return e.service.ActionForKeypress(chord)
}

// Dispatch looks up chord and invokes the matched action.
// It reports whether an action fired.
func (e *Engine) Dispatch(chord string) bool {
	match, ok := e.service.ActionForKeypress(chord)
	if !ok {
		return false
	}
	match.Action.ActOn()
	return true
}

// EffectiveKeys returns the chords that currently trigger a.
func (e *Engine) EffectiveKeys(a *domain.Action) []string {
	return e.service.EffectiveKeys(a)
}

// Conflicts reports chords claimed by more than one available action.
func (e *Engine) Conflicts() []domain.Conflict {
	return e.service.Conflicts()
}

// Search returns available actions whose name, documentation or search terms
// contain query, ignoring case.
func (e *Engine) Search(query string) []domain.ActionInContext {
	return e.service.Search(query)
}

// CurrentRemapping returns the active overrides, most recently set last.
func (e *Engine) CurrentRemapping() []domain.Remapping {
	return e.service.CurrentRemapping()
}

// RemapAction overrides the keys of a with chord, or reverts to the defaults
// when chord is empty. With a store configured the new remapping is saved; if
// saving fails the previous remapping is restored and the error returned.
func (e *Engine) RemapAction(ctx context.Context, a *domain.Action, chord string) error {
	previous := e.service.CurrentRemapping()
	if err := e.service.RemapAction(a, chord); err != nil {
		return err
	}
	if err := e.SaveRemapping(ctx); err != nil {
		e.service.RestoreRemapping(previous)
		e.logger.Warn("remap rolled back", "err", err)
		return err
	}
	return nil
}

// ApplyRemapping replays remappings by action id and returns the skipped ids.
// Nothing is persisted.
func (e *Engine) ApplyRemapping(remappings []domain.Remapping) []string {
	return e.service.ApplyRemapping(remappings)
}

// ResetRemapping clears every override and deletes the stored profile.
// If the delete fails the overrides are restored.
func (e *Engine) ResetRemapping(ctx context.Context) error {
	previous := e.service.CurrentRemapping()
	e.service.RestoreRemapping(nil)

	if e.store == nil {
		return nil
	}
	if err := e.store.Delete(ctx, e.profile); err != nil {
		e.service.RestoreRemapping(previous)
		return fmt.Errorf("failed to delete profile %q: %w", e.profile, err)
	}
	return nil
}

// SaveRemapping writes the current remapping to the store under the active profile.
// Without a store it does nothing.
func (e *Engine) SaveRemapping(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	if err := e.store.Save(ctx, e.profile, e.service.CurrentRemapping()); err != nil {
		return fmt.Errorf("failed to save profile %q: %w", e.profile, err)
	}
	return nil
}
