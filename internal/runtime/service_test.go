package runtime_test

import (
	"testing"

	"github.com/aretw0/phocus/internal/runtime"
	"github.com/aretw0/phocus/pkg/adapters/html"
	"github.com/aretw0/phocus/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc    *runtime.Service
	save   *domain.Action
	logout *domain.Action
}

func newFixture(t *testing.T, opts ...runtime.Option) *fixture {
	t.Helper()

	save := domain.NewAction(domain.ActionOptions{
		Name:               "Save project",
		ShortDocumentation: "Saves the project",
		DefaultKeys:        []string{"Control+s", "Control+p"},
		ActOn:              func() {},
		SearchTerms:        []string{"save", "project"},
	})
	logout := domain.NewAction(domain.ActionOptions{
		Name:               "Log out",
		ShortDocumentation: "Log out",
		DefaultKeys:        []string{"Control+s", "Control+o"},
		ActOn:              func() {},
		SearchTerms:        []string{"log out", "sign out"},
	})

	svc := runtime.NewService(opts...)
	svc.Clear()
	svc.AddContext("project", domain.ContextBlueprint{
		Name:          "Project editing",
		Documentation: "This is where you can change the settings of your project",
		Actions:       []domain.ActionEntry{{ID: "save", Action: save}},
	})
	svc.AddContext("root", domain.ContextBlueprint{
		Name:          "Root",
		Documentation: "These are global actions, available anywhere.",
		Actions:       []domain.ActionEntry{{ID: "logout", Action: logout}},
	})
	svc.AddContext("opaque", domain.ContextBlueprint{
		Name:          "Opaque",
		Documentation: "Conceal all actions.",
		Opaque:        true,
	})

	return &fixture{svc: svc, save: save, logout: logout}
}

// focus parses body and focuses the element with id "button".
func (f *fixture) focus(t *testing.T, body string) {
	t.Helper()
	doc, err := html.ParseString(body)
	require.NoError(t, err)
	el, ok := doc.GetElementByID("button")
	require.True(t, ok, "button not found")
	f.svc.SetContext(el)
}

func TestSetContext_Stack(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		contexts []string
		args     []string
		hasArg   []bool
	}{
		{
			name:     "single context",
			body:     `<div data-phocus-context-name="project" data-phocus-context-argument="my-arg"><button id="button"></button></div>`,
			contexts: []string{"project"},
			args:     []string{"my-arg"},
			hasArg:   []bool{true},
		},
		{
			name: "nested contexts",
			body: `<div data-phocus-context-name="root" data-phocus-context-argument="big-arg">` +
				`<div data-phocus-context-name="project" data-phocus-context-argument="my-arg"><button id="button"></button></div></div>`,
			contexts: []string{"project", "root"},
			args:     []string{"my-arg", "big-arg"},
			hasArg:   []bool{true, true},
		},
		{
			name:     "skips elements without contexts",
			body:     `<div data-phocus-context-name="root" data-phocus-context-argument="big-arg"><div><button id="button"></button></div></div>`,
			contexts: []string{"root"},
			args:     []string{"big-arg"},
			hasArg:   []bool{true},
		},
		{
			name:     "context on the element itself",
			body:     `<div><button id="button" data-phocus-context-name="root" data-phocus-context-argument="big-arg"></button></div>`,
			contexts: []string{"root"},
			args:     []string{"big-arg"},
			hasArg:   []bool{true},
		},
		{
			name:     "no argument",
			body:     `<div data-phocus-context-name="root"><div><button id="button"></button></div></div>`,
			contexts: []string{"root"},
			args:     []string{""},
			hasArg:   []bool{false},
		},
		{
			name:     "empty context name is ignored",
			body:     `<div data-phocus-context-name="root"><div data-phocus-context-name=""><button id="button"></button></div></div>`,
			contexts: []string{"root"},
			args:     []string{""},
			hasArg:   []bool{false},
		},
		{
			name: "no marked ancestors",
			body: `<div><button id="button"></button></div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.focus(t, tt.body)

			stack := f.svc.ContextStack()
			require.Len(t, stack, len(tt.contexts))
			for i, entry := range stack {
				assert.Equal(t, tt.contexts[i], entry.Context)
				assert.Equal(t, tt.args[i], entry.Argument)
				assert.Equal(t, tt.hasArg[i], entry.HasArgument)
				assert.NotNil(t, entry.Element)
			}
		})
	}
}

func TestSetContext_ReplacesStack(t *testing.T) {
	f := newFixture(t)
	f.focus(t, `<div data-phocus-context-name="root"><div data-phocus-context-name="project"><button id="button"></button></div></div>`)
	require.Len(t, f.svc.ContextStack(), 2)

	f.focus(t, `<div data-phocus-context-name="opaque"><button id="button"></button></div>`)
	stack := f.svc.ContextStack()
	require.Len(t, stack, 1)
	assert.Equal(t, "opaque", stack[0].Context)

	f.svc.SetContext(nil)
	assert.Empty(t, f.svc.ContextStack())
	assert.Empty(t, f.svc.AvailableActions())
}

func TestAvailableActions(t *testing.T) {
	t.Run("collects actions from the current context", func(t *testing.T) {
		f := newFixture(t)
		f.focus(t, `<div data-phocus-context-name="root" data-phocus-context-argument="big-arg"><button id="button"></button></div>`)

		actions := f.svc.AvailableActions()
		require.Len(t, actions, 1)
		assert.Same(t, f.logout, actions[0].Action)
		assert.Equal(t, "logout", actions[0].ActionID)
		assert.Equal(t, "big-arg", actions[0].Entry.Argument)
	})

	t.Run("collects actions in order up the context stack", func(t *testing.T) {
		f := newFixture(t)
		f.focus(t, `<div data-phocus-context-name="root"><div data-phocus-context-name="project"><button id="button"></button></div></div>`)

		actions := f.svc.AvailableActions()
		require.Len(t, actions, 2)
		assert.Same(t, f.save, actions[0].Action)
		assert.Equal(t, "project", actions[0].Entry.Context)
		assert.Same(t, f.logout, actions[1].Action)
		assert.Equal(t, "root", actions[1].Entry.Context)
	})

	t.Run("does not collect actions through an opaque context", func(t *testing.T) {
		f := newFixture(t)
		f.focus(t, `<div data-phocus-context-name="root"><div data-phocus-context-name="opaque"><button id="button"></button></div></div>`)

		assert.Empty(t, f.svc.AvailableActions())
		_, ok := f.svc.ActionForKeypress("Control+s")
		assert.False(t, ok)
	})

	t.Run("opaque context keeps its own actions", func(t *testing.T) {
		f := newFixture(t)
		modalClose := domain.NewAction(domain.ActionOptions{Name: "Close", DefaultKeys: []string{"Escape"}})
		f.svc.AddContext("modal", domain.ContextBlueprint{
			Name:    "Modal",
			Opaque:  true,
			Actions: []domain.ActionEntry{{ID: "close", Action: modalClose}},
		})
		f.focus(t, `<div data-phocus-context-name="root"><div data-phocus-context-name="modal"><div data-phocus-context-name="project"><button id="button"></button></div></div></div>`)

		actions := f.svc.AvailableActions()
		require.Len(t, actions, 2)
		assert.Same(t, f.save, actions[0].Action)
		assert.Same(t, modalClose, actions[1].Action)
	})

	t.Run("unregistered context contributes nothing and is not opaque", func(t *testing.T) {
		f := newFixture(t)
		f.focus(t, `<div data-phocus-context-name="root"><div data-phocus-context-name="later"><button id="button"></button></div></div>`)

		actions := f.svc.AvailableActions()
		require.Len(t, actions, 1)
		assert.Same(t, f.logout, actions[0].Action)

		assert.Len(t, f.svc.ContextStack(), 2)
		assert.Equal(t, []string{"later"}, f.svc.UnresolvedContexts())
	})

	t.Run("registration after focus is visible to the next query", func(t *testing.T) {
		f := newFixture(t)
		f.focus(t, `<div data-phocus-context-name="later"><button id="button"></button></div>`)
		assert.Empty(t, f.svc.AvailableActions())

		late := domain.NewAction(domain.ActionOptions{Name: "Late", DefaultKeys: []string{"l"}})
		f.svc.AddContext("later", domain.ContextBlueprint{Actions: []domain.ActionEntry{{ID: "late", Action: late}}})

		actions := f.svc.AvailableActions()
		require.Len(t, actions, 1)
		assert.Same(t, late, actions[0].Action)
		assert.Empty(t, f.svc.UnresolvedContexts())
	})
}

func TestActionForKeypress(t *testing.T) {
	t.Run("gets an action for a keypress", func(t *testing.T) {
		f := newFixture(t)
		f.focus(t, `<div data-phocus-context-name="root"><button id="button"></button></div>`)

		match, ok := f.svc.ActionForKeypress("Control+s")
		require.True(t, ok)
		assert.Same(t, f.logout, match.Action)
	})

	t.Run("inner context shadows a keybinding", func(t *testing.T) {
		f := newFixture(t)
		f.focus(t, `<div data-phocus-context-name="root"><div data-phocus-context-name="project"><button id="button"></button></div></div>`)

		match, ok := f.svc.ActionForKeypress("Control+s")
		require.True(t, ok)
		assert.Same(t, f.save, match.Action)

		// An action can have multiple bindings.
		match, ok = f.svc.ActionForKeypress("Control+o")
		require.True(t, ok)
		assert.Same(t, f.logout, match.Action)
	})

	t.Run("opaque context hides bindings lower in the stack", func(t *testing.T) {
		f := newFixture(t)
		f.focus(t, `<div data-phocus-context-name="root"><div data-phocus-context-name="opaque"><button id="button"></button></div></div>`)

		_, ok := f.svc.ActionForKeypress("Control+p")
		assert.False(t, ok)
		_, ok = f.svc.ActionForKeypress("Control+o")
		assert.False(t, ok)
	})

	t.Run("unbound chord", func(t *testing.T) {
		f := newFixture(t)
		f.focus(t, `<div data-phocus-context-name="root"><button id="button"></button></div>`)

		match, ok := f.svc.ActionForKeypress("Alt+x")
		assert.False(t, ok)
		assert.Nil(t, match.Action)
	})
}

func TestRemapAction(t *testing.T) {
	t.Run("remaps an action to a new keybinding", func(t *testing.T) {
		f := newFixture(t)
		f.focus(t, `<div data-phocus-context-name="root"><button id="button"></button></div>`)

		match, ok := f.svc.ActionForKeypress("Control+o")
		require.True(t, ok)
		assert.Same(t, f.logout, match.Action)

		require.NoError(t, f.svc.RemapAction(f.logout, "Control+q"))

		_, ok = f.svc.ActionForKeypress("Control+o")
		assert.False(t, ok)
		_, ok = f.svc.ActionForKeypress("Control+s")
		assert.False(t, ok)
		match, ok = f.svc.ActionForKeypress("Control+q")
		require.True(t, ok)
		assert.Same(t, f.logout, match.Action)
		assert.Equal(t, []string{"Control+q"}, f.svc.EffectiveKeys(f.logout))

		require.NoError(t, f.svc.RemapAction(f.logout, ""))

		_, ok = f.svc.ActionForKeypress("Control+q")
		assert.False(t, ok)
		match, ok = f.svc.ActionForKeypress("Control+o")
		require.True(t, ok)
		assert.Same(t, f.logout, match.Action)
		assert.Equal(t, []string{"Control+s", "Control+o"}, f.svc.EffectiveKeys(f.logout))
	})

	t.Run("remapping an inner action uncovers the outer binding", func(t *testing.T) {
		f := newFixture(t)
		f.focus(t, `<div data-phocus-context-name="root"><div data-phocus-context-name="project"><button id="button"></button></div></div>`)

		require.NoError(t, f.svc.RemapAction(f.save, "Control+Shift+s"))

		match, ok := f.svc.ActionForKeypress("Control+s")
		require.True(t, ok)
		assert.Same(t, f.logout, match.Action)
	})

	t.Run("collects remappings in order to save them", func(t *testing.T) {
		f := newFixture(t)

		assert.Equal(t, []domain.Remapping{}, f.svc.CurrentRemapping())

		require.NoError(t, f.svc.RemapAction(f.logout, "Control+q"))
		remaps := f.svc.CurrentRemapping()
		require.Len(t, remaps, 1)
		assert.Equal(t, domain.Remapping{Action: "logout", Mapping: "Control+q"}, remaps[0])

		require.NoError(t, f.svc.RemapAction(f.logout, ""))
		assert.Empty(t, f.svc.CurrentRemapping())
	})

	t.Run("order follows the most recent establishment", func(t *testing.T) {
		f := newFixture(t)

		require.NoError(t, f.svc.RemapAction(f.logout, "Control+q"))
		require.NoError(t, f.svc.RemapAction(f.save, "Control+w"))
		require.NoError(t, f.svc.RemapAction(f.logout, "Control+e"))

		assert.Equal(t, []domain.Remapping{
			{Action: "save", Mapping: "Control+w"},
			{Action: "logout", Mapping: "Control+e"},
		}, f.svc.CurrentRemapping())
	})

	t.Run("unregistered action is a no-op reported as an error", func(t *testing.T) {
		f := newFixture(t)
		stray := domain.NewAction(domain.ActionOptions{Name: "Stray", DefaultKeys: []string{"x"}})

		err := f.svc.RemapAction(stray, "y")
		assert.ErrorIs(t, err, domain.ErrActionNotRegistered)
		assert.Empty(t, f.svc.CurrentRemapping())
	})

	t.Run("identity is by reference", func(t *testing.T) {
		f := newFixture(t)
		lookalike := domain.NewAction(domain.ActionOptions{
			Name:        "Log out",
			DefaultKeys: []string{"Control+s", "Control+o"},
		})

		assert.ErrorIs(t, f.svc.RemapAction(lookalike, "Control+q"), domain.ErrActionNotRegistered)
	})

	t.Run("clear resets the overlay", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.svc.RemapAction(f.logout, "Control+q"))

		f.svc.Clear()
		assert.Empty(t, f.svc.CurrentRemapping())
		assert.Empty(t, f.svc.Contexts())
		assert.ErrorIs(t, f.svc.RemapAction(f.logout, "Control+q"), domain.ErrActionNotRegistered)
	})
}

func TestApplyRemapping(t *testing.T) {
	f := newFixture(t)
	f.focus(t, `<div data-phocus-context-name="root"><button id="button"></button></div>`)

	skipped := f.svc.ApplyRemapping([]domain.Remapping{
		{Action: "logout", Mapping: "Control+q"},
		{Action: "ghost", Mapping: "Control+g"},
	})

	assert.Equal(t, []string{"ghost"}, skipped)
	match, ok := f.svc.ActionForKeypress("Control+q")
	require.True(t, ok)
	assert.Same(t, f.logout, match.Action)
	assert.Equal(t, []domain.Remapping{{Action: "logout", Mapping: "Control+q"}}, f.svc.CurrentRemapping())
}

func TestRestoreRemapping(t *testing.T) {
	var events []*domain.RemapEvent
	f := newFixture(t, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnRemap: func(e *domain.RemapEvent) { events = append(events, e) },
	}))
	f.focus(t, `<div data-phocus-context-name="root"><div data-phocus-context-name="project"><button id="button"></button></div></div>`)

	require.NoError(t, f.svc.RemapAction(f.save, "F2"))
	require.NoError(t, f.svc.RemapAction(f.logout, "F3"))
	snapshot := f.svc.CurrentRemapping()

	require.NoError(t, f.svc.RemapAction(f.save, ""))
	require.NoError(t, f.svc.RemapAction(f.logout, "F4"))
	events = nil

	f.svc.RestoreRemapping(snapshot)
	assert.Equal(t, snapshot, f.svc.CurrentRemapping())
	match, ok := f.svc.ActionForKeypress("F2")
	require.True(t, ok)
	assert.Same(t, f.save, match.Action)

	require.Len(t, events, 2)
	assert.Equal(t, "save", events[0].ActionID)
	assert.Equal(t, "F2", events[0].Mapping)
	assert.Equal(t, "logout", events[1].ActionID)
	assert.Equal(t, "F3", events[1].Mapping)

	events = nil
	f.svc.RestoreRemapping(nil)
	assert.Empty(t, f.svc.CurrentRemapping())
	assert.Len(t, events, 2)
	for _, e := range events {
		assert.True(t, e.Cleared)
	}
}

func TestAddContext(t *testing.T) {
	t.Run("last write wins", func(t *testing.T) {
		f := newFixture(t)
		other := domain.NewAction(domain.ActionOptions{Name: "Other", DefaultKeys: []string{"o"}})
		f.svc.AddContext("root", domain.ContextBlueprint{
			Name:    "Root v2",
			Actions: []domain.ActionEntry{{ID: "other", Action: other}},
		})

		bp, ok := f.svc.Context("root")
		require.True(t, ok)
		assert.Equal(t, "Root v2", bp.Name)
		assert.Equal(t, []string{"project", "root", "opaque"}, f.svc.Contexts())

		// The replaced action is no longer registered anywhere.
		assert.ErrorIs(t, f.svc.RemapAction(f.logout, "x"), domain.ErrActionNotRegistered)
		assert.NoError(t, f.svc.RemapAction(other, "x"))
	})

	t.Run("shared action resolves to the first registered id", func(t *testing.T) {
		f := newFixture(t)
		f.svc.AddContext("alias", domain.ContextBlueprint{
			Actions: []domain.ActionEntry{{ID: "sign-out", Action: f.logout}},
		})

		require.NoError(t, f.svc.RemapAction(f.logout, "Control+q"))
		assert.Equal(t, []domain.Remapping{{Action: "logout", Mapping: "Control+q"}}, f.svc.CurrentRemapping())
	})

	t.Run("duplicate action ids collapse", func(t *testing.T) {
		f := newFixture(t)
		first := domain.NewAction(domain.ActionOptions{Name: "First"})
		second := domain.NewAction(domain.ActionOptions{Name: "Second"})
		f.svc.AddContext("dup", domain.ContextBlueprint{
			Actions: []domain.ActionEntry{{ID: "a", Action: first}, {ID: "b", Action: f.save}, {ID: "a", Action: second}},
		})

		bp, ok := f.svc.Context("dup")
		require.True(t, ok)
		require.Len(t, bp.Actions, 2)
		assert.Same(t, second, bp.Actions[0].Action)
	})

	t.Run("registering a context on the stack republishes it", func(t *testing.T) {
		var events []*domain.ContextEvent
		f := newFixture(t, runtime.WithLifecycleHooks(domain.LifecycleHooks{
			OnContextChange: func(e *domain.ContextEvent) { events = append(events, e) },
		}))
		f.focus(t, `<div data-phocus-context-name="root"><div data-phocus-context-name="ghost"><button id="button"></button></div></div>`)
		require.Len(t, events, 1)
		assert.False(t, events[0].Rebound)

		f.svc.AddContext("unrelated", domain.ContextBlueprint{})
		require.Len(t, events, 1)

		f.svc.AddContext("ghost", domain.ContextBlueprint{Name: "Ghost"})
		require.Len(t, events, 2)
		assert.True(t, events[1].Rebound)
		assert.Len(t, events[1].Stack, 2)
		assert.Empty(t, events[1].Unresolved)

		f.svc.Clear()
		require.Len(t, events, 3)
		assert.Empty(t, events[2].Stack)
		assert.False(t, events[2].Rebound)
	})

	t.Run("action lookup by ids", func(t *testing.T) {
		f := newFixture(t)
		a, ok := f.svc.Action("project", "save")
		require.True(t, ok)
		assert.Same(t, f.save, a)

		_, ok = f.svc.Action("project", "missing")
		assert.False(t, ok)
		_, ok = f.svc.Action("missing", "save")
		assert.False(t, ok)
	})
}

func TestConflicts(t *testing.T) {
	f := newFixture(t)
	f.focus(t, `<div data-phocus-context-name="root"><div data-phocus-context-name="project"><button id="button"></button></div></div>`)

	conflicts := f.svc.Conflicts()
	require.Len(t, conflicts, 1)
	assert.Equal(t, "Control+s", conflicts[0].Chord)
	assert.Same(t, f.save, conflicts[0].Winner.Action)
	require.Len(t, conflicts[0].Shadowed, 1)
	assert.Same(t, f.logout, conflicts[0].Shadowed[0].Action)

	require.NoError(t, f.svc.RemapAction(f.save, "Control+Shift+s"))
	assert.Empty(t, f.svc.Conflicts())
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	f.focus(t, `<div data-phocus-context-name="root"><div data-phocus-context-name="project"><button id="button"></button></div></div>`)

	hits := f.svc.Search("sign")
	require.Len(t, hits, 1)
	assert.Same(t, f.logout, hits[0].Action)

	hits = f.svc.Search("PROJECT")
	require.Len(t, hits, 1)
	assert.Same(t, f.save, hits[0].Action)

	assert.Len(t, f.svc.Search(""), 2)
	assert.Empty(t, f.svc.Search("nothing"))
}

func TestLifecycleHooks(t *testing.T) {
	var contextEvents []*domain.ContextEvent
	var keyEvents []*domain.KeypressEvent
	var remapEvents []*domain.RemapEvent

	f := newFixture(t, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnContextChange: func(e *domain.ContextEvent) { contextEvents = append(contextEvents, e) },
		OnKeypress:      func(e *domain.KeypressEvent) { keyEvents = append(keyEvents, e) },
		OnRemap:         func(e *domain.RemapEvent) { remapEvents = append(remapEvents, e) },
	}))

	f.focus(t, `<div data-phocus-context-name="root"><div data-phocus-context-name="ghost"><button id="button"></button></div></div>`)
	require.Len(t, contextEvents, 1)
	assert.Equal(t, domain.EventContextChange, contextEvents[0].Type)
	assert.Len(t, contextEvents[0].Stack, 2)
	assert.Equal(t, []string{"ghost"}, contextEvents[0].Unresolved)

	f.svc.ActionForKeypress("Control+o")
	f.svc.ActionForKeypress("F13")
	require.Len(t, keyEvents, 2)
	assert.True(t, keyEvents[0].Matched)
	assert.Equal(t, "logout", keyEvents[0].ActionID)
	assert.Equal(t, "root", keyEvents[0].Context)
	assert.False(t, keyEvents[1].Matched)

	require.NoError(t, f.svc.RemapAction(f.logout, "Control+q"))
	require.NoError(t, f.svc.RemapAction(f.logout, ""))
	require.Len(t, remapEvents, 2)
	assert.False(t, remapEvents[0].Cleared)
	assert.Equal(t, "Control+q", remapEvents[0].Mapping)
	assert.True(t, remapEvents[1].Cleared)
}
