package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/phocus"
	"github.com/aretw0/phocus/pkg/adapters/memory"
	"github.com/aretw0/phocus/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *phocus.Engine, *int) {
	t.Helper()

	saved := 0
	eng, err := phocus.New("", phocus.WithRemappingStore(memory.NewStore(), ""))
	require.NoError(t, err)

	eng.AddContext("root", domain.ContextBlueprint{
		Name: "Root",
		Actions: []domain.ActionEntry{{ID: "logout", Action: domain.NewAction(domain.ActionOptions{
			Name:        "Log out",
			DefaultKeys: []string{"Control+s", "Control+o"},
		})}},
	})
	eng.AddContext("project", domain.ContextBlueprint{
		Name: "Project",
		Actions: []domain.ActionEntry{{ID: "save", Action: domain.NewAction(domain.ActionOptions{
			Name:        "Save",
			DefaultKeys: []string{"Control+s"},
			SearchTerms: []string{"write"},
			ActOn:       func() { saved++ },
		})}},
	})

	return NewServer(eng, nil), eng, &saved
}

func TestSetFocus(t *testing.T) {
	s, _, _ := newTestServer(t)
	ctx := context.Background()

	t.Run("path", func(t *testing.T) {
		resp, err := s.handleSetFocus(ctx, mcp.CallToolRequest{}, map[string]interface{}{
			"path": `[{"context":"root"},{},{"context":"project","argument":"a","has_argument":true}]`,
		})
		require.NoError(t, err)
		require.Len(t, resp.Stack, 2)
		assert.Equal(t, "project", resp.Stack[0].Context)
		assert.Equal(t, "a", resp.Stack[0].Argument)
		assert.Empty(t, resp.Unresolved)
	})

	t.Run("html", func(t *testing.T) {
		resp, err := s.handleSetFocus(ctx, mcp.CallToolRequest{}, map[string]interface{}{
			"html":       `<div data-phocus-context-name="missing"><b id="x"></b></div>`,
			"element_id": "x",
		})
		require.NoError(t, err)
		require.Len(t, resp.Stack, 1)
		assert.Equal(t, []string{"missing"}, resp.Unresolved)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := s.handleSetFocus(ctx, mcp.CallToolRequest{}, map[string]interface{}{"path": "{"})
		assert.Error(t, err)
		_, err = s.handleSetFocus(ctx, mcp.CallToolRequest{}, map[string]interface{}{"html": "<p></p>", "element_id": "x"})
		assert.Error(t, err)
	})

	t.Run("empty clears", func(t *testing.T) {
		resp, err := s.handleSetFocus(ctx, mcp.CallToolRequest{}, map[string]interface{}{})
		require.NoError(t, err)
		assert.Empty(t, resp.Stack)

		focus, err := s.handleGetFocus(ctx, mcp.CallToolRequest{}, nil)
		require.NoError(t, err)
		assert.Empty(t, focus.Stack)
	})
}

func TestKeypressAndActions(t *testing.T) {
	s, eng, saved := newTestServer(t)
	ctx := context.Background()
	eng.SetContext(memory.FromPath([]domain.Marker{{Context: "root"}, {Context: "project"}}))

	actions, err := s.handleListActions(ctx, mcp.CallToolRequest{}, map[string]interface{}{})
	require.NoError(t, err)
	require.Len(t, actions.Actions, 2)
	assert.Equal(t, "save", actions.Actions[0].ID)

	found, err := s.handleListActions(ctx, mcp.CallToolRequest{}, map[string]interface{}{"query": "WRITE"})
	require.NoError(t, err)
	require.Len(t, found.Actions, 1)

	resp, err := s.handleKeypress(ctx, mcp.CallToolRequest{}, map[string]interface{}{"chord": "Control+s", "dispatch": true})
	require.NoError(t, err)
	assert.True(t, resp.Matched)
	assert.True(t, resp.Dispatched)
	assert.Equal(t, "save", resp.Action.ID)
	assert.Equal(t, 1, *saved)

	resp, err = s.handleKeypress(ctx, mcp.CallToolRequest{}, map[string]interface{}{"chord": "F13"})
	require.NoError(t, err)
	assert.False(t, resp.Matched)

	_, err = s.handleKeypress(ctx, mcp.CallToolRequest{}, map[string]interface{}{})
	assert.Error(t, err)
}

func TestRemap(t *testing.T) {
	s, _, _ := newTestServer(t)
	ctx := context.Background()

	resp, err := s.handleRemap(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"context": "project", "action": "save", "mapping": "F2",
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.Remapping{{Action: "save", Mapping: "F2"}}, resp.Remappings)

	listed, err := s.handleListRemappings(ctx, mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Len(t, listed.Remappings, 1)

	_, err = s.handleRemap(ctx, mcp.CallToolRequest{}, map[string]interface{}{"context": "project", "action": "nope"})
	assert.Error(t, err)

	resp, err = s.handleRemap(ctx, mcp.CallToolRequest{}, map[string]interface{}{"context": "project", "action": "save"})
	require.NoError(t, err)
	assert.Empty(t, resp.Remappings)
}

func TestListContexts(t *testing.T) {
	s, _, _ := newTestServer(t)

	result, err := s.handleListContexts(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)

	var contexts []domain.ContextSummary
	require.NoError(t, json.Unmarshal([]byte(text.Text), &contexts))
	require.Len(t, contexts, 2)
	assert.Equal(t, "root", contexts[0].ID)
	assert.Equal(t, []string{"Control+s", "Control+o"}, contexts[0].Actions[0].Keys)
}
