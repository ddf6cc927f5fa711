// Package mcp exposes an engine as a Model Context Protocol server, so agents
// can inspect the shortcuts in scope and drive focus and keypresses.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/phocus"
	"github.com/aretw0/phocus/internal/logging"
	"github.com/aretw0/phocus/pkg/adapters/html"
	"github.com/aretw0/phocus/pkg/adapters/memory"
	"github.com/aretw0/phocus/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"
)

// Engine defines the subset of the phocus engine exposed to agents.
type Engine interface {
	Contexts() []string
	Context(id string) (domain.ContextBlueprint, bool)
	Action(contextID, actionID string) (*domain.Action, bool)
	SetContext(el domain.Element)
	ContextStack() []domain.ContextStackEntry
	UnresolvedContexts() []string
	AvailableActions() []domain.ActionInContext
	ActionForKeypress(chord string) (domain.ActionInContext, bool)
	EffectiveKeys(a *domain.Action) []string
	Search(query string) []domain.ActionInContext
	CurrentRemapping() []domain.Remapping
	RemapAction(ctx context.Context, a *domain.Action, chord string) error
}

// FocusResponse describes the context stack after a focus change.
type FocusResponse struct {
	Stack      []domain.ContextStackEntry `json:"stack" jsonschema_description:"Context stack, innermost first"`
	Unresolved []string                   `json:"unresolved" jsonschema_description:"Stack contexts with no registered blueprint"`
}

// ActionsResponse lists actions with their effective keys.
type ActionsResponse struct {
	Actions []domain.ActionSummary `json:"actions" jsonschema_description:"Actions in scope, innermost context first"`
}

// KeypressResponse reports a chord lookup.
type KeypressResponse struct {
	Matched    bool                  `json:"matched" jsonschema_description:"Whether an action is bound to the chord"`
	Dispatched bool                  `json:"dispatched" jsonschema_description:"Whether the action was invoked"`
	Action     *domain.ActionSummary `json:"action,omitempty" jsonschema_description:"The matched action"`
}

// RemappingsResponse lists the active overrides.
type RemappingsResponse struct {
	Remappings []domain.Remapping `json:"remappings" jsonschema_description:"Overrides, most recently set last"`
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance. A nil logger discards output.
func NewServer(engine Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("phocus-mcp", phocus.Version),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{Addr: addr, Handler: mux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_contexts",
		mcp.WithDescription("List every registered context with its actions and their effective keys."),
	), s.handleListContexts)

	s.mcpServer.AddTool(mcp.NewTool("get_focus",
		mcp.WithDescription("Get the current context stack."),
		mcp.WithOutputSchema[FocusResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetFocus))

	s.mcpServer.AddTool(mcp.NewTool("set_focus",
		mcp.WithDescription("Move focus. Provide either a marker path or an HTML document with the id of the focused element."),
		mcp.WithString("path", mcp.Description(`JSON array of markers, outermost first, e.g. [{"context":"root"},{},{"context":"editor","argument":"a.txt","has_argument":true}]`)),
		mcp.WithString("html", mcp.Description("HTML document carrying data-phocus-context-name attributes")),
		mcp.WithString("element_id", mcp.Description("Id of the focused element in html")),
		mcp.WithOutputSchema[FocusResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetFocus))

	s.mcpServer.AddTool(mcp.NewTool("list_actions",
		mcp.WithDescription("List the actions available in the current focus, optionally filtered by a search query."),
		mcp.WithString("query", mcp.Description("Case-insensitive search over names, documentation and search terms")),
		mcp.WithOutputSchema[ActionsResponse](),
	), mcp.NewStructuredToolHandler(s.handleListActions))

	s.mcpServer.AddTool(mcp.NewTool("action_for_keypress",
		mcp.WithDescription("Resolve a chord such as Control+s against the current focus."),
		mcp.WithString("chord", mcp.Required(), mcp.Description("The key chord")),
		mcp.WithBoolean("dispatch", mcp.Description("Invoke the matched action")),
		mcp.WithOutputSchema[KeypressResponse](),
	), mcp.NewStructuredToolHandler(s.handleKeypress))

	s.mcpServer.AddTool(mcp.NewTool("remap_action",
		mcp.WithDescription("Bind an action to a single chord. An empty mapping reverts to the default keys."),
		mcp.WithString("context", mcp.Required(), mcp.Description("Context id the action is registered in")),
		mcp.WithString("action", mcp.Required(), mcp.Description("Action id")),
		mcp.WithString("mapping", mcp.Description("New chord, or empty to clear")),
		mcp.WithOutputSchema[RemappingsResponse](),
	), mcp.NewStructuredToolHandler(s.handleRemap))

	s.mcpServer.AddTool(mcp.NewTool("list_remappings",
		mcp.WithDescription("List the active remappings."),
		mcp.WithOutputSchema[RemappingsResponse](),
	), mcp.NewStructuredToolHandler(s.handleListRemappings))
}

func (s *Server) handleListContexts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(s.contexts())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGetFocus(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (FocusResponse, error) {
	return s.focus(), nil
}

func (s *Server) handleSetFocus(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (FocusResponse, error) {
	pathStr, _ := args["path"].(string)
	htmlStr, _ := args["html"].(string)
	elementID, _ := args["element_id"].(string)

	var el domain.Element
	switch {
	case htmlStr != "":
		doc, err := html.ParseString(htmlStr)
		if err != nil {
			return FocusResponse{}, err
		}
		found, ok := doc.GetElementByID(elementID)
		if !ok {
			return FocusResponse{}, fmt.Errorf("element %q not found", elementID)
		}
		el = found
	case pathStr != "":
		var path []domain.Marker
		if err := json.Unmarshal([]byte(pathStr), &path); err != nil {
			return FocusResponse{}, fmt.Errorf("invalid path: %w", err)
		}
		if leaf := memory.FromPath(path); leaf != nil {
			el = leaf
		}
	}

	s.engine.SetContext(el)
	return s.focus(), nil
}

func (s *Server) handleListActions(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ActionsResponse, error) {
	var actions []domain.ActionInContext
	if query, _ := args["query"].(string); query != "" {
		actions = s.engine.Search(query)
	} else {
		actions = s.engine.AvailableActions()
	}

	resp := ActionsResponse{Actions: make([]domain.ActionSummary, 0, len(actions))}
	for _, a := range actions {
		resp.Actions = append(resp.Actions, domain.Summarize(a, s.engine.EffectiveKeys(a.Action)))
	}
	return resp, nil
}

func (s *Server) handleKeypress(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (KeypressResponse, error) {
	chord, _ := args["chord"].(string)
	if chord == "" {
		return KeypressResponse{}, errors.New("chord is required")
	}
	dispatch, _ := args["dispatch"].(bool)

	match, ok := s.engine.ActionForKeypress(chord)
	if !ok {
		return KeypressResponse{}, nil
	}

	summary := domain.Summarize(match, s.engine.EffectiveKeys(match.Action))
	resp := KeypressResponse{Matched: true, Action: &summary}
	if dispatch {
		match.Action.ActOn()
		resp.Dispatched = true
	}
	return resp, nil
}

func (s *Server) handleRemap(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RemappingsResponse, error) {
	contextID, _ := args["context"].(string)
	actionID, _ := args["action"].(string)
	mapping, _ := args["mapping"].(string)

	a, ok := s.engine.Action(contextID, actionID)
	if !ok {
		return RemappingsResponse{}, fmt.Errorf("action %q not found in context %q", actionID, contextID)
	}
	if err := s.engine.RemapAction(ctx, a, mapping); err != nil {
		s.logger.Error("MCP Remap failed", "context", contextID, "action", actionID, "err", err)
		return RemappingsResponse{}, fmt.Errorf("remap failed: %w", err)
	}
	return s.remappings(), nil
}

func (s *Server) handleListRemappings(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RemappingsResponse, error) {
	return s.remappings(), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("phocus://contexts", "Registered Contexts",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.contexts())
		if err != nil {
			return nil, fmt.Errorf("failed to encode contexts: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "phocus://contexts",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource("phocus://remappings", "Active Remappings",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.remappings())
		if err != nil {
			return nil, fmt.Errorf("failed to encode remappings: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "phocus://remappings",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func (s *Server) contexts() []domain.ContextSummary {
	ids := s.engine.Contexts()
	out := make([]domain.ContextSummary, 0, len(ids))
	for _, id := range ids {
		bp, _ := s.engine.Context(id)
		out = append(out, domain.SummarizeContext(id, bp, s.engine.EffectiveKeys))
	}
	return out
}

func (s *Server) focus() FocusResponse {
	unresolved := s.engine.UnresolvedContexts()
	if unresolved == nil {
		unresolved = []string{}
	}
	return FocusResponse{Stack: s.engine.ContextStack(), Unresolved: unresolved}
}

func (s *Server) remappings() RemappingsResponse {
	return RemappingsResponse{Remappings: s.engine.CurrentRemapping()}
}
