// Package http exposes an engine over a JSON HTTP API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/phocus/internal/logging"
	"github.com/aretw0/phocus/pkg/adapters/html"
	"github.com/aretw0/phocus/pkg/adapters/memory"
	"github.com/aretw0/phocus/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine defines the subset of the phocus engine served over HTTP.
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
	Conflicts() []domain.Conflict
	Search(query string) []domain.ActionInContext
	CurrentRemapping() []domain.Remapping
	RemapAction(ctx context.Context, a *domain.Action, chord string) error
}

// Server serves the engine API.
type Server struct {
	Engine   Engine
	Streams  *StreamManager
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithStreams enables GET /events using sm. The stream only carries events if
// sm.Hooks() was installed on the engine.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithMetrics enables GET /metrics for g.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	server := &Server{Engine: engine, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/contexts", server.ListContexts)
	r.Get("/contexts/{context}", server.GetContext)
	r.Put("/contexts/{context}/actions/{action}/mapping", server.PutMapping)
	r.Delete("/contexts/{context}/actions/{action}/mapping", server.DeleteMapping)
	r.Get("/focus", server.GetFocus)
	r.Put("/focus", server.PutFocus)
	r.Get("/actions", server.ListActions)
	r.Post("/keypress", server.Keypress)
	r.Get("/conflicts", server.ListConflicts)
	r.Get("/remappings", server.ListRemappings)

	if server.Streams != nil {
		r.Get("/events", server.SubscribeEvents)
	}
	if server.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListContexts handles the GET /contexts request.
func (s *Server) ListContexts(w http.ResponseWriter, r *http.Request) {
	ids := s.Engine.Contexts()
	resp := make([]domain.ContextSummary, 0, len(ids))
	for _, id := range ids {
		bp, _ := s.Engine.Context(id)
		resp = append(resp, s.contextView(id, bp))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// GetContext handles the GET /contexts/{context} request.
func (s *Server) GetContext(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "context")
	bp, ok := s.Engine.Context(id)
	if !ok {
		http.Error(w, fmt.Sprintf("context %q not found", id), http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, s.contextView(id, bp))
}

// GetFocus handles the GET /focus request.
func (s *Server) GetFocus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.focusView())
}

// PutFocus handles the PUT /focus request. The body carries either a marker
// path, outermost first, or an HTML document and the id of the focused element.
func (s *Server) PutFocus(w http.ResponseWriter, r *http.Request) {
	var body FocusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PutFocus: Invalid request body", "err", err)
		return
	}

	el, err := body.element()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.Engine.SetContext(el)
	s.writeJSON(w, http.StatusOK, s.focusView())
}

// ListActions handles the GET /actions request. The optional q parameter
// filters by name, documentation and search terms.
func (s *Server) ListActions(w http.ResponseWriter, r *http.Request) {
	var actions []domain.ActionInContext
	if q := r.URL.Query().Get("q"); q != "" {
		actions = s.Engine.Search(q)
	} else {
		actions = s.Engine.AvailableActions()
	}

	resp := make([]domain.ActionSummary, 0, len(actions))
	for _, a := range actions {
		resp = append(resp, s.actionView(a))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// Keypress handles the POST /keypress request.
func (s *Server) Keypress(w http.ResponseWriter, r *http.Request) {
	var body KeypressRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Chord == "" {
		http.Error(w, "Invalid request body: chord is required", http.StatusBadRequest)
		return
	}

	resp := KeypressResponse{}
	match, ok := s.Engine.ActionForKeypress(body.Chord)
	if ok {
		view := s.actionView(match)
		resp.Matched = true
		resp.Action = &view
		if body.Dispatch {
			match.Action.ActOn()
			resp.Dispatched = true
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// ListConflicts handles the GET /conflicts request.
func (s *Server) ListConflicts(w http.ResponseWriter, r *http.Request) {
	conflicts := s.Engine.Conflicts()
	resp := make([]ConflictView, 0, len(conflicts))
	for _, c := range conflicts {
		view := ConflictView{Chord: c.Chord, Winner: s.actionView(c.Winner)}
		for _, sh := range c.Shadowed {
			view.Shadowed = append(view.Shadowed, s.actionView(sh))
		}
		resp = append(resp, view)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// ListRemappings handles the GET /remappings request.
func (s *Server) ListRemappings(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.CurrentRemapping())
}

// PutMapping handles the PUT /contexts/{context}/actions/{action}/mapping request.
func (s *Server) PutMapping(w http.ResponseWriter, r *http.Request) {
	var body MappingRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.remap(w, r, body.Mapping)
}

// DeleteMapping handles the DELETE /contexts/{context}/actions/{action}/mapping request.
func (s *Server) DeleteMapping(w http.ResponseWriter, r *http.Request) {
	s.remap(w, r, "")
}

func (s *Server) remap(w http.ResponseWriter, r *http.Request, chord string) {
	contextID, actionID := chi.URLParam(r, "context"), chi.URLParam(r, "action")
	a, ok := s.Engine.Action(contextID, actionID)
	if !ok {
		http.Error(w, fmt.Sprintf("action %q not found in context %q", actionID, contextID), http.StatusNotFound)
		return
	}

	if err := s.Engine.RemapAction(r.Context(), a, chord); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrActionNotRegistered) {
			status = http.StatusNotFound
		}
		http.Error(w, fmt.Sprintf("Remap error: %v", err), status)
		s.logger.Error("Remap failed", "context", contextID, "action", actionID, "err", err)
		return
	}

	s.writeJSON(w, http.StatusOK, s.Engine.CurrentRemapping())
}

// SubscribeEvents handles the GET /events request (SSE). The optional type
// parameter is a comma separated list of event types to keep.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	var filter map[domain.EventType]bool
	if raw := r.URL.Query().Get("type"); raw != "" {
		filter = make(map[domain.EventType]bool)
		for _, t := range strings.Split(raw, ",") {
			filter[domain.EventType(strings.TrimSpace(t))] = true
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if filter != nil && !filter[msg.Type] {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Type, msg.Data)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) focusView() FocusView {
	unresolved := s.Engine.UnresolvedContexts()
	if unresolved == nil {
		unresolved = []string{}
	}
	return FocusView{Stack: s.Engine.ContextStack(), Unresolved: unresolved}
}

func (s *Server) actionView(a domain.ActionInContext) domain.ActionSummary {
	return domain.Summarize(a, s.Engine.EffectiveKeys(a.Action))
}

func (s *Server) contextView(id string, bp domain.ContextBlueprint) domain.ContextSummary {
	return domain.SummarizeContext(id, bp, s.Engine.EffectiveKeys)
}

func (b FocusRequest) element() (domain.Element, error) {
	if b.HTML != "" {
		if b.ElementID == "" {
			return nil, errors.New("element_id is required with html")
		}
		doc, err := html.ParseString(b.HTML)
		if err != nil {
			return nil, err
		}
		el, ok := doc.GetElementByID(b.ElementID)
		if !ok {
			return nil, fmt.Errorf("element %q not found", b.ElementID)
		}
		return el, nil
	}

	leaf := memory.FromPath(b.Path)
	if leaf == nil {
		return nil, nil
	}
	return leaf, nil
}
