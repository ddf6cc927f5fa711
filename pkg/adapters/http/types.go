package http

import "github.com/aretw0/phocus/pkg/domain"

// FocusRequest is the body of PUT /focus. Path lists markers outermost first;
// a zero marker stands for an unmarked element. HTML and ElementID take
// precedence when set. An empty body clears the stack.
type FocusRequest struct {
	Path      []domain.Marker `json:"path,omitempty"`
	HTML      string          `json:"html,omitempty"`
	ElementID string          `json:"element_id,omitempty"`
}

// FocusView describes the current context stack.
type FocusView struct {
	Stack      []domain.ContextStackEntry `json:"stack"`
	Unresolved []string                   `json:"unresolved"`
}

// ConflictView reports a chord claimed by several available actions.
type ConflictView struct {
	Chord    string                 `json:"chord"`
	Winner   domain.ActionSummary   `json:"winner"`
	Shadowed []domain.ActionSummary `json:"shadowed"`
}

// KeypressRequest is the body of POST /keypress. With Dispatch set the matched
// action is invoked.
type KeypressRequest struct {
	Chord    string `json:"chord"`
	Dispatch bool   `json:"dispatch,omitempty"`
}

// KeypressResponse reports the lookup result.
type KeypressResponse struct {
	Matched    bool                  `json:"matched"`
	Dispatched bool                  `json:"dispatched,omitempty"`
	Action     *domain.ActionSummary `json:"action,omitempty"`
}

// MappingRequest is the body of PUT .../mapping.
type MappingRequest struct {
	Mapping string `json:"mapping"`
}
