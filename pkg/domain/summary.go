package domain

// ActionSummary is a serializable view of an action as seen from a context.
type ActionSummary struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	ShortDocumentation string   `json:"short_documentation,omitempty"`
	Keys               []string `json:"keys"`
	Context            string   `json:"context"`
	Argument           string   `json:"argument,omitempty"`
	HasArgument        bool     `json:"has_argument,omitempty"`
}

// Summarize describes a with its effective keys.
func Summarize(a ActionInContext, keys []string) ActionSummary {
	if keys == nil {
		keys = []string{}
	}
	return ActionSummary{
		ID:                 a.ActionID,
		Name:               a.Action.Name(),
		ShortDocumentation: a.Action.ShortDocumentation(),
		Keys:               keys,
		Context:            a.Entry.Context,
		Argument:           a.Entry.Argument,
		HasArgument:        a.Entry.HasArgument,
	}
}

// ContextSummary is a serializable view of a registered blueprint.
type ContextSummary struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Documentation string          `json:"documentation,omitempty"`
	Opaque        bool            `json:"opaque"`
	Actions       []ActionSummary `json:"actions"`
}

// SummarizeContext describes the blueprint registered under id. keys reports
// the effective keys of each action.
func SummarizeContext(id string, bp ContextBlueprint, keys func(*Action) []string) ContextSummary {
	cs := ContextSummary{
		ID:            id,
		Name:          bp.Name,
		Documentation: bp.Documentation,
		Opaque:        bp.Opaque,
		Actions:       make([]ActionSummary, 0, len(bp.Actions)),
	}
	for _, entry := range bp.Actions {
		in := ActionInContext{Action: entry.Action, ActionID: entry.ID, Entry: ContextStackEntry{Context: id}}
		cs.Actions = append(cs.Actions, Summarize(in, keys(entry.Action)))
	}
	return cs
}
