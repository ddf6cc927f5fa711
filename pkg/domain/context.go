package domain

// ActionEntry attaches an Action to a blueprint under an action id.
type ActionEntry struct {
	ID     string
	Action *Action
}

// ContextBlueprint is a reusable bundle of actions registered under a context id.
// The registry id may differ from Name.
type ContextBlueprint struct {
	Name          string
	Documentation string

	// Opaque stops aggregation at this context: no outer context contributes
	// actions or bindings while it is on the stack.
	Opaque bool

	// Actions is ordered; ids are unique within the blueprint.
	Actions []ActionEntry
}

// NamedBlueprint pairs a blueprint with the id it is registered under.
// Loaders return these.
type NamedBlueprint struct {
	ID        string
	Blueprint ContextBlueprint
}

// ContextStackEntry is one active context for the focused element.
type ContextStackEntry struct {
	Context     string `json:"context"`
	Argument    string `json:"argument,omitempty"`
	HasArgument bool   `json:"has_argument"`

	// Element is the element that produced the entry. It is a non-owning
	// reference and is never serialized.
	Element Element `json:"-"`
}

// ActionInContext pairs an available action with the stack entry it was found under.
type ActionInContext struct {
	Action   *Action
	ActionID string
	Entry    ContextStackEntry
}

// Conflict describes a chord claimed by several available actions.
// Winner is the innermost claimant; Shadowed are unreachable while the stack is active.
type Conflict struct {
	Chord    string
	Winner   ActionInContext
	Shadowed []ActionInContext
}
