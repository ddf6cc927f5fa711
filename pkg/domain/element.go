package domain

// Attribute names of the UI tree contract. An element becomes a context
// boundary by carrying AttrContextName; AttrContextArgument is optional.
const (
	AttrContextName     = "data-phocus-context-name"
	AttrContextArgument = "data-phocus-context-argument"
)

// Marker is the context declaration carried by an element.
type Marker struct {
	Context     string `json:"context,omitempty"`
	Argument    string `json:"argument,omitempty"`
	HasArgument bool   `json:"has_argument,omitempty"`
}

// Element is the capability the resolver needs from a UI tree node.
// Implementations must return an untyped nil from Parent at the root.
type Element interface {
	// ContextMarker returns the marker carried by the element, if any.
	ContextMarker() (Marker, bool)

	// Parent returns the enclosing element, or nil at the root.
	Parent() Element
}
