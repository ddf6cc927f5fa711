package memory

import "github.com/aretw0/phocus/pkg/domain"

// Element is a static UI tree node implementing domain.Element.
// It is useful for tests and for transports that describe the focus path directly.
type Element struct {
	marker *domain.Marker
	parent *Element
}

// NewElement creates an unmarked element under parent (nil for a root).
func NewElement(parent *Element) *Element {
	return &Element{parent: parent}
}

// WithContext marks the element as a boundary of context and returns it.
func (e *Element) WithContext(context string) *Element {
	e.marker = &domain.Marker{Context: context}
	return e
}

// WithArgument sets the argument marker. It has no effect on an unmarked element.
func (e *Element) WithArgument(arg string) *Element {
	if e.marker != nil {
		e.marker.Argument = arg
		e.marker.HasArgument = true
	}
	return e
}

// ContextMarker implements domain.Element.
func (e *Element) ContextMarker() (domain.Marker, bool) {
	if e == nil || e.marker == nil {
		return domain.Marker{}, false
	}
	return *e.marker, true
}

// Parent implements domain.Element.
func (e *Element) Parent() domain.Element {
	if e == nil || e.parent == nil {
		return nil
	}
	return e.parent
}

// FromPath builds a chain from markers ordered outermost first and returns the
// innermost element. A marker with an empty Context yields an unmarked element.
// An empty path returns nil.
func FromPath(markers []domain.Marker) *Element {
	var cur *Element
	for _, m := range markers {
		cur = NewElement(cur)
		if m.Context == "" {
			continue
		}
		cur.WithContext(m.Context)
		if m.HasArgument {
			cur.WithArgument(m.Argument)
		}
	}
	return cur
}
