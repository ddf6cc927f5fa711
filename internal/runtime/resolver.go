package runtime

import "github.com/aretw0/phocus/pkg/domain"

// buildStack walks from el (inclusive) to the root and returns one entry per
// marked element, innermost first. Unmarked elements are skipped.
func buildStack(el domain.Element) []domain.ContextStackEntry {
	stack := make([]domain.ContextStackEntry, 0)
	for cur := el; cur != nil; cur = cur.Parent() {
		marker, ok := cur.ContextMarker()
		if !ok || marker.Context == "" {
			continue
		}
		stack = append(stack, domain.ContextStackEntry{
			Context:     marker.Context,
			Argument:    marker.Argument,
			HasArgument: marker.HasArgument,
			Element:     cur,
		})
	}
	return stack
}
