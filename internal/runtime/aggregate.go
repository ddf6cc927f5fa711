package runtime

import "github.com/aretw0/phocus/pkg/domain"

// aggregate collects actions from stack innermost first. It stops after the
// first opaque blueprint. Unregistered contexts contribute nothing and are
// never treated as opaque.
func aggregate(stack []domain.ContextStackEntry, reg *contextRegistry) []domain.ActionInContext {
	actions := make([]domain.ActionInContext, 0)
	for _, entry := range stack {
		bp, ok := reg.lookup(entry.Context)
		if !ok {
			continue
		}
		for _, a := range bp.Actions {
			actions = append(actions, domain.ActionInContext{
				Action:   a.Action,
				ActionID: a.ID,
				Entry:    entry,
			})
		}
		if bp.Opaque {
			break
		}
	}
	return actions
}
