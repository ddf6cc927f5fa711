package runtime

import "github.com/aretw0/phocus/pkg/domain"

// contextRegistry maps context ids to blueprints, keeping registration order.
// It also indexes action pointers to the id they were first registered under.
type contextRegistry struct {
	order      []string
	blueprints map[string]domain.ContextBlueprint
	actionIDs  map[*domain.Action]string
}

func newContextRegistry() *contextRegistry {
	return &contextRegistry{
		blueprints: make(map[string]domain.ContextBlueprint),
		actionIDs:  make(map[*domain.Action]string),
	}
}

// add inserts or overwrites a blueprint. An overwritten id keeps its position.
func (r *contextRegistry) add(id string, bp domain.ContextBlueprint) {
	bp.Actions = dedupeActions(bp.Actions)

	_, exists := r.blueprints[id]
	r.blueprints[id] = bp
	if !exists {
		r.order = append(r.order, id)
		for _, entry := range bp.Actions {
			if _, seen := r.actionIDs[entry.Action]; !seen && entry.Action != nil {
				r.actionIDs[entry.Action] = entry.ID
			}
		}
		return
	}

	// An overwrite can drop actions or move them earlier in the search order.
	r.reindex()
}

func (r *contextRegistry) reindex() {
	r.actionIDs = make(map[*domain.Action]string)
	for _, id := range r.order {
		for _, entry := range r.blueprints[id].Actions {
			if _, seen := r.actionIDs[entry.Action]; !seen && entry.Action != nil {
				r.actionIDs[entry.Action] = entry.ID
			}
		}
	}
}

func (r *contextRegistry) lookup(id string) (domain.ContextBlueprint, bool) {
	bp, ok := r.blueprints[id]
	return bp, ok
}

// actionID resolves the id of an action by identity.
func (r *contextRegistry) actionID(a *domain.Action) (string, bool) {
	id, ok := r.actionIDs[a]
	return id, ok
}

func (r *contextRegistry) ids() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// dedupeActions collapses repeated ids to the last action at the first position.
func dedupeActions(entries []domain.ActionEntry) []domain.ActionEntry {
	pos := make(map[string]int, len(entries))
	out := make([]domain.ActionEntry, 0, len(entries))
	for _, e := range entries {
		if i, ok := pos[e.ID]; ok {
			out[i] = e
			continue
		}
		pos[e.ID] = len(out)
		out = append(out, e)
	}
	return out
}
