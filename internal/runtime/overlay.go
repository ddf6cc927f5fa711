package runtime

import "github.com/aretw0/phocus/pkg/domain"

// remappingOverlay holds at most one chord override per action id.
// order lists ids by when their override was last established.
type remappingOverlay struct {
	order    []string
	mappings map[string]string
}

func newRemappingOverlay() *remappingOverlay {
	return &remappingOverlay{mappings: make(map[string]string)}
}

func (o *remappingOverlay) set(actionID, chord string) {
	o.remove(actionID)
	o.mappings[actionID] = chord
	o.order = append(o.order, actionID)
}

func (o *remappingOverlay) remove(actionID string) {
	if _, ok := o.mappings[actionID]; !ok {
		return
	}
	delete(o.mappings, actionID)
	for i, id := range o.order {
		if id == actionID {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

func (o *remappingOverlay) lookup(actionID string) (string, bool) {
	chord, ok := o.mappings[actionID]
	return chord, ok
}

func (o *remappingOverlay) export() []domain.Remapping {
	out := make([]domain.Remapping, 0, len(o.order))
	for _, id := range o.order {
		out = append(out, domain.Remapping{Action: id, Mapping: o.mappings[id]})
	}
	return out
}
