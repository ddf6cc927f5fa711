package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/phocus/pkg/domain"
)

// Loader implements ports.BlueprintLoader over blueprints held in memory.
type Loader struct {
	blueprints []domain.NamedBlueprint
}

// NewLoader creates a Loader returning blueprints in the given order.
func NewLoader(blueprints ...domain.NamedBlueprint) *Loader {
	return &Loader{blueprints: blueprints}
}

// Add appends a blueprint. It is not safe to call concurrently with LoadBlueprints.
func (l *Loader) Add(id string, bp domain.ContextBlueprint) {
	l.blueprints = append(l.blueprints, domain.NamedBlueprint{ID: id, Blueprint: bp})
}

// LoadBlueprints returns the held blueprints.
func (l *Loader) LoadBlueprints(ctx context.Context) ([]domain.NamedBlueprint, error) {
	out := make([]domain.NamedBlueprint, 0, len(l.blueprints))
	for _, nb := range l.blueprints {
		if nb.ID == "" {
			return nil, fmt.Errorf("blueprint %q missing id", nb.Blueprint.Name)
		}
		out = append(out, nb)
	}
	return out, nil
}
