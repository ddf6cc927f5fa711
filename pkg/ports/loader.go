package ports

import (
	"context"

	"github.com/aretw0/phocus/pkg/domain"
)

// BlueprintLoader defines how context blueprints are discovered.
// This allows the catalog source (YAML, Loam, Memory) to be decoupled.
type BlueprintLoader interface {
	// LoadBlueprints returns the blueprints to register, in registration order.
	LoadBlueprints(ctx context.Context) ([]domain.NamedBlueprint, error)
}
