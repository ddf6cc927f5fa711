package ports

import (
	"context"

	"github.com/aretw0/phocus/pkg/domain"
)

// RemappingStore defines the interface for persisting remapping profiles.
// A profile holds the export of CurrentRemapping, in order, so it can be
// replayed at startup.
type RemappingStore interface {
	// Save persists the remappings for a given profile, replacing any previous set.
	Save(ctx context.Context, profile string, remappings []domain.Remapping) error

	// Load retrieves the remappings for a given profile.
	// Returns domain.ErrProfileNotFound if the profile does not exist.
	Load(ctx context.Context, profile string) ([]domain.Remapping, error)

	// Delete removes the profile. Deleting a missing profile is not an error.
	Delete(ctx context.Context, profile string) error

	// List returns the stored profile names.
	List(ctx context.Context) ([]string, error)
}
