package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/phocus/pkg/domain"
)

// Store implements ports.RemappingStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string][]domain.Remapping
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]domain.Remapping),
	}
}

// Save persists the remappings in memory.
func (s *Store) Save(ctx context.Context, profile string, remappings []domain.Remapping) error {
	// Copy to ensure isolation, similar to serialization
	copied := make([]domain.Remapping, len(remappings))
	copy(copied, remappings)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[profile] = copied
	return nil
}

// Load retrieves the remappings from memory.
func (s *Store) Load(ctx context.Context, profile string) ([]domain.Remapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	remaps, ok := s.data[profile]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}

	// Copy on read so caller can't mutate store state
	out := make([]domain.Remapping, len(remaps))
	copy(out, remaps)
	return out, nil
}

// Delete removes the profile.
func (s *Store) Delete(ctx context.Context, profile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, profile)
	return nil
}

// List returns stored profiles, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := make([]string, 0, len(s.data))
	for id := range s.data {
		profiles = append(profiles, id)
	}
	sort.Strings(profiles)
	return profiles, nil
}
