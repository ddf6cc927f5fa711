// Package loam loads context blueprints from a Loam document repository.
// Each document describes one context: frontmatter carries the name, opacity
// and actions, the body carries the documentation.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/phocus/pkg/catalog"
	"github.com/aretw0/phocus/pkg/domain"
	"github.com/aretw0/phocus/pkg/registry"
)

// Loader adapts the Loam library to the ports.BlueprintLoader interface.
type Loader struct {
	Repo     *loam.TypedRepository[ContextMetadata]
	handlers *registry.Registry
}

// New creates a new Loam adapter. handlers binds the handler names used by actions.
func New(repo *loam.TypedRepository[ContextMetadata], handlers *registry.Registry) *Loader {
	return &Loader{
		Repo:     repo,
		handlers: handlers,
	}
}

// Open initializes a read-only Loam repository at path and wraps it.
func Open(path string, handlers *registry.Registry) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	return New(loam.NewTypedRepository[ContextMetadata](repo), handlers), nil
}

// LoadBlueprints lists every document and builds one blueprint per document.
// Documents are registered in path order. Two documents resolving to the same
// context id are an error.
func (l *Loader) LoadBlueprints(ctx context.Context) ([]domain.NamedBlueprint, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

	seen := make(map[string]string)
	contexts := make([]any, 0, len(docs))

	for _, doc := range docs {
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: context '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID

		documentation := doc.Data.Documentation
		if documentation == "" {
			documentation = strings.TrimSpace(doc.Content)
		}

		actions := doc.Data.Actions
		if actions == nil {
			actions = []any{}
		}

		contexts = append(contexts, map[string]any{
			"id":            id,
			"name":          doc.Data.Name,
			"documentation": documentation,
			"opaque":        doc.Data.Opaque,
			"actions":       actions,
		})
	}

	cat, err := catalog.Decode(map[string]any{"contexts": contexts})
	if err != nil {
		return nil, err
	}
	return cat.Build(l.handlers)
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
