// Package catalog loads context blueprints from YAML or JSON files.
//
// A catalog lists contexts in registration order:
//
//	contexts:
//	  - id: root
//	    name: Root
//	    documentation: Global actions, available anywhere.
//	    actions:
//	      - id: logout
//	        name: Log out
//	        keys: [Control+s, Control+o]
//	        handler: logout
//	  - id: modal
//	    name: Modal
//	    opaque: true
//
// `keys` and `search_terms` accept a single string or a list. `handler` names a
// function registered in a registry.Registry.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/phocus/pkg/domain"
	"github.com/aretw0/phocus/pkg/registry"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ActionConfig is the file representation of an action.
type ActionConfig struct {
	ID                 string   `mapstructure:"id"`
	Name               string   `mapstructure:"name"`
	ShortDocumentation string   `mapstructure:"short_documentation"`
	Keys               []string `mapstructure:"keys"`
	Handler            string   `mapstructure:"handler"`
	SearchTerms        []string `mapstructure:"search_terms"`
}

// ContextConfig is the file representation of a context blueprint.
type ContextConfig struct {
	ID            string         `mapstructure:"id"`
	Name          string         `mapstructure:"name"`
	Documentation string         `mapstructure:"documentation"`
	Opaque        bool           `mapstructure:"opaque"`
	Actions       []ActionConfig `mapstructure:"actions"`
}

// Catalog is the root of a catalog file.
type Catalog struct {
	Contexts []ContextConfig `mapstructure:"contexts"`
}

// Load reads a catalog file. Files ending in .json are parsed as JSON,
// everything else as YAML.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data, strings.EqualFold(filepath.Ext(path), ".json"))
}

// Parse decodes catalog data and validates it.
func Parse(data []byte, isJSON bool) (*Catalog, error) {
	var raw map[string]any
	if isJSON {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse catalog json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
		}
	}

	return Decode(raw)
}

// Decode builds a catalog from generic data, as produced by a YAML or JSON
// decoder or a document frontmatter. Unknown keys are rejected.
func Decode(raw map[string]any) (*Catalog, error) {
	var cat Catalog
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cat,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Validate checks that context ids are present and unique, and that action ids
// are present and unique within their context.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool)
	for i, ctx := range c.Contexts {
		if ctx.ID == "" {
			return fmt.Errorf("context #%d: missing id", i)
		}
		if seen[ctx.ID] {
			return fmt.Errorf("context %q: duplicate id", ctx.ID)
		}
		seen[ctx.ID] = true

		actions := make(map[string]bool)
		for j, a := range ctx.Actions {
			if a.ID == "" {
				return fmt.Errorf("context %q action #%d: missing id", ctx.ID, j)
			}
			if actions[a.ID] {
				return fmt.Errorf("context %q action %q: duplicate id", ctx.ID, a.ID)
			}
			actions[a.ID] = true
		}
	}
	return nil
}

// Build turns the catalog into blueprints, binding handler names through handlers.
// handlers may be nil when no action names a handler.
func (c *Catalog) Build(handlers *registry.Registry) ([]domain.NamedBlueprint, error) {
	out := make([]domain.NamedBlueprint, 0, len(c.Contexts))
	for _, cc := range c.Contexts {
		bp := domain.ContextBlueprint{
			Name:          cc.Name,
			Documentation: cc.Documentation,
			Opaque:        cc.Opaque,
			Actions:       make([]domain.ActionEntry, 0, len(cc.Actions)),
		}
		for _, ac := range cc.Actions {
			fn, err := handlers.Resolve(ac.Handler)
			if err != nil {
				return nil, fmt.Errorf("context %q action %q: %w", cc.ID, ac.ID, err)
			}
			name := ac.Name
			if name == "" {
				name = ac.ID
			}
			bp.Actions = append(bp.Actions, domain.ActionEntry{
				ID: ac.ID,
				Action: domain.NewAction(domain.ActionOptions{
					Name:               name,
					ShortDocumentation: ac.ShortDocumentation,
					DefaultKeys:        ac.Keys,
					ActOn:              fn,
					SearchTerms:        ac.SearchTerms,
				}),
			})
		}
		out = append(out, domain.NamedBlueprint{ID: cc.ID, Blueprint: bp})
	}
	return out, nil
}

// Loader implements ports.BlueprintLoader over a catalog file.
// The file is read on every call so that edits are picked up on reload.
type Loader struct {
	path     string
	handlers *registry.Registry
}

// NewLoader creates a Loader for the catalog at path.
func NewLoader(path string, handlers *registry.Registry) *Loader {
	return &Loader{path: path, handlers: handlers}
}

// LoadBlueprints reads and builds the catalog.
func (l *Loader) LoadBlueprints(ctx context.Context) ([]domain.NamedBlueprint, error) {
	cat, err := Load(l.path)
	if err != nil {
		return nil, err
	}
	return cat.Build(l.handlers)
}
