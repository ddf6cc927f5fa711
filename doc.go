/*
Package phocus resolves keyboard shortcuts against the focused element of a user interface.

An application marks regions of its element tree as contexts. Each context is described by a
blueprint listing the actions it offers and the chords that trigger them. When focus moves, the
engine walks from the focused element up to the root, collecting the marked ancestors into a
context stack. Lookups then search that stack innermost first, so a nested context shadows the
bindings of its ancestors. An opaque context hides everything outside it.

# Concept

Blueprints come from a catalog file (YAML or JSON), a Loam document repository, or code. Users may
remap any action to a single chord; remappings are kept by action id and can be persisted in a
RemappingStore (memory, file or Redis) under a named profile.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/phocus"
		"github.com/aretw0/phocus/pkg/adapters/html"
		"github.com/aretw0/phocus/pkg/registry"
	)

	func main() {
		handlers := registry.NewRegistry()
		handlers.Register("save", func() { log.Println("saved") })

		eng, err := phocus.New("./keys.yaml", phocus.WithHandlers(handlers))
		if err != nil {
			log.Fatal(err)
		}
		if err := eng.Load(context.Background()); err != nil {
			log.Fatal(err)
		}

		doc, _ := html.ParseString(`<main data-phocus-context-name="project"><input id="name"></main>`)
		el, _ := doc.GetElementByID("name")
		eng.SetContext(el)

		if !eng.Dispatch("Control+s") {
			log.Println("nothing bound")
		}
	}
*/
package phocus
