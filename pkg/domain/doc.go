/*
Package domain contains the core domain models of the phocus action context engine.

It defines actions, the context blueprints that bundle them, the context stack built
from the focused element, and the remapping overlay export shape. This package is kept
pure and free of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Action: A named operation with default key chords. Identity is by pointer.
  - ContextBlueprint: A bundle of actions, optionally opaque, registered under an id.
  - Element: The capability a UI tree node offers (marker + parent).
  - ContextStackEntry: One active context for the focused element, innermost first.
  - Remapping: A user chord override, exported for persistence.
*/
package domain
