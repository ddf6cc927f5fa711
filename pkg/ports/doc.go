/*
Package ports defines the driven ports (interfaces) for the phocus engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to work with various catalog sources and remapping storage backends.

# Key Interfaces

  - BlueprintLoader: Responsible for loading context blueprints (e.g., from YAML, Loam or Memory).
  - RemappingStore: Responsible for persisting and loading remapping profiles.
*/
package ports
