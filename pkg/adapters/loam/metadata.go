package loam

// ContextMetadata is the frontmatter of a context document.
// The document body becomes the context documentation unless the
// frontmatter sets one explicitly.
type ContextMetadata struct {
	ID            string `json:"id" mapstructure:"id"`
	Name          string `json:"name" mapstructure:"name"`
	Documentation string `json:"documentation" mapstructure:"documentation"`
	Opaque        bool   `json:"opaque" mapstructure:"opaque"`

	// Actions holds raw action definitions. They are decoded with the
	// catalog rules, so `keys: Control+s` and `keys: [Control+s]` both work.
	Actions []any `json:"actions" mapstructure:"actions"`
}
