package domain

// Remapping is a user override replacing an action's default keys with a single chord.
// It is the export shape consumed by persistence layers.
type Remapping struct {
	Action  string `json:"action" yaml:"action" mapstructure:"action"`
	Mapping string `json:"mapping" yaml:"mapping" mapstructure:"mapping"`
}
