package domain

// ActionOptions carries the fields used to build an Action.
type ActionOptions struct {
	Name               string
	ShortDocumentation string
	DefaultKeys        []string
	ActOn              func()
	SearchTerms        []string
}

// Action is a named, invocable operation with default key chords.
// Identity is by pointer: two Actions with equal fields are still distinct.
// An Action is immutable once constructed.
type Action struct {
	name               string
	shortDocumentation string
	defaultKeys        []string
	actOn              func()
	searchTerms        []string
}

// NewAction builds an Action from opts. Slices are copied.
func NewAction(opts ActionOptions) *Action {
	return &Action{
		name:               opts.Name,
		shortDocumentation: opts.ShortDocumentation,
		defaultKeys:        cloneStrings(opts.DefaultKeys),
		actOn:              opts.ActOn,
		searchTerms:        cloneStrings(opts.SearchTerms),
	}
}

// Name returns the display name.
func (a *Action) Name() string { return a.name }

// ShortDocumentation returns the one-line help text.
func (a *Action) ShortDocumentation() string { return a.shortDocumentation }

// DefaultKeys returns the chords that trigger the action when it is not remapped.
// Every chord is an equally valid trigger.
func (a *Action) DefaultKeys() []string { return cloneStrings(a.defaultKeys) }

// SearchTerms returns the terms used by palette search.
func (a *Action) SearchTerms() []string { return cloneStrings(a.searchTerms) }

// HasDefaultKey reports whether chord is one of the default keys.
func (a *Action) HasDefaultKey(chord string) bool {
	for _, k := range a.defaultKeys {
		if k == chord {
			return true
		}
	}
	return false
}

// ActOn invokes the caller-owned operation. A nil operation is a no-op.
// The resolution engine never calls this; hosts do.
func (a *Action) ActOn() {
	if a.actOn != nil {
		a.actOn()
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
