package runtime

import (
	"sort"

	"github.com/aretw0/phocus/pkg/domain"
)

// effectiveKeys returns the single override chord when one exists, else the defaults.
func effectiveKeys(a *domain.Action, reg *contextRegistry, overlay *remappingOverlay) []string {
	if id, ok := reg.actionID(a); ok {
		if chord, ok := overlay.lookup(id); ok {
			return []string{chord}
		}
	}
	return a.DefaultKeys()
}

func claims(a *domain.Action, chord string, reg *contextRegistry, overlay *remappingOverlay) bool {
	if id, ok := reg.actionID(a); ok {
		if override, ok := overlay.lookup(id); ok {
			return override == chord
		}
	}
	return a.HasDefaultKey(chord)
}

// matchChord returns the first action in available order whose effective keys contain chord.
func matchChord(available []domain.ActionInContext, chord string, reg *contextRegistry, overlay *remappingOverlay) (domain.ActionInContext, bool) {
	for _, aic := range available {
		if aic.Action == nil {
			continue
		}
		if claims(aic.Action, chord, reg, overlay) {
			return aic, true
		}
	}
	return domain.ActionInContext{}, false
}

// detectConflicts groups available actions by effective chord and reports
// every chord with more than one claimant. The first claimant wins.
func detectConflicts(available []domain.ActionInContext, reg *contextRegistry, overlay *remappingOverlay) []domain.Conflict {
	usage := make(map[string][]domain.ActionInContext)
	var chords []string

	for _, aic := range available {
		if aic.Action == nil {
			continue
		}
		seen := make(map[string]bool)
		for _, chord := range effectiveKeys(aic.Action, reg, overlay) {
			if chord == "" || seen[chord] {
				continue
			}
			seen[chord] = true
			if _, ok := usage[chord]; !ok {
				chords = append(chords, chord)
			}
			usage[chord] = append(usage[chord], aic)
		}
	}

	var conflicts []domain.Conflict
	for _, chord := range chords {
		claimants := usage[chord]
		if len(claimants) < 2 {
			continue
		}
		conflicts = append(conflicts, domain.Conflict{
			Chord:    chord,
			Winner:   claimants[0],
			Shadowed: claimants[1:],
		})
	}

	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].Chord < conflicts[j].Chord
	})
	return conflicts
}
