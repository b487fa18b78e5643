// Package suggest finds the closest known name for a misspelt reference.
package suggest

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Closest returns the candidate nearest to name by edit distance, ignoring
// case. Candidates further than a third of the name's length (minimum 2
// edits) are not considered close; in that case ok is false.
func Closest(name string, candidates []string) (best string, ok bool) {
	target := strings.ToLower(strings.TrimSpace(name))
	if target == "" || len(candidates) == 0 {
		return "", false
	}

	limit := len(target) / 3
	if limit < 2 {
		limit = 2
	}

	bestDist := limit + 1
	for _, candidate := range candidates {
		dist := levenshtein.ComputeDistance(target, strings.ToLower(candidate))
		if dist < bestDist {
			best, bestDist = candidate, dist
		}
	}
	if bestDist > limit {
		return "", false
	}
	return best, true
}
