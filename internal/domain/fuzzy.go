package domain

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Closest returns the candidate with the smallest case-insensitive edit
// distance to query, provided it is within maxDist. Earlier candidates win ties.
func Closest(query string, candidates []string, maxDist int) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", false
	}
	best, bestDist := "", maxDist+1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(q, strings.ToLower(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}
