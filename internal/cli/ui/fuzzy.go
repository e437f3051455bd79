package ui

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

const (
	// DefaultMaxDistance is the largest edit distance offered as a suggestion
	DefaultMaxDistance = 3
	// DefaultMaxSuggestions caps the suggestion list
	DefaultMaxSuggestions = 3
)

// SuggestOptions configures Suggest
type SuggestOptions struct {
	MaxDistance    int
	MaxSuggestions int
}

// Suggest returns the candidates closest to target, ignoring case. A candidate
// containing target is always a suggestion, so partial item names match.
func Suggest(target string, candidates []string, opts *SuggestOptions) []string {
	maxDistance, maxSuggestions := DefaultMaxDistance, DefaultMaxSuggestions
	if opts != nil {
		if opts.MaxDistance > 0 {
			maxDistance = opts.MaxDistance
		}
		if opts.MaxSuggestions > 0 {
			maxSuggestions = opts.MaxSuggestions
		}
	}

	type match struct {
		value    string
		distance int
	}

	needle := strings.ToLower(target)
	var matches []match
	seen := make(map[string]bool)
	for _, candidate := range candidates {
		if seen[candidate] {
			continue
		}
		seen[candidate] = true

		hay := strings.ToLower(candidate)
		distance := levenshtein.ComputeDistance(needle, hay)
		if distance > maxDistance {
			if needle == "" || !strings.Contains(hay, needle) {
				continue
			}
			// substring hits rank after every close edit
			distance = maxDistance + 1
		}
		matches = append(matches, match{value: candidate, distance: distance})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	result := make([]string, 0, maxSuggestions)
	for i := 0; i < len(matches) && i < maxSuggestions; i++ {
		result = append(result, matches[i].value)
	}
	return result
}

// BestMatch returns the closest candidate, or "" when none is close enough
func BestMatch(target string, candidates []string) string {
	matches := Suggest(target, candidates, &SuggestOptions{MaxSuggestions: 1})
	if len(matches) == 0 {
		return ""
	}
	return matches[0]
}
