package model

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// FilterSuggestions narrows chips to those fuzzily matching draft, best
// match first. A blank draft, or one that matches nothing, keeps every chip
// so the row never disappears.
func FilterSuggestions(chips []string, draft string) []string {
	draft = strings.TrimSpace(draft)
	if draft == "" {
		return append([]string{}, chips...)
	}

	matches := fuzzy.Find(draft, chips)
	if len(matches) == 0 {
		return append([]string{}, chips...)
	}

	filtered := make([]string, len(matches))
	for i, match := range matches {
		filtered[i] = chips[match.Index]
	}
	return filtered
}
