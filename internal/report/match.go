package report

import (
	"c4analytics/internal/c4"
	"c4analytics/internal/csvsource"
)

// EntryMatch joins one critical-repository row to the elements sharing its
// normalized repository key. Zero elements means the repository is not
// mapped in the C4 diagrams; more than one is legitimate (several elements
// may point at the same repository) and is surfaced rather than broken by
// a tie-break.
type EntryMatch struct {
	Entry    csvsource.Entry `json:"entry"`
	Key      string          `json:"key,omitempty"`
	Elements []c4.Element    `json:"elements,omitempty"`
}

// Matched reports whether at least one element shares the entry's key.
func (m EntryMatch) Matched() bool { return len(m.Elements) > 0 }

// MatchResult is the full join between the CSV rows and the element set.
type MatchResult struct {
	Matches []EntryMatch `json:"matches"`
	// Skipped are rows with no usable URL: displayable, never matchable.
	Skipped []csvsource.Entry `json:"skipped,omitempty"`
	// UnmatchedElements have a repository URL no CSV row refers to.
	// Informational only; they are not scored against criticality.
	UnmatchedElements []c4.Element `json:"unmatched_elements,omitempty"`
}

// Match joins critical entries to elements by normalized repository URL.
func Match(elements []c4.Element, entries []csvsource.Entry) MatchResult {
	byKey := make(map[string][]c4.Element, len(elements))
	for _, el := range elements {
		key := NormalizeRepoURL(el.RepositoryURL)
		if key == "" {
			continue
		}
		byKey[key] = append(byKey[key], el)
	}

	res := MatchResult{}
	claimed := make(map[string]bool, len(entries))
	for _, entry := range entries {
		key := NormalizeRepoURL(entry.URL)
		if key == "" {
			res.Skipped = append(res.Skipped, entry)
			continue
		}
		res.Matches = append(res.Matches, EntryMatch{
			Entry:    entry,
			Key:      key,
			Elements: byKey[key],
		})
		claimed[key] = true
	}

	for _, el := range elements {
		if !claimed[NormalizeRepoURL(el.RepositoryURL)] {
			res.UnmatchedElements = append(res.UnmatchedElements, el)
		}
	}
	return res
}
