package report

import "c4analytics/internal/c4"

// Settings is the computation-time configuration. It is passed explicitly
// into every scoring call; there is no process-wide state.
type Settings struct {
	// MinLinksRequired is the satisfied-category count at which an
	// element counts as "in order".
	MinLinksRequired int `json:"min_links_required"`
}

// DefaultMinLinks is used when a session has not configured a threshold.
const DefaultMinLinks = 4

// ElementScore is the documentation-completeness record for one element.
type ElementScore struct {
	Element         c4.Element `json:"element"`
	SatisfiedCount  int        `json:"satisfied_count"`
	IsInOrder       bool       `json:"is_in_order"`
	CompletionRatio float64    `json:"completion_ratio"`
}

// ScoreElement counts the satisfied documentation categories and derives
// the in-order flag and completion ratio. A category is satisfied when its
// link is present with a non-blank value.
func ScoreElement(el c4.Element, settings Settings) ElementScore {
	satisfied := 0
	for _, cat := range c4.Categories {
		if el.HasLink(cat) {
			satisfied++
		}
	}
	return ElementScore{
		Element:         el,
		SatisfiedCount:  satisfied,
		IsInOrder:       satisfied >= settings.MinLinksRequired,
		CompletionRatio: float64(satisfied) / float64(c4.NumCategories),
	}
}

// Ratio is a completeness fraction that distinguishes "no data" from zero.
// An invalid ratio serializes as null.
type Ratio struct {
	InOrder int
	Total   int
	Value   float64
	Valid   bool
}

// Aggregate computes the in-order fraction over a score set. With no
// scores the result is undefined, never 0.
func Aggregate(scores []ElementScore) Ratio {
	r := Ratio{Total: len(scores)}
	if r.Total == 0 {
		return r
	}
	for _, s := range scores {
		if s.IsInOrder {
			r.InOrder++
		}
	}
	r.Value = float64(r.InOrder) / float64(r.Total)
	r.Valid = true
	return r
}

// MarshalJSON encodes an undefined ratio as null and a defined one as its
// float value.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return jsonFloat(r.Value), nil
}
