package report

import (
	"sort"
	"strconv"

	"c4analytics/internal/c4"
	"c4analytics/internal/csvsource"
)

// Status labels a critical-repository row for display.
type Status string

const (
	StatusComplete   Status = "complete"   // every matched element is in order
	StatusIncomplete Status = "incomplete" // matched, but not in order
	StatusUnmapped   Status = "unmapped"   // no element shares the repository
)

// EntryReport is the presentation record for one critical-repository row.
type EntryReport struct {
	Entry  csvsource.Entry `json:"entry"`
	Status Status          `json:"status"`
	// Scores holds one record per matched element. Empty when unmapped.
	// Several records mean several elements share the repository; the
	// ambiguity is shown, not resolved.
	Scores []ElementScore `json:"scores,omitempty"`
}

// bestRatio is the highest completion ratio among the row's elements,
// used only for ordering the needs-attention list.
func (er EntryReport) bestRatio() float64 {
	best := 0.0
	for _, s := range er.Scores {
		if s.CompletionRatio > best {
			best = s.CompletionRatio
		}
	}
	return best
}

// StatusCounts breaks the critical rows down by status.
type StatusCounts struct {
	Complete   int `json:"complete"`
	Incomplete int `json:"incomplete"`
	Unmapped   int `json:"unmapped"`
}

// Report is the full payload the presentation layer renders. It is
// recomputed wholesale from the current session inputs on every change.
type Report struct {
	Settings Settings `json:"settings"`

	// Elements scores the entire element set, critical or not.
	Elements []ElementScore `json:"elements"`

	Critical     []EntryReport     `json:"critical,omitempty"`
	SkippedRows  []csvsource.Entry `json:"skipped_rows,omitempty"`
	StatusCounts StatusCounts      `json:"status_counts"`

	// CriticalCompleteness is the in-order fraction of the matched
	// critical elements; null when nothing matched.
	CriticalCompleteness Ratio `json:"critical_completeness"`
	// OverallCompleteness is the same fraction over every element.
	OverallCompleteness Ratio `json:"overall_completeness"`

	// NeedsAttention lists the matched-but-incomplete rows with the
	// least progress, worst first, capped at five.
	NeedsAttention []EntryReport `json:"needs_attention,omitempty"`

	// UnmatchedElements are mapped in C4 but absent from the CSV.
	UnmatchedElements []c4.Element `json:"unmatched_elements,omitempty"`
}

const needsAttentionCap = 5

// Build recomputes the full report from the current inputs. Pure and
// synchronous; absent inputs are treated as empty sets. The threshold is
// taken as configured — zero means every element is trivially in order;
// defaulting an unset threshold is the session layer's job.
func Build(elements []c4.Element, entries []csvsource.Entry, settings Settings) Report {
	rep := Report{Settings: settings}

	rep.Elements = make([]ElementScore, 0, len(elements))
	for _, el := range elements {
		rep.Elements = append(rep.Elements, ScoreElement(el, settings))
	}
	rep.OverallCompleteness = Aggregate(rep.Elements)

	matched := Match(elements, entries)
	rep.SkippedRows = matched.Skipped
	rep.UnmatchedElements = matched.UnmatchedElements

	var criticalScores []ElementScore
	seen := map[string]bool{}
	for _, m := range matched.Matches {
		er := EntryReport{Entry: m.Entry, Status: StatusUnmapped}
		if m.Matched() {
			er.Status = StatusComplete
			for _, el := range m.Elements {
				score := ScoreElement(el, settings)
				er.Scores = append(er.Scores, score)
				if !score.IsInOrder {
					er.Status = StatusIncomplete
				}
				if !seen[el.ID] {
					seen[el.ID] = true
					criticalScores = append(criticalScores, score)
				}
			}
		}
		rep.Critical = append(rep.Critical, er)

		switch er.Status {
		case StatusComplete:
			rep.StatusCounts.Complete++
		case StatusIncomplete:
			rep.StatusCounts.Incomplete++
		case StatusUnmapped:
			rep.StatusCounts.Unmapped++
		}
	}
	rep.StatusCounts.Unmapped += len(matched.Skipped)
	rep.CriticalCompleteness = Aggregate(criticalScores)

	rep.NeedsAttention = needsAttention(rep.Critical)
	return rep
}

func needsAttention(rows []EntryReport) []EntryReport {
	var incomplete []EntryReport
	for _, row := range rows {
		if row.Status == StatusIncomplete {
			incomplete = append(incomplete, row)
		}
	}
	sort.SliceStable(incomplete, func(i, j int) bool {
		return incomplete[i].bestRatio() < incomplete[j].bestRatio()
	})
	if len(incomplete) > needsAttentionCap {
		incomplete = incomplete[:needsAttentionCap]
	}
	return incomplete
}

func jsonFloat(v float64) []byte {
	return strconv.AppendFloat(nil, v, 'g', -1, 64)
}
