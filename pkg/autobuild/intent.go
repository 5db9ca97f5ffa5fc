package autobuild

import (
	"context"
	"strings"
)

// Intent is the structured form of a user request. It is produced once and
// never changed; retry loops work on a Run derived from it.
type Intent struct {
	Purpose        Purpose   `json:"purpose"`
	Budget         int64     `json:"budget"`
	PreferredParts []PartRef `json:"preferred_parts"`
	// Source is the raw text the intent was extracted from. It keys the
	// preferred-parts cache.
	Source string `json:"-"`
}

// CacheKey identifies the preferred-part mentions of the intent.
func (i Intent) CacheKey() string {
	if i.Source != "" {
		return strings.TrimSpace(strings.ToLower(i.Source))
	}
	var b strings.Builder
	for _, ref := range i.PreferredParts {
		b.WriteString(ref.Category.String())
		b.WriteByte(':')
		b.WriteString(strings.ToLower(ref.Name))
		if ref.ByChipset {
			b.WriteString("#chipset")
		}
		b.WriteByte('|')
	}
	return b.String()
}

// Run is the mutable per-strategy view of an intent. The budget starts at the
// intent budget and is only changed by the retry controller.
type Run struct {
	Intent   Intent
	Strategy Strategy
	Budget   int64
}

// NewRun starts a fresh run with the budget restored to the original.
func NewRun(intent Intent, strategy Strategy) *Run {
	return &Run{Intent: intent, Strategy: strategy, Budget: intent.Budget}
}

// Allocation maps each category to its spending ceiling.
type Allocation map[Category]int64

func (a Allocation) Total() int64 {
	var total int64
	for _, v := range a {
		total += v
	}
	return total
}

// CandidatePool holds the ordered candidates for each category.
type CandidatePool map[Category][]Part

// GraphStore is the compatibility graph: parts as typed nodes, compatibility
// as directed COMPATIBLE_WITH edges.
type GraphStore interface {
	// FindBestMatch returns the most relevant part of the category whose name
	// (or chipset, when byChipset is set) matches text and whose price is
	// non-zero. It returns nil, nil when nothing clears the relevance threshold.
	FindBestMatch(ctx context.Context, category Category, text string, byChipset bool) (*Part, error)

	// FindWithinBudget returns every part of the category priced at or below
	// ceiling, ordered by the objective.
	FindWithinBudget(ctx context.Context, category Category, ceiling int64, objective Objective) ([]Part, error)

	// HasEdge reports whether a COMPATIBLE_WITH edge runs from -> to.
	HasEdge(ctx context.Context, from, to PartKey) (bool, error)
}
