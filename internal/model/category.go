package model

import "sort"

// Category labels returned by the classification oracle.
const (
	CategoryIndividual  = "Individual"
	CategoryTrust       = "Trust"
	CategoryLLC         = "LLC"
	CategoryCorporation = "Corporation"
	CategoryOther       = "Other"
)

// DefaultLabels returns the default classification label set.
// A fresh slice is returned so callers may modify it.
func DefaultLabels() []string {
	return []string{
		CategoryIndividual,
		CategoryTrust,
		CategoryLLC,
		CategoryCorporation,
		CategoryOther,
	}
}

// Classification is the category assigned to one unique deed holder.
type Classification struct {
	Name     string `json:"name"`
	Category string `json:"category"`

	// Enriched is true when descriptive text was looked up for the name.
	Enriched bool `json:"enriched,omitempty"`

	// Failed is true when the oracle failed and the category is the fallback.
	Failed bool `json:"failed,omitempty"`
}

// CategoryTally counts unique deed holders per category.
type CategoryTally struct {
	Counts          map[string]int   `json:"counts"`
	Classifications []Classification `json:"classifications"`
}

// CategoryCount is one label with its count.
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// NewCategoryTally creates an empty tally.
func NewCategoryTally() *CategoryTally {
	return &CategoryTally{
		Counts:          make(map[string]int),
		Classifications: make([]Classification, 0),
	}
}

// Add records one classification.
func (t *CategoryTally) Add(c Classification) {
	if t.Counts == nil {
		t.Counts = make(map[string]int)
	}
	t.Counts[c.Category]++
	t.Classifications = append(t.Classifications, c)
}

// Total returns the number of classified names.
func (t *CategoryTally) Total() int {
	var total int
	for _, n := range t.Counts {
		total += n
	}
	return total
}

// Sorted returns the non-zero counts ordered by the given label order.
// Labels not in order follow alphabetically.
func (t *CategoryTally) Sorted(order []string) []CategoryCount {
	rank := make(map[string]int, len(order))
	for i, label := range order {
		rank[label] = i
	}

	out := make([]CategoryCount, 0, len(t.Counts))
	for label, n := range t.Counts {
		if n > 0 {
			out = append(out, CategoryCount{Label: label, Count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ri, iok := rank[out[i].Label]
		rj, jok := rank[out[j].Label]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return out[i].Label < out[j].Label
		}
	})
	return out
}
