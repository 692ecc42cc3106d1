package extract

import (
	"strconv"
	"strings"

	"github.com/nao1215/deedscan/internal/model"
)

// Defaults of the yearly value series.
const (
	DefaultMinYear = 2000
	DefaultMaxYear = 2100

	// DefaultValueColumn is the zero-based column of the taxable value.
	DefaultValueColumn = 7

	// noDataSentinel marks a year without an assessed value.
	noDataSentinel = "nd"
)

// Harvester extracts a year-to-assessed-value mapping from a document.
// Every row is a candidate: its first cell must be a year within the
// configured range and its value column must hold a number.
type Harvester struct {
	minYear     int
	maxYear     int
	valueColumn int
}

// HarvesterOption configures a Harvester.
type HarvesterOption func(*Harvester)

// WithYearRange sets the inclusive range of accepted years.
func WithYearRange(minYear, maxYear int) HarvesterOption {
	return func(h *Harvester) {
		h.minYear = minYear
		h.maxYear = maxYear
	}
}

// WithValueColumn sets the zero-based column holding the value.
// Negative columns are ignored.
func WithValueColumn(col int) HarvesterOption {
	return func(h *Harvester) {
		if col >= 0 {
			h.valueColumn = col
		}
	}
}

// NewHarvester creates a Harvester for years 2000-2100 reading column 7.
func NewHarvester(opts ...HarvesterOption) *Harvester {
	h := &Harvester{
		minYear:     DefaultMinYear,
		maxYear:     DefaultMaxYear,
		valueColumn: DefaultValueColumn,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Harvest returns the yearly values of a document. A later row for the
// same year overwrites an earlier one.
func (h *Harvester) Harvest(doc model.Document) map[int]float64 {
	values := make(map[int]float64)

	for i, row := range doc.Rows {
		if len(row) <= h.valueColumn {
			continue
		}

		year, ok := h.parseYear(doc.FirstCell(i))
		if !ok {
			continue
		}

		raw := cleanAmount(row[h.valueColumn])
		if raw == "" || strings.EqualFold(raw, noDataSentinel) {
			continue
		}
		value, ok := parseAmount(raw)
		if !ok {
			continue
		}
		values[year] = value
	}

	return values
}

// parseYear accepts digit-only cells within the configured range.
func (h *Harvester) parseYear(cell string) (int, bool) {
	if !isDigits(cell) {
		return 0, false
	}
	year, err := strconv.Atoi(cell)
	if err != nil || year < h.minYear || year > h.maxYear {
		return 0, false
	}
	return year, true
}
