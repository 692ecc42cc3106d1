package model

import (
	"slices"
	"sort"
)

// BuildingAggregate accumulates the extraction results of every document
// belonging to one building. It is built by a single aggregation pass and
// discarded after reporting.
type BuildingAggregate struct {
	// BuildingID is the building identifier, typically its directory name.
	BuildingID string `json:"building_id"`

	// Title is the display name of the building.
	Title string `json:"title"`

	// SalePrices holds every sale at or below the high-value cutoff,
	// in document-processing order.
	SalePrices []float64 `json:"sale_prices"`

	// ExcludedSales holds the sales above the high-value cutoff.
	// They count toward ValidCount but not toward the distribution.
	ExcludedSales []float64 `json:"excluded_sales,omitempty"`

	// DeedHolderNames lists the party name of each valid sale in
	// document-processing order. Not deduplicated.
	DeedHolderNames []string `json:"deed_holder_names"`

	// YearlyTotals collects each unit's assessed value per year.
	YearlyTotals map[int][]float64 `json:"yearly_totals"`

	// VacantCount is the number of documents without a sale.
	VacantCount int `json:"vacant_count"`

	// ValidCount is the number of documents with a sale.
	ValidCount int `json:"valid_count"`

	// SkippedDocuments is the number of documents that could not be read.
	SkippedDocuments int `json:"skipped_documents"`
}

// YearValue is one point of a yearly series.
type YearValue struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
	Units int     `json:"units"`
}

// HistogramBin is one equal-width bucket of the sale-price distribution.
// Lower is inclusive; Upper is exclusive except for the last bin.
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// NewBuildingAggregate creates an empty aggregate for a building.
func NewBuildingAggregate(buildingID, title string) *BuildingAggregate {
	return &BuildingAggregate{
		BuildingID:      buildingID,
		Title:           title,
		SalePrices:      make([]float64, 0),
		DeedHolderNames: make([]string, 0),
		YearlyTotals:    make(map[int][]float64),
	}
}

// Add folds one extraction result into the aggregate. Sales above cutoff
// are recorded as excluded. Yearly values are merged for every document,
// vacant or not.
func (a *BuildingAggregate) Add(result ExtractionResult, cutoff float64) {
	if result.SalePrice == nil {
		a.VacantCount++
	} else {
		a.ValidCount++
		price := *result.SalePrice
		if price <= cutoff {
			a.SalePrices = append(a.SalePrices, price)
		} else {
			a.ExcludedSales = append(a.ExcludedSales, price)
		}
		if result.PartyName != "" {
			a.DeedHolderNames = append(a.DeedHolderNames, result.PartyName)
		}
	}

	if a.YearlyTotals == nil {
		a.YearlyTotals = make(map[int][]float64)
	}
	for year, value := range result.YearlyValues {
		a.YearlyTotals[year] = append(a.YearlyTotals[year], value)
	}
}

// TotalUnits returns the number of documents that were scanned.
func (a *BuildingAggregate) TotalUnits() int {
	return a.ValidCount + a.VacantCount
}

// PercentVacant returns the share of vacant units in percent,
// or 0 when the building had no documents.
func (a *BuildingAggregate) PercentVacant() float64 {
	total := a.TotalUnits()
	if total == 0 {
		return 0
	}
	return float64(a.VacantCount) / float64(total) * 100
}

// TotalSaleValue returns the sum of SalePrices.
func (a *BuildingAggregate) TotalSaleValue() float64 {
	return sum(a.SalePrices)
}

// GrossSaleValue returns the sum of every valid sale, including those above
// the cutoff.
func (a *BuildingAggregate) GrossSaleValue() float64 {
	return a.TotalSaleValue() + sum(a.ExcludedSales)
}

// AverageSalePrice returns the mean of SalePrices, or 0 when empty.
func (a *BuildingAggregate) AverageSalePrice() float64 {
	if len(a.SalePrices) == 0 {
		return 0
	}
	return a.TotalSaleValue() / float64(len(a.SalePrices))
}

// Years returns the years present in YearlyTotals in ascending order.
func (a *BuildingAggregate) Years() []int {
	years := make([]int, 0, len(a.YearlyTotals))
	for year := range a.YearlyTotals {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

// YearTotals returns the per-year sum across units, ascending by year.
func (a *BuildingAggregate) YearTotals() []YearValue {
	years := a.Years()
	out := make([]YearValue, 0, len(years))
	for _, year := range years {
		values := a.YearlyTotals[year]
		out = append(out, YearValue{Year: year, Value: sum(values), Units: len(values)})
	}
	return out
}

// YearAverages returns the per-year mean across units, ascending by year.
// Years listed in excluded are left out of the series.
func (a *BuildingAggregate) YearAverages(excluded []int) []YearValue {
	years := a.Years()
	out := make([]YearValue, 0, len(years))
	for _, year := range years {
		if slices.Contains(excluded, year) {
			continue
		}
		values := a.YearlyTotals[year]
		if len(values) == 0 {
			continue
		}
		out = append(out, YearValue{
			Year:  year,
			Value: sum(values) / float64(len(values)),
			Units: len(values),
		})
	}
	return out
}

// Histogram splits SalePrices into bins equal-width buckets spanning the
// observed range. It returns nil when there are no sales or bins < 1.
func (a *BuildingAggregate) Histogram(bins int) []HistogramBin {
	if len(a.SalePrices) == 0 || bins < 1 {
		return nil
	}

	lo, hi := slices.Min(a.SalePrices), slices.Max(a.SalePrices)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)

	out := make([]HistogramBin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi

	for _, price := range a.SalePrices {
		idx := int((price - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		out[idx].Count++
	}
	return out
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
