package report

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nao1215/deedscan/internal/model"
)

// Statistics are the derived figures of a building report.
type Statistics struct {
	TotalUnits       int                   `json:"total_units"`
	ValidUnits       int                   `json:"valid_units"`
	VacantUnits      int                   `json:"vacant_units"`
	SkippedDocuments int                   `json:"skipped_documents"`
	PercentVacant    float64               `json:"percent_vacant"`
	SalesCounted     int                   `json:"sales_counted"`
	SalesExcluded    int                   `json:"sales_excluded"`
	TotalSaleValue   float64               `json:"total_sale_value"`
	GrossSaleValue   float64               `json:"gross_sale_value"`
	AverageSalePrice float64               `json:"average_sale_price"`
	YearTotals       []model.YearValue     `json:"year_totals"`
	YearAverages     []model.YearValue     `json:"year_averages"`
	Histogram        []model.HistogramBin  `json:"histogram,omitempty"`
	Categories       []model.CategoryCount `json:"categories,omitempty"`
	UniqueHolders    int                   `json:"unique_holders,omitempty"`
}

// NewStatistics derives the figures of r. Aggregation figures are zero
// when r has no aggregate; category figures are empty without a tally.
func NewStatistics(r *model.BuildingReport) *Statistics {
	s := &Statistics{
		YearTotals:   []model.YearValue{},
		YearAverages: []model.YearValue{},
	}

	if agg := r.Aggregate; agg != nil {
		bins := r.HistogramBins
		if bins <= 0 {
			bins = model.DefaultHistogramBins
		}
		s.TotalUnits = agg.TotalUnits()
		s.ValidUnits = agg.ValidCount
		s.VacantUnits = agg.VacantCount
		s.SkippedDocuments = agg.SkippedDocuments
		s.PercentVacant = agg.PercentVacant()
		s.SalesCounted = len(agg.SalePrices)
		s.SalesExcluded = len(agg.ExcludedSales)
		s.TotalSaleValue = agg.TotalSaleValue()
		s.GrossSaleValue = agg.GrossSaleValue()
		s.AverageSalePrice = agg.AverageSalePrice()
		s.YearTotals = agg.YearTotals()
		s.YearAverages = agg.YearAverages(r.ExcludedYears)
		s.Histogram = agg.Histogram(bins)
	}

	if r.Tally != nil {
		s.Categories = r.Tally.Sorted(r.Labels)
		s.UniqueHolders = r.Tally.Total()
	}

	return s
}

// TopCategory returns the most frequent category, or "" without a tally.
// Ties go to the label listed first.
func (s *Statistics) TopCategory() string {
	var best model.CategoryCount
	for _, c := range s.Categories {
		if c.Count > best.Count {
			best = c
		}
	}
	return best.Label
}

// numbers formats figures with English digit grouping.
type numbers struct {
	p *message.Printer
}

func newNumbers() numbers {
	return numbers{p: message.NewPrinter(language.English)}
}

// money formats v as "$1,250,000.00".
func (n numbers) money(v float64) string {
	return n.p.Sprintf("$%.2f", v)
}

// count formats v as "1,250".
func (n numbers) count(v int) string {
	return n.p.Sprintf("%d", v)
}

// percent formats v as "30.00%".
func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// share returns count as a percentage of total.
func share(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

// statusText describes how far the pipeline got.
func statusText(r *model.BuildingReport) string {
	switch {
	case r.Cancelled:
		return "CANCELLED (partial results)"
	case r.ErrorMessage != "":
		return "ERROR - " + r.ErrorMessage
	default:
		return "Complete"
	}
}
