package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/deedscan/internal/model"
)

const (
	ruleWidth = 70

	// barWidth is the widest histogram bar in characters.
	barWidth = 40
)

// SimpleWriter outputs human-readable text reports.
type SimpleWriter struct {
	baseWriter

	// showClassifications lists every deed holder with its category.
	showClassifications bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithClassifications lists each classified deed holder.
func WithClassifications(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showClassifications = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the building report in human-readable format.
func (w *SimpleWriter) Write(report *model.BuildingReport) (int, error) {
	var sb strings.Builder
	n := newNumbers()
	stats := NewStatistics(report)

	w.writeHeader(&sb, report)
	if report.Aggregate != nil {
		w.writeUnits(&sb, stats)
		w.writeSales(&sb, report, stats, n)
		w.writeYears(&sb, report, stats, n)
		w.writeHistogram(&sb, stats, n)
	}
	if report.Tally != nil {
		w.writeCategories(&sb, report, stats)
	}
	w.writeFooter(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// WriteSummary outputs one line per building.
func (w *SimpleWriter) WriteSummary(reports []*model.BuildingReport) (int, error) {
	var sb strings.Builder
	n := newNumbers()

	section(&sb, "DEED ANALYSIS SUMMARY")
	sb.WriteString(fmt.Sprintf("  %-28s %6s %8s %18s %-12s %s\n",
		"Building", "Units", "Vacant", "Average Sale", "Top Buyer", "Status"))
	for _, r := range reports {
		if r == nil {
			continue
		}
		stats := NewStatistics(r)
		units, vacant, avg := "-", "-", "-"
		if r.Aggregate != nil {
			units = n.count(stats.TotalUnits)
			vacant = percent(stats.PercentVacant)
			avg = n.money(stats.AverageSalePrice)
		}
		top := stats.TopCategory()
		if top == "" {
			top = "-"
		}
		sb.WriteString(fmt.Sprintf("  %-28s %6s %8s %18s %-12s %s\n",
			truncateString(r.Title, 28), units, vacant, avg, top, statusText(r)))
	}
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.BuildingReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	title := "DEED ANALYSIS: " + strings.ToUpper(report.Title)
	if pad := (ruleWidth - len(title)) / 2; pad > 0 {
		sb.WriteString(strings.Repeat(" ", pad))
	}
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Building:       %s\n", report.BuildingID))
	sb.WriteString(fmt.Sprintf("Analyzed:       %s\n", report.DateAnalyzed.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Run ID:         %s\n", report.RunID))
	if report.SourceDir != "" {
		sb.WriteString(fmt.Sprintf("Documents:      %s\n", report.SourceDir))
	}
	if report.DeedHolderFile != "" {
		sb.WriteString(fmt.Sprintf("Deed Holders:   %s\n", report.DeedHolderFile))
	}
	sb.WriteString(fmt.Sprintf("Status:         %s\n", statusText(report)))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeUnits(sb *strings.Builder, stats *Statistics) {
	section(sb, "UNITS")
	sb.WriteString(fmt.Sprintf("  Total units:      %d\n", stats.TotalUnits))
	sb.WriteString(fmt.Sprintf("  With a sale:      %d\n", stats.ValidUnits))
	sb.WriteString(fmt.Sprintf("  Vacant:           %d\n", stats.VacantUnits))
	sb.WriteString(fmt.Sprintf("  Percent vacant:   %s\n", percent(stats.PercentVacant)))
	if stats.SkippedDocuments > 0 {
		sb.WriteString(fmt.Sprintf("  Unreadable:       %d document(s) skipped\n", stats.SkippedDocuments))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSales(sb *strings.Builder, report *model.BuildingReport, stats *Statistics, n numbers) {
	section(sb, "SALES")
	sb.WriteString(fmt.Sprintf("  Sales counted:      %d\n", stats.SalesCounted))
	sb.WriteString(fmt.Sprintf("  Total sale value:   %s\n", n.money(stats.TotalSaleValue)))
	sb.WriteString(fmt.Sprintf("  Average sale price: %s\n", n.money(stats.AverageSalePrice)))
	if stats.SalesExcluded > 0 {
		sb.WriteString(fmt.Sprintf("  Above cutoff:       %d sale(s) over %s left out of the distribution\n",
			stats.SalesExcluded, n.money(report.HighValueCutoff)))
		sb.WriteString(fmt.Sprintf("  Gross sale value:   %s\n", n.money(stats.GrossSaleValue)))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeYears(sb *strings.Builder, report *model.BuildingReport, stats *Statistics, n numbers) {
	if len(stats.YearTotals) == 0 {
		return
	}
	section(sb, "YEARLY TAXABLE VALUES")

	averages := make(map[int]float64, len(stats.YearAverages))
	for _, yv := range stats.YearAverages {
		averages[yv.Year] = yv.Value
	}

	sb.WriteString(fmt.Sprintf("  %-6s %6s %22s %20s\n", "Year", "Units", "Total", "Average"))
	for _, yv := range stats.YearTotals {
		avg := "excluded"
		if v, ok := averages[yv.Year]; ok {
			avg = n.money(v)
		}
		sb.WriteString(fmt.Sprintf("  %-6d %6d %22s %20s\n", yv.Year, yv.Units, n.money(yv.Value), avg))
	}
	if len(report.ExcludedYears) > 0 {
		sb.WriteString(fmt.Sprintf("\n  Excluded from averages: %s\n", joinInts(report.ExcludedYears)))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeHistogram(sb *strings.Builder, stats *Statistics, n numbers) {
	if len(stats.Histogram) == 0 {
		return
	}
	section(sb, fmt.Sprintf("SALE PRICE DISTRIBUTION (%d bins)", len(stats.Histogram)))

	var peak int
	for _, bin := range stats.Histogram {
		peak = max(peak, bin.Count)
	}
	for _, bin := range stats.Histogram {
		bar := 0
		if peak > 0 {
			bar = bin.Count * barWidth / peak
		}
		sb.WriteString(fmt.Sprintf("  %18s - %-18s %4d %s\n",
			n.money(bin.Lower), n.money(bin.Upper), bin.Count, strings.Repeat("#", bar)))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeCategories(sb *strings.Builder, report *model.BuildingReport, stats *Statistics) {
	section(sb, "DEED HOLDER CATEGORIES")
	if stats.UniqueHolders == 0 {
		sb.WriteString("  No deed holders to classify.\n\n")
		return
	}

	sb.WriteString(fmt.Sprintf("  Unique deed holders: %d\n\n", stats.UniqueHolders))
	for _, c := range stats.Categories {
		sb.WriteString(fmt.Sprintf("  %-14s %5d  (%5.1f%%)\n", c.Label, c.Count, share(c.Count, stats.UniqueHolders)))
	}

	if w.showClassifications {
		sb.WriteString("\n")
		for _, c := range report.Tally.Classifications {
			marker := ""
			if c.Failed {
				marker = " (oracle failed)"
			}
			sb.WriteString(fmt.Sprintf("  - %s: %s%s\n", c.Name, c.Category, marker))
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder, report *model.BuildingReport) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Steps: %s\n", strings.Join(report.PerformedSteps, ", ")))
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
