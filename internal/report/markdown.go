package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/deedscan/internal/model"
)

// MarkdownWriter outputs reports in GitHub Flavored Markdown with mermaid
// charts.
type MarkdownWriter struct {
	baseWriter

	version string
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownVersion sets the version shown in the footer.
func WithMarkdownVersion(version string) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.version = version
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the building report in Markdown format.
func (w *MarkdownWriter) Write(report *model.BuildingReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	n := newNumbers()
	stats := NewStatistics(report)

	w.writeHeader(md, report)
	if report.Aggregate != nil {
		w.writeSummary(md, report, stats, n)
		w.writeYears(md, report, stats, n)
		w.writeHistogram(md, stats, n)
	}
	if report.Tally != nil {
		w.writeCategories(md, report, stats)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteSummary outputs a table with one row per building.
func (w *MarkdownWriter) WriteSummary(reports []*model.BuildingReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	n := newNumbers()

	md.H1("Deed Analysis Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(reports))
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
		rows = append(rows, []string{r.Title, units, vacant, avg, top, statusLabel(r)})
	}

	if len(rows) == 0 {
		md.PlainText("No buildings were processed.")
	} else {
		md.Table(markdown.TableSet{
			Header: []string{"Building", "Units", "Vacant", "Average Sale", "Top Buyer Category", "Status"},
			Rows:   rows,
		})
	}
	md.PlainText("")
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.BuildingReport) {
	md.H1("Deed Analysis: " + report.Title)
	md.PlainText("")

	rows := [][]string{
		{"Building", "`" + report.BuildingID + "`"},
		{"Analyzed", report.DateAnalyzed.Format("2006-01-02 15:04:05 MST")},
		{"Run ID", "`" + report.RunID + "`"},
	}
	if report.DeedHolderFile != "" {
		rows = append(rows, []string{"Deed Holders", "`" + report.DeedHolderFile + "`"})
	}
	rows = append(rows, []string{"Status", statusLabel(report)})

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	switch {
	case report.Cancelled:
		md.Warningf("The analysis was cancelled after %d step(s); figures are partial.", len(report.PerformedSteps))
		md.PlainText("")
	case report.ErrorMessage != "":
		md.Cautionf("The analysis stopped: %s", report.ErrorMessage)
		md.PlainText("")
	}
}

func statusLabel(r *model.BuildingReport) string {
	switch {
	case r.Cancelled:
		return "⚠️ Cancelled (partial results)"
	case r.ErrorMessage != "":
		return "❌ Error - " + r.ErrorMessage
	default:
		return "✅ Complete"
	}
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.BuildingReport, stats *Statistics, n numbers) {
	md.H2("Summary")
	md.PlainText("")

	rows := [][]string{
		{"Total units", n.count(stats.TotalUnits)},
		{"Units with a sale", n.count(stats.ValidUnits)},
		{"Vacant units", n.count(stats.VacantUnits)},
		{"Percent vacant", percent(stats.PercentVacant)},
		{"Sales counted", n.count(stats.SalesCounted)},
		{"Total sale value", n.money(stats.TotalSaleValue)},
		{"Average sale price", n.money(stats.AverageSalePrice)},
	}
	if stats.SalesExcluded > 0 {
		rows = append(rows,
			[]string{"Sales above cutoff", n.count(stats.SalesExcluded)},
			[]string{"Gross sale value", n.money(stats.GrossSaleValue)},
		)
	}
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if stats.SalesExcluded > 0 {
		md.Importantf("%d sale(s) above %s are excluded from the distribution and the average.",
			stats.SalesExcluded, n.money(report.HighValueCutoff))
		md.PlainText("")
	}
	if stats.SkippedDocuments > 0 {
		md.Note(fmt.Sprintf("%d document(s) could not be read and were skipped.", stats.SkippedDocuments))
		md.PlainText("")
	}
	if stats.TotalUnits > 0 && stats.ValidUnits == 0 {
		md.Tip("No sale was recorded in any document of this building.")
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeYears(md *markdown.Markdown, report *model.BuildingReport, stats *Statistics, n numbers) {
	if len(stats.YearTotals) == 0 {
		return
	}
	md.H2("Yearly Taxable Values")
	md.PlainText("")

	averages := make(map[int]float64, len(stats.YearAverages))
	for _, yv := range stats.YearAverages {
		averages[yv.Year] = yv.Value
	}

	rows := make([][]string, 0, len(stats.YearTotals))
	for _, yv := range stats.YearTotals {
		avg := "excluded"
		if v, ok := averages[yv.Year]; ok {
			avg = n.money(v)
		}
		rows = append(rows, []string{strconv.Itoa(yv.Year), strconv.Itoa(yv.Units), n.money(yv.Value), avg})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Year", "Units", "Total", "Average"},
		Rows:   rows,
	})
	md.PlainText("")

	totalLabels := make([]string, len(stats.YearTotals))
	totals := make([]float64, len(stats.YearTotals))
	for i, yv := range stats.YearTotals {
		totalLabels[i] = strconv.Itoa(yv.Year)
		totals[i] = yv.Value
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid,
		xyChart("Total Taxable Value Over Years - "+report.Title, "Value ($)", totalLabels, "line", totals))
	md.PlainText("")

	if len(stats.YearAverages) > 0 {
		labels := make([]string, len(stats.YearAverages))
		values := make([]float64, len(stats.YearAverages))
		for i, yv := range stats.YearAverages {
			labels[i] = strconv.Itoa(yv.Year)
			values[i] = yv.Value
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid,
			xyChart("Average Total Taxable Value - "+report.Title, "Value ($)", labels, "line", values))
		md.PlainText("")
	}
	if len(report.ExcludedYears) > 0 {
		md.Note("Excluded from the averaged series: " + joinInts(report.ExcludedYears))
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeHistogram(md *markdown.Markdown, stats *Statistics, n numbers) {
	if len(stats.Histogram) == 0 {
		return
	}
	md.H2("Sale Price Distribution")
	md.PlainText("")

	rows := make([][]string, len(stats.Histogram))
	labels := make([]string, len(stats.Histogram))
	counts := make([]float64, len(stats.Histogram))
	for i, bin := range stats.Histogram {
		rows[i] = []string{n.money(bin.Lower), n.money(bin.Upper), strconv.Itoa(bin.Count)}
		labels[i] = compactMoney(bin.Lower)
		counts[i] = float64(bin.Count)
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid,
		xyChart("Distribution of Sale Prices", "Number of Sales", labels, "bar", counts))
	md.PlainText("")
	md.Details("Histogram bins", tableText([]string{"From", "To", "Sales"}, rows))
	md.PlainText("")
}

func (w *MarkdownWriter) writeCategories(md *markdown.Markdown, report *model.BuildingReport, stats *Statistics) {
	md.H2("Deed Holder Categories")
	md.PlainText("")

	if stats.UniqueHolders == 0 {
		md.PlainText("No deed holders to classify.")
		md.PlainText("")
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Buyer Categories - "+report.Title),
		piechart.WithShowData(true),
	)
	rows := make([][]string, 0, len(stats.Categories)+1)
	for _, c := range stats.Categories {
		chart.LabelAndIntValue(c.Label, uint64(c.Count)) //nolint:gosec // counts are non-negative
		rows = append(rows, []string{c.Label, strconv.Itoa(c.Count), percent(share(c.Count, stats.UniqueHolders))})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(stats.UniqueHolders) + "**", "100.00%"})

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Category", "Deed Holders", "Share"},
		Rows:   rows,
	})
	md.PlainText("")

	names := make([]string, len(report.Tally.Classifications))
	var failed int
	for i, c := range report.Tally.Classifications {
		names[i] = c.Name + ": " + c.Category
		if c.Failed {
			failed++
			names[i] += " (oracle failed)"
		}
	}
	md.Details("Classified deed holders", strings.Join(names, "\n"))
	md.PlainText("")

	if failed > 0 {
		md.Warningf("%d deed holder(s) could not be classified and were counted as %s.", failed, model.CategoryOther)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	if w.version != "" {
		md.PlainTextf("*Report generated by deedscan %s*", w.version)
		return
	}
	md.PlainText("*Report generated by deedscan*")
}

// xyChart renders a mermaid xychart-beta block with one series.
// kind is "line" or "bar".
func xyChart(title, yLabel string, labels []string, kind string, values []float64) string {
	var sb strings.Builder
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title %q\n", title))

	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = strconv.Quote(l)
	}
	sb.WriteString("    x-axis [" + strings.Join(quoted, ", ") + "]\n")
	sb.WriteString(fmt.Sprintf("    y-axis %q\n", yLabel))

	formatted := make([]string, len(values))
	for i, v := range values {
		formatted[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	sb.WriteString("    " + kind + " [" + strings.Join(formatted, ", ") + "]\n")
	return sb.String()
}

// compactMoney formats an axis label such as "$1.5M".
func compactMoney(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.0fK", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// tableText renders a plain GFM table for use inside a details block.
func tableText(header []string, rows [][]string) string {
	var sb strings.Builder
	sb.WriteString("| " + strings.Join(header, " | ") + " |\n")
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	sb.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	for _, row := range rows {
		sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	return sb.String()
}
