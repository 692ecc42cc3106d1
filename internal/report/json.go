package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/deedscan/internal/model"
)

// JSONWriter outputs reports in JSON format for tool integration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is the deedscan version embedded in the output.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion sets the version recorded in the output.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport wraps a building report with its derived statistics.
type JSONReport struct {
	// Version is the deedscan version that generated this report.
	Version string `json:"version,omitempty"`

	// Report is the full building report.
	Report *model.BuildingReport `json:"report"`

	// Statistics holds the derived figures.
	Statistics *Statistics `json:"statistics"`
}

// JSONSummary is the JSON form of a batch summary.
type JSONSummary struct {
	Version   string             `json:"version,omitempty"`
	RunID     string             `json:"run_id,omitempty"`
	Buildings []JSONSummaryEntry `json:"buildings"`
}

// JSONSummaryEntry is one building of a JSONSummary.
type JSONSummaryEntry struct {
	BuildingID  string      `json:"building_id"`
	Title       string      `json:"title"`
	ReportFile  string      `json:"report_file,omitempty"`
	Error       string      `json:"error,omitempty"`
	Cancelled   bool        `json:"cancelled,omitempty"`
	Statistics  *Statistics `json:"statistics"`
	TopCategory string      `json:"top_category,omitempty"`
}

// NewJSONReport creates a JSONReport for r.
func NewJSONReport(r *model.BuildingReport, version string) *JSONReport {
	return &JSONReport{
		Version:    version,
		Report:     r,
		Statistics: NewStatistics(r),
	}
}

// Write outputs the building report with its statistics.
func (w *JSONWriter) Write(report *model.BuildingReport) (int, error) {
	return w.writeJSON(NewJSONReport(report, w.version))
}

// WriteSummary outputs one entry per building.
func (w *JSONWriter) WriteSummary(reports []*model.BuildingReport) (int, error) {
	summary := JSONSummary{
		Version:   w.version,
		Buildings: make([]JSONSummaryEntry, 0, len(reports)),
	}
	for _, r := range reports {
		if r == nil {
			continue
		}
		if summary.RunID == "" {
			summary.RunID = r.RunID
		}
		stats := NewStatistics(r)
		summary.Buildings = append(summary.Buildings, JSONSummaryEntry{
			BuildingID:  r.BuildingID,
			Title:       r.Title,
			ReportFile:  r.ReportFile,
			Error:       r.ErrorMessage,
			Cancelled:   r.Cancelled,
			Statistics:  stats,
			TopCategory: stats.TopCategory(),
		})
	}
	return w.writeJSON(summary)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	data = append(data, '\n')

	return w.output.Write(data)
}
