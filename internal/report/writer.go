package report

import (
	"io"
	"path/filepath"

	"github.com/nao1215/deedscan/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the report of one building.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.BuildingReport) (int, error)

	// WriteSummary outputs a short overview of several buildings.
	WriteSummary(reports []*model.BuildingReport) (int, error)
}

// Format selects a report writer.
type Format string

// Supported report formats.
const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// FormatFromFlags maps the --json and --markdown flags to a Format.
func FormatFromFlags(jsonReport, markdownReport bool) Format {
	switch {
	case jsonReport:
		return FormatJSON
	case markdownReport:
		return FormatMarkdown
	default:
		return FormatText
	}
}

// Extension returns the file extension of the format without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMarkdown:
		return "md"
	default:
		return "txt"
	}
}

// Path returns <outputDir>/<building>/<building>_report.<ext>.
func Path(outputDir, buildingID string, f Format) string {
	return filepath.Join(outputDir, buildingID, buildingID+"_report."+f.Extension())
}

// CategoriesPath returns <outputDir>/<building>/<building>_categories.<ext>,
// the artifact of a classify run. It sits next to the analyze report.
func CategoriesPath(outputDir, buildingID string, f Format) string {
	return filepath.Join(outputDir, buildingID, buildingID+"_categories."+f.Extension())
}

// NewWriter creates the writer for format f. version is embedded in JSON
// output and the Markdown footer.
func NewWriter(f Format, output io.Writer, version string) Writer {
	switch f {
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint(), WithVersion(version))
	case FormatMarkdown:
		return NewMarkdownWriter(output, WithMarkdownVersion(version))
	default:
		return NewSimpleWriter(output)
	}
}

// MultiWriter writes to multiple Writers in turn.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.BuildingReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteSummary outputs the summary to all configured Writers.
func (m *MultiWriter) WriteSummary(reports []*model.BuildingReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteSummary(reports)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
