package document

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/deedscan/internal/model"
)

// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// utf8BOM is stripped from the first cell of CSV files exported by Excel.
const utf8BOM = "\ufeff"

// Loader reads one document from disk.
type Loader interface {
	Load(path string) (model.Document, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string) (model.Document, error)

// Load calls f(path).
func (f LoaderFunc) Load(path string) (model.Document, error) {
	return f(path)
}

// FileLoader dispatches on the file extension.
type FileLoader struct{}

// NewFileLoader creates a FileLoader.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load reads a CSV or XLSX document.
func (l *FileLoader) Load(path string) (model.Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtCSV:
		return LoadCSV(path)
	case ExtXLSX, ExtXLSM:
		return LoadXLSX(path)
	default:
		return model.Document{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadCSV reads a comma-separated document.
func LoadCSV(path string) (model.Document, error) {
	f, err := os.Open(path) //nolint:gosec // paths come from directory discovery
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(filepath.Base(path), f)
}

// ReadCSV parses comma-separated rows from r. Rows may have different
// widths and quotes are handled leniently.
func ReadCSV(name string, r io.Reader) (model.Document, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], utf8BOM)
	}

	return model.NewDocument(name, rows), nil
}

// LoadXLSX reads every sheet of a workbook in order into one document.
func LoadXLSX(path string) (model.Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var rows [][]string
	for _, sheet := range f.GetSheetList() {
		sheetRows, err := f.GetRows(sheet)
		if err != nil {
			return model.Document{}, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, path, err)
		}
		rows = append(rows, sheetRows...)
	}

	return model.NewDocument(filepath.Base(path), rows), nil
}
