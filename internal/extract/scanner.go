package extract

import (
	"strings"

	"github.com/nao1215/deedscan/internal/model"
)

// Markers of the deed section.
const (
	// DeedSectionMarker is the first cell of the header row that precedes
	// the deed records.
	DeedSectionMarker = "Document Type"

	// DeedDocType is the first cell of a deed record row.
	DeedDocType = "DEED"
)

// Column positions within a deed record row.
const (
	amountColumn = 2
	partyColumn  = 4
)

// Scanner finds the sale price and deed holder of a document.
//
// The deed section starts after the first DeedSectionMarker row. Among its
// DEED rows, the first one whose amount is the placeholder "-" is the
// trigger point; the first numeric DEED row after it is preferred. When no
// such row exists the first numeric DEED row of the whole section is used.
// When several placeholders precede a sale, only the first one triggers.
type Scanner struct {
	sectionMarker string
	docType       string
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithSectionMarker overrides the header marker of the deed section.
func WithSectionMarker(marker string) ScannerOption {
	return func(s *Scanner) {
		s.sectionMarker = marker
	}
}

// WithDocType overrides the document type of deed rows.
func WithDocType(docType string) ScannerOption {
	return func(s *Scanner) {
		s.docType = docType
	}
}

// NewScanner creates a Scanner with the standard markers.
func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{
		sectionMarker: DeedSectionMarker,
		docType:       DeedDocType,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SectionStart returns the index of the first row after the deed section
// marker. ok is false when the document has no marker.
func (s *Scanner) SectionStart(doc model.Document) (start int, ok bool) {
	for i := range doc.Rows {
		if doc.FirstCell(i) == s.sectionMarker {
			return i + 1, true
		}
	}
	return 0, false
}

// Records returns every deed row of the deed section in document order.
// Rows too short to hold an amount carry an empty AmountRaw.
func (s *Scanner) Records(doc model.Document) []model.DeedRecord {
	start, ok := s.SectionStart(doc)
	if !ok {
		return nil
	}

	records := make([]model.DeedRecord, 0)
	for i := start; i < doc.Len(); i++ {
		if doc.FirstCell(i) != s.docType {
			continue
		}
		rec := model.DeedRecord{Row: i, DocType: s.docType}
		if raw, ok := doc.Cell(i, amountColumn); ok {
			rec.AmountRaw = cleanAmount(raw)
		}
		if len(doc.Rows[i]) > partyColumn {
			rec.PartyName = strings.TrimSpace(doc.Rows[i][partyColumn])
		}
		records = append(records, rec)
	}
	return records
}

// Scan returns the deed holder and sale price of a document.
// ok is false when no deed row satisfies the fallback policy, meaning the
// unit is vacant or unsold.
func (s *Scanner) Scan(doc model.Document) (partyName string, salePrice float64, ok bool) {
	records := s.Records(doc)

	trigger := -1
	for i, rec := range records {
		if rec.AmountRaw == AmountPlaceholder {
			trigger = i
			break
		}
	}

	if trigger >= 0 {
		if rec, amount, found := firstSale(records[trigger+1:]); found {
			return rec.PartyName, amount, true
		}
	}

	if rec, amount, found := firstSale(records); found {
		return rec.PartyName, amount, true
	}
	return "", 0, false
}

// firstSale returns the first record with a numeric amount.
func firstSale(records []model.DeedRecord) (model.DeedRecord, float64, bool) {
	for _, rec := range records {
		if amount, ok := parseAmount(rec.AmountRaw); ok {
			return rec, amount, true
		}
	}
	return model.DeedRecord{}, 0, false
}
