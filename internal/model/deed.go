package model

// DeedRecord is one recorded property-transfer row found in the deed
// section of a document. It exists only while a document is scanned.
type DeedRecord struct {
	// Row is the index of the row within the document.
	Row int `json:"row"`

	// DocType is the document type marker, e.g. "DEED".
	DocType string `json:"doc_type"`

	// AmountRaw is the amount cell with thousands separators and the
	// currency symbol removed.
	AmountRaw string `json:"amount_raw"`

	// PartyName is the receiving party, empty when the row has no name cell.
	PartyName string `json:"party_name,omitempty"`
}

// ExtractionResult holds the facts extracted from one document.
// SalePrice is nil exactly when no deed row satisfied the fallback policy,
// which downstream code treats as a vacant (unsold) unit.
type ExtractionResult struct {
	// Document is the name of the source document.
	Document string `json:"document"`

	// PartyName is the deed holder of the chosen sale, if any.
	PartyName string `json:"party_name,omitempty"`

	// SalePrice is the chosen sale amount.
	SalePrice *float64 `json:"sale_price"`

	// YearlyValues maps a year to its assessed value.
	YearlyValues map[int]float64 `json:"yearly_values"`
}

// Vacant reports whether the document yielded no sale.
func (r ExtractionResult) Vacant() bool {
	return r.SalePrice == nil
}
