package extract

import "github.com/nao1215/deedscan/internal/model"

// Extractor runs the Scanner and the Harvester over one document.
type Extractor struct {
	scanner   *Scanner
	harvester *Harvester
}

// NewExtractor creates an Extractor. Nil arguments fall back to defaults.
func NewExtractor(scanner *Scanner, harvester *Harvester) *Extractor {
	if scanner == nil {
		scanner = NewScanner()
	}
	if harvester == nil {
		harvester = NewHarvester()
	}
	return &Extractor{scanner: scanner, harvester: harvester}
}

// Extract returns the facts of a single document.
func (e *Extractor) Extract(doc model.Document) model.ExtractionResult {
	result := model.ExtractionResult{
		Document:     doc.Name,
		YearlyValues: e.harvester.Harvest(doc),
	}

	if name, price, ok := e.scanner.Scan(doc); ok {
		result.PartyName = name
		result.SalePrice = &price
	}
	return result
}
