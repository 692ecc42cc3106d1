// Package aggregate folds the extraction results of every document of a
// building into a BuildingAggregate.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/deedscan/internal/document"
	"github.com/nao1215/deedscan/internal/extract"
	"github.com/nao1215/deedscan/internal/model"
)

// DefaultHighValueCutoff is the largest sale price included in the
// sale-price distribution.
const DefaultHighValueCutoff = 300_000_000

// ErrMissingDocumentSet is returned when a building directory is absent or
// holds no documents.
var ErrMissingDocumentSet = errors.New("missing document set")

// Aggregator runs the extractors over every document of a building.
// It holds no state between calls; each Aggregate starts from an empty
// aggregate.
type Aggregator struct {
	extractor *extract.Extractor
	loader    document.Loader
	cutoff    float64
	logger    *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithExtractor sets the extractor applied to each document.
func WithExtractor(e *extract.Extractor) Option {
	return func(a *Aggregator) {
		a.extractor = e
	}
}

// WithLoader sets the document loader.
func WithLoader(l document.Loader) Option {
	return func(a *Aggregator) {
		a.loader = l
	}
}

// WithHighValueCutoff sets the sale-price cutoff of the distribution.
func WithHighValueCutoff(cutoff float64) Option {
	return func(a *Aggregator) {
		a.cutoff = cutoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// New creates an Aggregator with the default extractor, file loader and
// cutoff.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		cutoff: DefaultHighValueCutoff,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.extractor == nil {
		a.extractor = extract.NewExtractor(nil, nil)
	}
	if a.loader == nil {
		a.loader = document.NewFileLoader()
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Cutoff returns the configured high-value cutoff.
func (a *Aggregator) Cutoff() float64 {
	return a.cutoff
}

// Aggregate processes every document in dir in file-name order.
// Documents that cannot be loaded are logged and counted as skipped.
// ErrMissingDocumentSet is returned when dir is absent or empty.
func (a *Aggregator) Aggregate(ctx context.Context, buildingID, title, dir string) (*model.BuildingAggregate, error) {
	paths, err := document.Discover(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingDocumentSet, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no documents in %s", ErrMissingDocumentSet, dir)
	}

	agg := model.NewBuildingAggregate(buildingID, title)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return agg, err
		}

		doc, err := a.loader.Load(path)
		if err != nil {
			a.logger.Warn("skipping unreadable document",
				"building", buildingID,
				"path", path,
				"error", err,
			)
			agg.SkippedDocuments++
			continue
		}

		result := a.extractor.Extract(doc)
		a.logResult(buildingID, result)
		agg.Add(result, a.cutoff)
	}

	a.logger.Info("building aggregated",
		"building", buildingID,
		"documents", len(paths),
		"valid", agg.ValidCount,
		"vacant", agg.VacantCount,
		"skipped", agg.SkippedDocuments,
	)

	return agg, nil
}

func (a *Aggregator) logResult(buildingID string, result model.ExtractionResult) {
	if result.SalePrice == nil {
		a.logger.Debug("no sale found",
			"building", buildingID,
			"document", result.Document,
		)
		return
	}

	if *result.SalePrice > a.cutoff {
		a.logger.Info("skipping high-value sale in distribution",
			"building", buildingID,
			"document", result.Document,
			"sale_price", *result.SalePrice,
			"cutoff", a.cutoff,
		)
		return
	}

	a.logger.Debug("sale found",
		"building", buildingID,
		"document", result.Document,
		"sale_price", *result.SalePrice,
		"party", result.PartyName,
	)
}
