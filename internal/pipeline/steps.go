package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/deedscan/internal/aggregate"
	"github.com/nao1215/deedscan/internal/classify"
	"github.com/nao1215/deedscan/internal/holders"
	"github.com/nao1215/deedscan/internal/model"
	"github.com/nao1215/deedscan/internal/report"
)

var (
	// ErrNoAggregate is returned by steps that need aggregation results
	// when the aggregate step has not run.
	ErrNoAggregate = errors.New("building has not been aggregated")

	// ErrNoDeedHolderFile is returned when the classify flow finds no
	// deed-holder file for a building.
	ErrNoDeedHolderFile = errors.New("no deed-holder file")
)

// AggregateStep extracts and folds every document of the building.
type AggregateStep struct {
	aggregator *aggregate.Aggregator
}

// NewAggregateStep creates an aggregation step.
func NewAggregateStep(aggregator *aggregate.Aggregator) *AggregateStep {
	return &AggregateStep{aggregator: aggregator}
}

// Name returns the step name.
func (s *AggregateStep) Name() string {
	return "aggregate"
}

// Do aggregates report.SourceDir into report.Aggregate.
func (s *AggregateStep) Do(ctx context.Context, r *model.BuildingReport) error {
	agg, err := s.aggregator.Aggregate(ctx, r.BuildingID, r.Title, r.SourceDir)
	if err != nil {
		return err
	}
	r.Aggregate = agg
	r.DeedHolders = agg.DeedHolderNames
	return nil
}

// DeedHolderStep writes the deed-holder list of an aggregated building.
type DeedHolderStep struct {
	logger *slog.Logger
}

// NewDeedHolderStep creates a deed-holder sink step.
func NewDeedHolderStep(logger *slog.Logger) *DeedHolderStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeedHolderStep{logger: logger}
}

// Name returns the step name.
func (s *DeedHolderStep) Name() string {
	return "deed_holders"
}

// Do overwrites <output>/<building>/<building>_deed_holders.txt.
func (s *DeedHolderStep) Do(_ context.Context, r *model.BuildingReport) error {
	if r.Aggregate == nil {
		return ErrNoAggregate
	}
	path := holders.Path(r.OutputDir, r.BuildingID)
	if err := holders.Write(path, r.Aggregate.DeedHolderNames); err != nil {
		return err
	}
	r.DeedHolderFile = path
	s.logger.Info("deed holders written",
		"building", r.BuildingID,
		"path", path,
		"names", len(r.Aggregate.DeedHolderNames),
	)
	return nil
}

// LoadHoldersStep reads back a deed-holder file written by an earlier run.
type LoadHoldersStep struct{}

// NewLoadHoldersStep creates a deed-holder source step.
func NewLoadHoldersStep() *LoadHoldersStep {
	return &LoadHoldersStep{}
}

// Name returns the step name.
func (s *LoadHoldersStep) Name() string {
	return "load_deed_holders"
}

// Do fills report.DeedHolders from the building's deed-holder file.
func (s *LoadHoldersStep) Do(_ context.Context, r *model.BuildingReport) error {
	path := holders.Path(r.OutputDir, r.BuildingID)
	names, err := holders.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNoDeedHolderFile, path)
		}
		return err
	}
	r.DeedHolders = names
	r.DeedHolderFile = path
	return nil
}

// ClassifyStep tallies the legal-entity categories of the deed holders.
type ClassifyStep struct {
	classifier *classify.Classifier
}

// NewClassifyStep creates a classification step.
func NewClassifyStep(classifier *classify.Classifier) *ClassifyStep {
	return &ClassifyStep{classifier: classifier}
}

// Name returns the step name.
func (s *ClassifyStep) Name() string {
	return "classify"
}

// Do classifies report.DeedHolders into report.Tally. It never fails;
// unclassifiable names count as the fallback category.
func (s *ClassifyStep) Do(ctx context.Context, r *model.BuildingReport) error {
	r.Tally = s.classifier.Classify(ctx, r.DeedHolders)
	r.Labels = s.classifier.Labels()
	return nil
}

// ReportStep renders the building report into the building's output
// directory.
type ReportStep struct {
	format  report.Format
	version string
	path    func(outputDir, buildingID string, f report.Format) string
}

// NewReportStep creates a report step writing
// <output>/<building>/<building>_report.<ext>.
func NewReportStep(format report.Format, version string) *ReportStep {
	return &ReportStep{format: format, version: version, path: report.Path}
}

// NewCategoriesStep creates a report step writing
// <output>/<building>/<building>_categories.<ext>. The analyze report is
// left untouched.
func NewCategoriesStep(format report.Format, version string) *ReportStep {
	return &ReportStep{format: format, version: version, path: report.CategoriesPath}
}

// Name returns the step name.
func (s *ReportStep) Name() string {
	return "report"
}

// Do writes the report file and records its path in r.ReportFile.
func (s *ReportStep) Do(_ context.Context, r *model.BuildingReport) error {
	path := s.path(r.OutputDir, r.BuildingID, s.format)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	f, err := os.Create(path) //nolint:gosec // path is built from the output directory
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if _, err := report.NewWriter(s.format, f, s.version).Write(r); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}

	r.ReportFile = path
	return nil
}

// NewAnalyzePipeline builds the analyze flow. A nil classifier leaves out
// classification and a nil reportStep leaves out the report.
func NewAnalyzePipeline(
	aggregator *aggregate.Aggregator,
	classifier *classify.Classifier,
	reportStep *ReportStep,
	opts ...Option,
) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewAggregateStep(aggregator),
		NewDeedHolderStep(p.logger),
	)
	if classifier != nil {
		p.AddStep(NewClassifyStep(classifier))
	}
	if reportStep != nil {
		p.AddStep(reportStep)
	}
	return p
}

// NewClassifyPipeline builds the classify flow over existing deed-holder
// files. A nil reportStep leaves out the report.
func NewClassifyPipeline(classifier *classify.Classifier, reportStep *ReportStep, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewLoadHoldersStep(),
		NewClassifyStep(classifier),
	)
	if reportStep != nil {
		p.AddStep(reportStep)
	}
	return p
}
