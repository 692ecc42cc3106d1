package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/deedscan/internal/aggregate"
	"github.com/nao1215/deedscan/internal/model"
)

// BatchProcessor runs a fresh pipeline for each building, up to
// concurrency buildings at a time. A failing building never stops the
// batch; its error is kept in its report.
type BatchProcessor struct {
	// pipelineFactory creates the pipeline for one building.
	pipelineFactory func(report *model.BuildingReport) *Pipeline

	// reportFactory creates the initial report for a building id.
	reportFactory func(runID, buildingID string) *model.BuildingReport

	runID       string
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of buildings processed at once.
// The default is 1.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithReportFactory sets how the initial report of a building is built,
// typically to fill in its title and directories.
func WithReportFactory(f func(runID, buildingID string) *model.BuildingReport) BatchOption {
	return func(b *BatchProcessor) {
		b.reportFactory = f
	}
}

// WithRunID sets the run id shared by every report of the batch.
func WithRunID(runID string) BatchOption {
	return func(b *BatchProcessor) {
		if runID != "" {
			b.runID = runID
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func(report *model.BuildingReport) *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		reportFactory: func(runID, buildingID string) *model.BuildingReport {
			return model.NewBuildingReportWithRunID(runID, buildingID, buildingID)
		},
		runID:       uuid.NewString(),
		concurrency: 1,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// RunID returns the id shared by the reports of this batch.
func (bp *BatchProcessor) RunID() string {
	return bp.runID
}

// ProcessBatch processes every building and returns their reports in
// input order, including failed ones. The error is non-nil only when the
// batch was cancelled; buildings not started by then have nil reports.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, buildings []string) ([]*model.BuildingReport, error) {
	results := make([]*model.BuildingReport, len(buildings))
	err := bp.ProcessBatchWithCallback(ctx, buildings, func(report *model.BuildingReport, index int) {
		// each index is written by exactly one goroutine
		results[index] = report
	})
	return results, err
}

// ProcessBatchWithCallback processes every building and calls callback
// with each finished report and its index in buildings. The callback runs
// on the worker goroutine and must be safe for concurrent use when
// concurrency is above one.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	buildings []string,
	callback func(report *model.BuildingReport, index int),
) error {
	bp.logger.Info("starting batch processing",
		"run_id", bp.runID,
		"total_buildings", len(buildings),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, building := range buildings {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			bp.logger.Info("processing building",
				"building", building,
				"index", i+1,
				"total", len(buildings),
			)

			report := bp.reportFactory(bp.runID, building)
			err := bp.pipelineFactory(report).Execute(gctx, report)
			bp.logOutcome(building, err)

			callback(report, i)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_buildings", len(buildings),
		"elapsed", time.Since(startTime),
	)

	if err == nil {
		err = ctx.Err()
	}
	return err
}

func (bp *BatchProcessor) logOutcome(building string, err error) {
	switch {
	case err == nil:
		bp.logger.Info("building completed", "building", building)
	case errors.Is(err, aggregate.ErrMissingDocumentSet), errors.Is(err, ErrNoDeedHolderFile):
		bp.logger.Warn("building skipped", "building", building, "reason", err)
	default:
		bp.logger.Warn("building failed", "building", building, "error", err)
	}
}
