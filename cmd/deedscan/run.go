package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/deedscan/internal/aggregate"
	"github.com/nao1215/deedscan/internal/classify"
	"github.com/nao1215/deedscan/internal/config"
	"github.com/nao1215/deedscan/internal/document"
	"github.com/nao1215/deedscan/internal/enrich"
	deedlog "github.com/nao1215/deedscan/internal/log"
	"github.com/nao1215/deedscan/internal/model"
	"github.com/nao1215/deedscan/internal/oracle"
	"github.com/nao1215/deedscan/internal/pipeline"
	"github.com/nao1215/deedscan/internal/report"
)

// ErrAllBuildingsFailed is returned when no building of a run succeeded.
var ErrAllBuildingsFailed = errors.New("every building failed")

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// setupLogger creates the redacting logger on the command's stderr.
func setupLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	if cfg.LogJSON {
		return deedlog.NewSecureJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
	}
	return deedlog.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
}

// resolveBuildings returns the explicitly requested buildings, or every
// building directory under root.
func resolveBuildings(cfg *config.Config, root string) ([]string, error) {
	if len(cfg.Buildings) > 0 {
		return cfg.Buildings, nil
	}
	ids, err := document.Buildings(root)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w in %s", errNoBuildings, root)
	}
	return ids, nil
}

// newOracle creates the classification backend selected by cfg.
func newOracle(cfg *config.Config) (classify.Oracle, error) {
	switch cfg.Oracle {
	case config.OracleAnthropic:
		return oracle.NewAnthropic(cfg.Secrets.AnthropicAPIKey, cfg.Model, cfg.Labels)
	default:
		o := oracle.NewOllama(cfg.Model,
			oracle.WithOllamaCommand(cfg.OllamaCommand),
			oracle.WithOllamaLabels(cfg.Labels),
		)
		if err := o.Check(); err != nil {
			return nil, err
		}
		return o, nil
	}
}

// newClassifier wires the oracle, the optional SerpAPI enricher and the
// retry settings into a Classifier.
func newClassifier(cfg *config.Config, logger *slog.Logger) (*classify.Classifier, error) {
	o, err := newOracle(cfg)
	if err != nil {
		return nil, err
	}

	opts := []classify.Option{
		classify.WithLabels(cfg.Labels),
		classify.WithTimeout(cfg.OracleTimeout),
		classify.WithMaxAttempts(cfg.OracleAttempts),
		classify.WithBackoff(cfg.OracleBackoff),
		classify.WithLogger(logger),
	}
	if cfg.Enrich {
		opts = append(opts, classify.WithEnricher(enrich.NewSerpAPI(
			cfg.Secrets.SerpAPIKey,
			enrich.WithInterval(cfg.EnrichInterval),
			enrich.WithLogger(logger),
		)))
	}

	logger.Info("classifier ready",
		"oracle", cfg.Oracle,
		"model", cfg.Model,
		"labels", cfg.Labels,
		"enrich", cfg.Enrich,
	)
	return classify.New(o, opts...)
}

// newAggregatorFactory returns a function building an Aggregator for a
// report's cutoff. The extractor is shared; it holds no state.
func newAggregatorFactory(cfg *config.Config, logger *slog.Logger) func(cutoff float64) *aggregate.Aggregator {
	extractor := newExtractor(cfg)
	return func(cutoff float64) *aggregate.Aggregator {
		return aggregate.New(
			aggregate.WithExtractor(extractor),
			aggregate.WithHighValueCutoff(cutoff),
			aggregate.WithLogger(logger),
		)
	}
}

// reportFactory creates building reports carrying the per-building
// settings resolved from the config file and the flags.
func reportFactory(cfg *config.Config) func(runID, buildingID string) *model.BuildingReport {
	return func(runID, buildingID string) *model.BuildingReport {
		bc := cfg.Building(buildingID)
		r := model.NewBuildingReportWithRunID(runID, buildingID, bc.Title)
		r.SourceDir = bc.Dir
		r.OutputDir = cfg.OutputDir
		r.ExcludedYears = bc.ExcludeYears
		r.HighValueCutoff = bc.HighValueCutoff
		r.HistogramBins = cfg.HistogramBins
		r.Labels = slices.Clone(cfg.Labels)
		return r
	}
}

// runBatch processes buildings with the pipelines built by newPipeline,
// prints progress to stderr and the summary to stdout.
func runBatch(
	ctx context.Context,
	cmd *cobra.Command,
	cfg *config.Config,
	buildings []string,
	newPipeline func(*model.BuildingReport) *pipeline.Pipeline,
	logger *slog.Logger,
) error {
	progress := cmd.ErrOrStderr()
	fmt.Fprintf(progress, "Processing %d building(s) (concurrency: %d)...\n\n", len(buildings), cfg.BatchSize)

	bp := pipeline.NewBatchProcessor(newPipeline,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
		pipeline.WithReportFactory(reportFactory(cfg)),
	)

	startTime := time.Now()
	reports := make([]*model.BuildingReport, len(buildings))
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, buildings, func(r *model.BuildingReport, index int) {
		mu.Lock()
		defer mu.Unlock()
		reports[index] = r
		printProgress(progress, r, index, len(buildings))
	})

	fmt.Fprintf(progress, "\nCompleted in %s\n\n", time.Since(startTime).Round(time.Millisecond))

	if werr := writeSummary(cmd.OutOrStdout(), cfg, reports); werr != nil {
		return werr
	}

	if err != nil {
		return err
	}
	return allFailed(reports)
}

// writeSummary writes the run summary to stdout and, when configured, to
// cfg.SummaryFile in the same format.
func writeSummary(stdout io.Writer, cfg *config.Config, reports []*model.BuildingReport) error {
	format := report.FormatFromFlags(cfg.JSONReport, cfg.MarkdownReport)
	writers := []report.Writer{report.NewWriter(format, stdout, getVersion())}

	var f *os.File
	if cfg.SummaryFile != "" {
		var err error
		f, err = os.Create(cfg.SummaryFile) //nolint:gosec // path is given by the user
		if err != nil {
			return fmt.Errorf("failed to create summary file: %w", err)
		}
		writers = append(writers, report.NewWriter(format, f, getVersion()))
	}

	_, err := report.NewMultiWriter(writers...).WriteSummary(reports)
	if f != nil {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// printProgress writes one line per finished building.
func printProgress(w io.Writer, r *model.BuildingReport, index, total int) {
	prefix := fmt.Sprintf("[%d/%d] %s", index+1, total, r.Title)
	switch {
	case r.Cancelled:
		fmt.Fprintf(w, "%s: cancelled\n", prefix)
	case errors.Is(r.Error, aggregate.ErrMissingDocumentSet), errors.Is(r.Error, pipeline.ErrNoDeedHolderFile):
		fmt.Fprintf(w, "%s: skipped (%v)\n", prefix, r.Error)
	case r.Failed():
		fmt.Fprintf(w, "%s: failed (%s)\n", prefix, r.ErrorMessage)
	case r.ReportFile != "":
		fmt.Fprintf(w, "%s: report written to %s\n", prefix, r.ReportFile)
	default:
		fmt.Fprintf(w, "%s: done\n", prefix)
	}
}

// allFailed returns ErrAllBuildingsFailed when no report succeeded.
func allFailed(reports []*model.BuildingReport) error {
	var failed int
	for _, r := range reports {
		if r == nil || r.Failed() {
			failed++
		}
	}
	if len(reports) > 0 && failed == len(reports) {
		return fmt.Errorf("%w (%d building(s))", ErrAllBuildingsFailed, failed)
	}
	return nil
}
