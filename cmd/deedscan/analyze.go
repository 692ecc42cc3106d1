package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/deedscan/internal/classify"
	"github.com/nao1215/deedscan/internal/config"
	"github.com/nao1215/deedscan/internal/extract"
	"github.com/nao1215/deedscan/internal/model"
	"github.com/nao1215/deedscan/internal/pipeline"
	"github.com/nao1215/deedscan/internal/report"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [building...]",
		Short: "Aggregate sale prices and yearly values per building",
		Long: `Analyze reads every CSV and XLSX document under <data>/<building>/, extracts
the unit's sale price, deed holder and yearly taxable values, and aggregates
them per building.

For each building it writes:
  <output>/<building>/<building>_deed_holders.txt   one deed holder per line
  <output>/<building>/<building>_report.<ext>       text, JSON or Markdown report

A summary of every building is printed to stdout. Without arguments every
subdirectory of the data directory is analyzed.

Examples:
  # Analyze every building under ./data
  deedscan analyze

  # Analyze two buildings and write Markdown reports
  deedscan analyze --markdown central_park_tower one57

  # Analyze and classify deed holders with a local model
  deedscan analyze --classify --model llama3

  # Harvest the assessed total value column instead of the taxable one
  deedscan analyze --value-column 5`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyzeCmd,
	}

	cmd.Flags().StringP("data", "d", config.DefaultDataDir,
		"Directory holding one subdirectory of documents per building")
	addCommonFlags(cmd)
	cmd.Flags().Float64("cutoff", config.DefaultHighValueCutoff,
		"Largest sale price kept in the distribution and the average")
	cmd.Flags().IntSlice("exclude-year", nil,
		"Year left out of the averaged yearly series (repeatable)")
	cmd.Flags().Int("bins", config.DefaultHistogramBins,
		"Number of sale-price histogram bins")
	cmd.Flags().Int("min-year", config.DefaultMinYear,
		"Smallest year accepted in the yearly value rows")
	cmd.Flags().Int("max-year", config.DefaultMaxYear,
		"Largest year accepted in the yearly value rows")
	cmd.Flags().Int("value-column", config.DefaultValueColumn,
		"Zero-based cell index of the yearly value")
	cmd.Flags().Bool("classify", false,
		"Classify deed holders after aggregation")
	addOracleFlags(cmd)

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := readAnalyzeFlags(cmd, cfg); err != nil {
		return err
	}
	if err := readOracleFlags(cmd, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if cfg.Classify {
		if err := cfg.ValidateClassify(); err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
	}

	logger := setupLogger(cmd, cfg)

	buildings, err := resolveBuildings(cfg, cfg.DataDir)
	if err != nil {
		return err
	}

	var classifier *classify.Classifier
	if cfg.Classify {
		if classifier, err = newClassifier(cfg, logger); err != nil {
			return err
		}
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	logger.Info("starting analysis",
		"data", cfg.DataDir,
		"output", cfg.OutputDir,
		"buildings", buildings,
		"classify", cfg.Classify,
		"batchSize", cfg.BatchSize,
	)

	newAggregator := newAggregatorFactory(cfg, logger)
	reportStep := pipeline.NewReportStep(report.FormatFromFlags(cfg.JSONReport, cfg.MarkdownReport), getVersion())

	return runBatch(ctx, cmd, cfg, buildings, func(r *model.BuildingReport) *pipeline.Pipeline {
		return pipeline.NewAnalyzePipeline(
			newAggregator(r.HighValueCutoff),
			classifier,
			reportStep,
			pipeline.WithLogger(logger),
		)
	}, logger)
}

// readAnalyzeFlags fills the data, aggregation and extraction settings of cfg.
func readAnalyzeFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	var err error
	if cfg.DataDir, err = flags.GetString("data"); err != nil {
		return err
	}
	if cfg.HighValueCutoff, err = flags.GetFloat64("cutoff"); err != nil {
		return err
	}
	if cfg.ExcludedYears, err = flags.GetIntSlice("exclude-year"); err != nil {
		return err
	}
	if cfg.HistogramBins, err = flags.GetInt("bins"); err != nil {
		return err
	}
	if cfg.MinYear, err = flags.GetInt("min-year"); err != nil {
		return err
	}
	if cfg.MaxYear, err = flags.GetInt("max-year"); err != nil {
		return err
	}
	if cfg.ValueColumn, err = flags.GetInt("value-column"); err != nil {
		return err
	}
	if cfg.Classify, err = flags.GetBool("classify"); err != nil {
		return err
	}
	return nil
}

// newExtractor builds the document extractor from the harvest settings.
func newExtractor(cfg *config.Config) *extract.Extractor {
	return extract.NewExtractor(
		extract.NewScanner(),
		extract.NewHarvester(
			extract.WithYearRange(cfg.MinYear, cfg.MaxYear),
			extract.WithValueColumn(cfg.ValueColumn),
		),
	)
}
