package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/deedscan/internal/model"
	"github.com/nao1215/deedscan/internal/pipeline"
	"github.com/nao1215/deedscan/internal/report"
)

// NewClassifyCmd creates the classify command.
func NewClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [building...]",
		Short: "Classify the deed holders written by analyze",
		Long: `Classify reads <output>/<building>/<building>_deed_holders.txt written by a
previous analyze run, asks the oracle for the legal entity type of every
unique deed holder, and tallies the categories per building.

Each unique name is classified once. A name the oracle cannot classify,
after retries, counts as Other. The category tally is written to
<output>/<building>/<building>_categories.<ext>, next to the analyze report,
and a summary is printed to stdout. Without arguments every
building directory under the output directory is classified.

Examples:
  # Classify every building with the local llama3 model
  deedscan classify

  # Use the Anthropic API (needs ANTHROPIC_API_KEY)
  deedscan classify --oracle anthropic one57

  # Enrich names with a web search snippet first (needs SERPAPI_API_KEY)
  deedscan classify --enrich --markdown`,
		Args: cobra.ArbitraryArgs,
		RunE: runClassifyCmd,
	}

	addCommonFlags(cmd)
	addOracleFlags(cmd)

	return cmd
}

// runClassifyCmd executes the classify command.
func runClassifyCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := readOracleFlags(cmd, cfg); err != nil {
		return err
	}
	cfg.Classify = true

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.ValidateClassify(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg)

	buildings, err := resolveBuildings(cfg, cfg.OutputDir)
	if err != nil {
		return err
	}

	classifier, err := newClassifier(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	logger.Info("starting classification",
		"output", cfg.OutputDir,
		"buildings", buildings,
		"oracle", cfg.Oracle,
		"batchSize", cfg.BatchSize,
	)

	reportStep := pipeline.NewCategoriesStep(report.FormatFromFlags(cfg.JSONReport, cfg.MarkdownReport), getVersion())

	return runBatch(ctx, cmd, cfg, buildings, func(*model.BuildingReport) *pipeline.Pipeline {
		return pipeline.NewClassifyPipeline(classifier, reportStep, pipeline.WithLogger(logger))
	}, logger)
}
