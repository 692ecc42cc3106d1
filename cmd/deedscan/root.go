package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for deedscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deedscan",
		Short: "Analyze property deed records per building",
		Long: `deedscan extracts sale prices, deed holders, and yearly taxable values
from per-unit property records (CSV or XLSX), aggregates them per building,
and classifies each deed holder as Individual, Trust, LLC, Corporation, or Other.

Documents are read from <data>/<building>/. Deed-holder lists and reports are
written to <output>/<building>/.

API keys are read from the environment only:
  SERPAPI_API_KEY     enables --enrich lookups
  ANTHROPIC_API_KEY   enables --oracle anthropic
Both may also be given with the DEEDSCAN_ prefix.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .deedscan in current or home directory)")
	cmd.PersistentFlags().Bool("log-json", false, "Write log records to stderr as JSON")

	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewClassifyCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
