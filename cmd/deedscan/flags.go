package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/deedscan/internal/config"
	"github.com/nao1215/deedscan/internal/oracle"
)

// addCommonFlags registers the flags shared by analyze and classify.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Directory receiving deed-holder lists and reports")
	cmd.Flags().Bool("xdg", false,
		"Use the XDG data directory instead of --output")
	cmd.Flags().String("summary-file", "",
		"Also write the run summary to this file")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of buildings processed concurrently")
	cmd.Flags().BoolP("json", "j", false,
		"Write JSON reports (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Write Markdown reports with mermaid charts (mutually exclusive with --json)")
}

// addOracleFlags registers the entity classifier flags.
func addOracleFlags(cmd *cobra.Command) {
	cmd.Flags().String("oracle", config.DefaultOracle,
		"Classification backend: ollama or anthropic")
	cmd.Flags().String("model", config.DefaultModel,
		"Model name (default for anthropic: "+oracle.DefaultAnthropicModel+")")
	cmd.Flags().String("ollama-bin", config.DefaultOllamaCommand,
		"Path of the ollama executable")
	cmd.Flags().StringSlice("labels", nil,
		"Category labels (default Individual,Trust,LLC,Corporation,Other); must include Other")
	cmd.Flags().Duration("oracle-timeout", config.DefaultOracleTimeout,
		"Timeout of a single classification call")
	cmd.Flags().Int("attempts", config.DefaultOracleAttempts,
		"Number of tries per deed holder")
	cmd.Flags().Duration("backoff", config.DefaultOracleBackoff,
		"Base delay between tries, multiplied by the attempt number")
	cmd.Flags().Bool("enrich", false,
		"Look up each deed holder on SerpAPI before classifying (needs SERPAPI_API_KEY)")
	cmd.Flags().Duration("enrich-interval", config.DefaultEnrichInterval,
		"Minimum delay between SerpAPI lookups")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getLogJSONFlag retrieves the log-json flag from the command or its parent.
func getLogJSONFlag(cmd *cobra.Command) bool {
	logJSON, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		logJSON, err = cmd.Root().PersistentFlags().GetBool("log-json")
		if err != nil {
			return false
		}
	}
	return logJSON
}

// getConfigFlag retrieves the config file flag from the command or its parent.
func getConfigFlag(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path, err = cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return ""
		}
	}
	return path
}

// buildConfig creates a Config from the common flags, the config file and
// the environment.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.OutputDir, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	useXDG, err := flags.GetBool("xdg")
	if err != nil {
		return nil, err
	}
	if useXDG {
		cfg.OutputDir = config.XDGDataDir()
	}
	if cfg.SummaryFile, err = flags.GetString("summary-file"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.LogJSON = getLogJSONFlag(cmd)
	cfg.ConfigFilePath = getConfigFlag(cmd)
	cfg.Buildings = args

	if cfg.BuildingConfigs, err = loadBuildingConfigs(cfg.ConfigFilePath); err != nil {
		return nil, err
	}

	if cfg.Secrets, err = config.LoadSecrets(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadBuildingConfigs loads the config file. If the user explicitly
// specified a path it must exist; otherwise a missing file yields an empty
// configuration.
func loadBuildingConfigs(explicitPath string) (*config.File, error) {
	path := config.FindConfigFile(explicitPath)
	if path == "" {
		if explicitPath != "" {
			return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, explicitPath)
		}
		return &config.File{Buildings: make(map[string]config.BuildingConfig)}, nil
	}

	cf, err := config.LoadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return cf, nil
}

// readOracleFlags fills the classifier settings of cfg.
func readOracleFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	var err error
	if cfg.Oracle, err = flags.GetString("oracle"); err != nil {
		return err
	}
	if cfg.Model, err = flags.GetString("model"); err != nil {
		return err
	}
	if cfg.Oracle == config.OracleAnthropic && !flags.Changed("model") {
		cfg.Model = oracle.DefaultAnthropicModel
	}
	if cfg.OllamaCommand, err = flags.GetString("ollama-bin"); err != nil {
		return err
	}

	labels, err := flags.GetStringSlice("labels")
	if err != nil {
		return err
	}
	if len(labels) > 0 {
		cfg.Labels = labels
	}

	if cfg.OracleTimeout, err = flags.GetDuration("oracle-timeout"); err != nil {
		return err
	}
	if cfg.OracleAttempts, err = flags.GetInt("attempts"); err != nil {
		return err
	}
	if cfg.OracleBackoff, err = flags.GetDuration("backoff"); err != nil {
		return err
	}
	if cfg.Enrich, err = flags.GetBool("enrich"); err != nil {
		return err
	}
	if cfg.EnrichInterval, err = flags.GetDuration("enrich-interval"); err != nil {
		return err
	}
	return nil
}

// errNoBuildings is returned when there is nothing to process.
var errNoBuildings = errors.New("no buildings found")
