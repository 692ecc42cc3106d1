package config

import (
	"path/filepath"
	"slices"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/deedscan/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "deedscan"

	// DefaultDataDir holds one subdirectory of documents per building.
	DefaultDataDir = "data"

	// DefaultOutputDir receives deed-holder files and reports.
	DefaultOutputDir = "output"

	// DefaultHighValueCutoff excludes portfolio or bulk transfers from the
	// sale-price distribution.
	DefaultHighValueCutoff = 300_000_000

	// DefaultMinYear and DefaultMaxYear bound the yearly value rows.
	DefaultMinYear = 2000
	DefaultMaxYear = 2100

	// DefaultValueColumn is the zero-based cell index of the taxable value.
	DefaultValueColumn = 7

	// DefaultHistogramBins is the number of sale-price histogram bins.
	DefaultHistogramBins = model.DefaultHistogramBins

	// DefaultBatchSize of 1 processes buildings one at a time.
	DefaultBatchSize = 1

	// OracleOllama runs a local model through the ollama CLI.
	OracleOllama = "ollama"

	// OracleAnthropic calls the Anthropic Messages API.
	OracleAnthropic = "anthropic"

	// DefaultOracle is the classification backend used by the original
	// workflow.
	DefaultOracle = OracleOllama

	// DefaultModel is the ollama model name.
	DefaultModel = "llama3"

	// DefaultOllamaCommand is looked up on PATH.
	DefaultOllamaCommand = "ollama"

	// DefaultOracleTimeout bounds a single classification call.
	DefaultOracleTimeout = 2 * time.Minute

	// DefaultOracleAttempts is the number of tries per deed holder.
	DefaultOracleAttempts = 2

	// DefaultOracleBackoff is the base delay between tries.
	DefaultOracleBackoff = time.Second

	// DefaultEnrichInterval keeps SerpAPI lookups under one per second.
	DefaultEnrichInterval = time.Second
)

// Config holds all configuration options for deedscan.
// It is populated from CLI flags and passed down explicitly.
type Config struct {
	// DataDir contains one subdirectory of documents per building.
	DataDir string

	// OutputDir receives <building>/<building>_deed_holders.txt and reports.
	OutputDir string

	// Buildings restricts processing to these building ids.
	// Empty means every subdirectory of DataDir (analyze) or OutputDir
	// (classify).
	Buildings []string

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the usual locations.
	ConfigFilePath string

	// BuildingConfigs holds per-building settings from the config file.
	BuildingConfigs *File

	// HighValueCutoff is the largest sale price kept in the distribution.
	HighValueCutoff float64

	// MinYear and MaxYear bound the accepted yearly value rows.
	MinYear int
	MaxYear int

	// ValueColumn is the zero-based cell index of the yearly value.
	ValueColumn int

	// HistogramBins is the number of sale-price histogram bins.
	HistogramBins int

	// ExcludedYears are left out of the averaged yearly series.
	ExcludedYears []int

	// Labels is the classification label set. It must contain "Other".
	Labels []string

	// Classify runs the entity classifier right after aggregation.
	Classify bool

	// Oracle selects the classification backend: "ollama" or "anthropic".
	Oracle string

	// Model is the model name passed to the oracle.
	Model string

	// OllamaCommand is the ollama executable.
	OllamaCommand string

	// OracleTimeout bounds a single oracle call.
	OracleTimeout time.Duration

	// OracleAttempts is the number of tries per deed holder.
	OracleAttempts int

	// OracleBackoff is the base delay between tries.
	OracleBackoff time.Duration

	// Enrich looks up each deed holder on SerpAPI before classification.
	Enrich bool

	// EnrichInterval is the minimum delay between SerpAPI lookups.
	EnrichInterval time.Duration

	// JSONReport writes the building report as JSON.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport writes the building report as GitHub Flavored Markdown
	// with mermaid charts. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// SummaryFile, when set, also receives the run summary written to
	// stdout.
	SummaryFile string

	// Verbose enables debug logging.
	Verbose bool

	// LogJSON writes log records as JSON instead of text.
	LogJSON bool

	// BatchSize is the number of buildings processed concurrently.
	BatchSize int

	// Secrets holds API keys read from the environment.
	Secrets Secrets
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		DataDir:         DefaultDataDir,
		OutputDir:       DefaultOutputDir,
		HighValueCutoff: DefaultHighValueCutoff,
		MinYear:         DefaultMinYear,
		MaxYear:         DefaultMaxYear,
		ValueColumn:     DefaultValueColumn,
		HistogramBins:   DefaultHistogramBins,
		Labels:          model.DefaultLabels(),
		Oracle:          DefaultOracle,
		Model:           DefaultModel,
		OllamaCommand:   DefaultOllamaCommand,
		OracleTimeout:   DefaultOracleTimeout,
		OracleAttempts:  DefaultOracleAttempts,
		OracleBackoff:   DefaultOracleBackoff,
		EnrichInterval:  DefaultEnrichInterval,
		BatchSize:       DefaultBatchSize,
	}
}

// XDGConfigDir returns the XDG config directory for deedscan.
// On Linux: ~/.config/deedscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGDataDir returns the XDG data directory for deedscan.
// On Linux: ~/.local/share/deedscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the settings shared by every command and returns the
// first problem found.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return ErrNoDataDir
	}
	if c.OutputDir == "" {
		return ErrNoOutputDir
	}
	if c.HighValueCutoff <= 0 {
		return ErrInvalidCutoff
	}
	if c.MinYear > c.MaxYear {
		return ErrInvalidYearRange
	}
	if c.ValueColumn < 0 {
		return ErrInvalidValueColumn
	}
	if c.HistogramBins <= 0 {
		return ErrInvalidHistogramBins
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// ValidateClassify checks the settings used by the entity classifier,
// including the API keys the selected backends need.
func (c *Config) ValidateClassify() error {
	if !slices.Contains(c.Labels, model.CategoryOther) {
		return ErrMissingOtherLabel
	}
	switch c.Oracle {
	case OracleOllama:
		if c.OllamaCommand == "" {
			return ErrNoOllamaCommand
		}
	case OracleAnthropic:
		if c.Secrets.AnthropicAPIKey == "" {
			return ErrMissingAnthropicKey
		}
	default:
		return ErrUnknownOracle
	}
	if c.OracleTimeout <= 0 {
		return ErrInvalidOracleTimeout
	}
	if c.OracleAttempts <= 0 {
		return ErrInvalidOracleAttempts
	}
	if c.OracleBackoff < 0 {
		return ErrInvalidOracleBackoff
	}
	if c.Enrich {
		if c.Secrets.SerpAPIKey == "" {
			return ErrMissingSerpAPIKey
		}
		if c.EnrichInterval < 0 {
			return ErrInvalidEnrichInterval
		}
	}
	return nil
}
