package config

import "errors"

// Configuration validation errors returned by Config.Validate and
// Config.ValidateClassify.
var (
	// ErrNoDataDir is returned when no document root is configured.
	ErrNoDataDir = errors.New("no data directory specified: use --data")

	// ErrNoOutputDir is returned when no output directory is configured.
	ErrNoOutputDir = errors.New("no output directory specified: use --output")

	// ErrInvalidCutoff is returned when the high-value cutoff is not positive.
	ErrInvalidCutoff = errors.New("invalid high-value cutoff: must be positive")

	// ErrInvalidYearRange is returned when the minimum year exceeds the maximum.
	ErrInvalidYearRange = errors.New("invalid year range: --min-year must not exceed --max-year")

	// ErrInvalidValueColumn is returned when the value column is negative.
	ErrInvalidValueColumn = errors.New("invalid value column: must be non-negative")

	// ErrInvalidHistogramBins is returned when the bin count is not positive.
	ErrInvalidHistogramBins = errors.New("invalid histogram bins: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrMissingOtherLabel is returned when the label set lacks the fallback.
	ErrMissingOtherLabel = errors.New("invalid labels: the label set must contain \"Other\"")

	// ErrNoOllamaCommand is returned when the ollama executable is empty.
	ErrNoOllamaCommand = errors.New("ollama command must not be empty")

	// ErrUnknownOracle is returned for an unsupported --oracle value.
	ErrUnknownOracle = errors.New("unknown oracle: must be \"ollama\" or \"anthropic\"")

	// ErrMissingAnthropicKey is returned when the anthropic oracle is selected
	// without an API key.
	ErrMissingAnthropicKey = errors.New("anthropic oracle requires ANTHROPIC_API_KEY")

	// ErrMissingSerpAPIKey is returned when enrichment is enabled without an
	// API key.
	ErrMissingSerpAPIKey = errors.New("enrichment requires SERPAPI_API_KEY")

	// ErrInvalidOracleTimeout is returned when the oracle timeout is not positive.
	ErrInvalidOracleTimeout = errors.New("invalid oracle timeout: must be positive")

	// ErrInvalidOracleAttempts is returned when the attempt count is not positive.
	ErrInvalidOracleAttempts = errors.New("invalid oracle attempts: must be positive")

	// ErrInvalidOracleBackoff is returned when the backoff is negative.
	ErrInvalidOracleBackoff = errors.New("invalid oracle backoff: must be non-negative")

	// ErrInvalidEnrichInterval is returned when the lookup interval is negative.
	ErrInvalidEnrichInterval = errors.New("invalid enrich interval: must be non-negative")
)
