package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

// TestNewConfig documents the default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default directories", func(t *testing.T) {
		t.Parallel()
		if cfg.DataDir != "data" {
			t.Errorf("expected DataDir to be 'data', got '%s'", cfg.DataDir)
		}
		if cfg.OutputDir != "output" {
			t.Errorf("expected OutputDir to be 'output', got '%s'", cfg.OutputDir)
		}
	})

	t.Run("default HighValueCutoff is 300,000,000", func(t *testing.T) {
		t.Parallel()
		if cfg.HighValueCutoff != 300_000_000 {
			t.Errorf("expected HighValueCutoff to be 300000000, got %v", cfg.HighValueCutoff)
		}
	})

	t.Run("default year range is 2000-2100", func(t *testing.T) {
		t.Parallel()
		if cfg.MinYear != 2000 || cfg.MaxYear != 2100 {
			t.Errorf("expected year range 2000-2100, got %d-%d", cfg.MinYear, cfg.MaxYear)
		}
	})

	t.Run("default ValueColumn is 7", func(t *testing.T) {
		t.Parallel()
		if cfg.ValueColumn != 7 {
			t.Errorf("expected ValueColumn to be 7, got %d", cfg.ValueColumn)
		}
	})

	t.Run("default HistogramBins is 15", func(t *testing.T) {
		t.Parallel()
		if cfg.HistogramBins != 15 {
			t.Errorf("expected HistogramBins to be 15, got %d", cfg.HistogramBins)
		}
	})

	t.Run("default oracle is ollama llama3", func(t *testing.T) {
		t.Parallel()
		if cfg.Oracle != OracleOllama {
			t.Errorf("expected Oracle to be %q, got %q", OracleOllama, cfg.Oracle)
		}
		if cfg.Model != "llama3" {
			t.Errorf("expected Model to be 'llama3', got %q", cfg.Model)
		}
	})

	t.Run("default oracle call policy", func(t *testing.T) {
		t.Parallel()
		if cfg.OracleTimeout != 2*time.Minute {
			t.Errorf("expected OracleTimeout to be 2m, got %v", cfg.OracleTimeout)
		}
		if cfg.OracleAttempts != 2 {
			t.Errorf("expected OracleAttempts to be 2, got %d", cfg.OracleAttempts)
		}
		if cfg.OracleBackoff != time.Second {
			t.Errorf("expected OracleBackoff to be 1s, got %v", cfg.OracleBackoff)
		}
	})

	t.Run("default labels end with Other", func(t *testing.T) {
		t.Parallel()
		want := []string{"Individual", "Trust", "LLC", "Corporation", "Other"}
		if !slices.Equal(cfg.Labels, want) {
			t.Errorf("expected Labels %v, got %v", want, cfg.Labels)
		}
	})

	t.Run("enrichment and classification are off", func(t *testing.T) {
		t.Parallel()
		if cfg.Enrich {
			t.Error("expected Enrich to be false")
		}
		if cfg.Classify {
			t.Error("expected Classify to be false")
		}
	})

	t.Run("default BatchSize is 1", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 1 {
			t.Errorf("expected BatchSize to be 1, got %d", cfg.BatchSize)
		}
	})
}

// TestConfigValidate tests every validation rule of Validate.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "defaults are valid", modify: func(*Config) {}},
		{name: "empty data dir", modify: func(c *Config) { c.DataDir = "" }, wantErr: ErrNoDataDir},
		{name: "empty output dir", modify: func(c *Config) { c.OutputDir = "" }, wantErr: ErrNoOutputDir},
		{name: "zero cutoff", modify: func(c *Config) { c.HighValueCutoff = 0 }, wantErr: ErrInvalidCutoff},
		{name: "negative cutoff", modify: func(c *Config) { c.HighValueCutoff = -1 }, wantErr: ErrInvalidCutoff},
		{name: "inverted year range", modify: func(c *Config) { c.MinYear, c.MaxYear = 2030, 2020 }, wantErr: ErrInvalidYearRange},
		{name: "single year range", modify: func(c *Config) { c.MinYear, c.MaxYear = 2020, 2020 }},
		{name: "negative value column", modify: func(c *Config) { c.ValueColumn = -1 }, wantErr: ErrInvalidValueColumn},
		{name: "zero histogram bins", modify: func(c *Config) { c.HistogramBins = 0 }, wantErr: ErrInvalidHistogramBins},
		{name: "zero batch size", modify: func(c *Config) { c.BatchSize = 0 }, wantErr: ErrInvalidBatchSize},
		{
			name:    "json and markdown together",
			modify:  func(c *Config) { c.JSONReport, c.MarkdownReport = true, true },
			wantErr: ErrConflictingReportFormats,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestConfigValidateClassify tests the classifier-specific rules.
func TestConfigValidateClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "defaults are valid", modify: func(*Config) {}},
		{name: "labels without Other", modify: func(c *Config) { c.Labels = []string{"LLC", "Trust"} }, wantErr: ErrMissingOtherLabel},
		{name: "unknown oracle", modify: func(c *Config) { c.Oracle = "gpt" }, wantErr: ErrUnknownOracle},
		{name: "empty ollama command", modify: func(c *Config) { c.OllamaCommand = "" }, wantErr: ErrNoOllamaCommand},
		{name: "anthropic without key", modify: func(c *Config) { c.Oracle = OracleAnthropic }, wantErr: ErrMissingAnthropicKey},
		{
			name: "anthropic with key",
			modify: func(c *Config) {
				c.Oracle = OracleAnthropic
				c.Secrets.AnthropicAPIKey = "sk-ant-test"
			},
		},
		{name: "zero timeout", modify: func(c *Config) { c.OracleTimeout = 0 }, wantErr: ErrInvalidOracleTimeout},
		{name: "zero attempts", modify: func(c *Config) { c.OracleAttempts = 0 }, wantErr: ErrInvalidOracleAttempts},
		{name: "negative backoff", modify: func(c *Config) { c.OracleBackoff = -time.Second }, wantErr: ErrInvalidOracleBackoff},
		{name: "enrich without key", modify: func(c *Config) { c.Enrich = true }, wantErr: ErrMissingSerpAPIKey},
		{
			name: "enrich with negative interval",
			modify: func(c *Config) {
				c.Enrich = true
				c.Secrets.SerpAPIKey = "k"
				c.EnrichInterval = -time.Second
			},
			wantErr: ErrInvalidEnrichInterval,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.ValidateClassify()

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestFileGetBuildingConfig tests merging building settings over defaults.
func TestFileGetBuildingConfig(t *testing.T) {
	t.Parallel()

	file := &File{
		Defaults: BuildingConfig{
			Title:           "ignored",
			ExcludeYears:    []int{2021},
			HighValueCutoff: 100_000_000,
		},
		Buildings: map[string]BuildingConfig{
			"central_park_tower": {
				Title:        "Central Park Tower",
				Dir:          "cpt",
				ExcludeYears: []int{2020, 2021},
			},
			"one57": {
				HighValueCutoff: 500_000_000,
			},
		},
	}

	t.Run("returns defaults when building not found", func(t *testing.T) {
		t.Parallel()

		bc := file.GetBuildingConfig("unknown")
		if bc.Title != "" {
			t.Errorf("expected empty title, got %q", bc.Title)
		}
		if bc.HighValueCutoff != 100_000_000 {
			t.Errorf("expected default cutoff, got %v", bc.HighValueCutoff)
		}
		if !slices.Equal(bc.ExcludeYears, []int{2021}) {
			t.Errorf("expected default excluded years, got %v", bc.ExcludeYears)
		}
	})

	t.Run("building settings override defaults", func(t *testing.T) {
		t.Parallel()

		bc := file.GetBuildingConfig("central_park_tower")
		if bc.Title != "Central Park Tower" {
			t.Errorf("expected title 'Central Park Tower', got %q", bc.Title)
		}
		if bc.Dir != "cpt" {
			t.Errorf("expected dir 'cpt', got %q", bc.Dir)
		}
		if !slices.Equal(bc.ExcludeYears, []int{2020, 2021}) {
			t.Errorf("expected building excluded years, got %v", bc.ExcludeYears)
		}
		if bc.HighValueCutoff != 100_000_000 {
			t.Errorf("expected inherited cutoff, got %v", bc.HighValueCutoff)
		}
	})

	t.Run("cutoff override keeps default years", func(t *testing.T) {
		t.Parallel()

		bc := file.GetBuildingConfig("one57")
		if bc.HighValueCutoff != 500_000_000 {
			t.Errorf("expected cutoff 500000000, got %v", bc.HighValueCutoff)
		}
		if !slices.Equal(bc.ExcludeYears, []int{2021}) {
			t.Errorf("expected default excluded years, got %v", bc.ExcludeYears)
		}
	})
}

// TestConfigBuilding tests resolution of effective building settings.
func TestConfigBuilding(t *testing.T) {
	t.Parallel()

	t.Run("without config file", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.DataDir = "records"
		bc := cfg.Building("central_park_tower")

		if bc.Title != "Central Park Tower" {
			t.Errorf("expected derived title, got %q", bc.Title)
		}
		if bc.Dir != filepath.Join("records", "central_park_tower") {
			t.Errorf("expected dir under data dir, got %q", bc.Dir)
		}
		if bc.HighValueCutoff != DefaultHighValueCutoff {
			t.Errorf("expected global cutoff, got %v", bc.HighValueCutoff)
		}
	})

	t.Run("with config file and flag years", func(t *testing.T) {
		t.Parallel()

		abs := filepath.Join(t.TempDir(), "elsewhere")
		cfg := NewConfig()
		cfg.ExcludedYears = []int{2019, 2021}
		cfg.BuildingConfigs = &File{Buildings: map[string]BuildingConfig{
			"a": {Title: "Tower A", Dir: "tower-a", ExcludeYears: []int{2021}},
			"b": {Dir: abs, HighValueCutoff: 1},
		}}

		a := cfg.Building("a")
		if a.Title != "Tower A" {
			t.Errorf("expected configured title, got %q", a.Title)
		}
		if a.Dir != filepath.Join("data", "tower-a") {
			t.Errorf("expected relative dir under data dir, got %q", a.Dir)
		}
		if !slices.Equal(a.ExcludeYears, []int{2019, 2021}) {
			t.Errorf("expected merged years [2019 2021], got %v", a.ExcludeYears)
		}

		b := cfg.Building("b")
		if b.Dir != abs {
			t.Errorf("expected absolute dir %q, got %q", abs, b.Dir)
		}
		if b.HighValueCutoff != 1 {
			t.Errorf("expected building cutoff 1, got %v", b.HighValueCutoff)
		}
	})
}

func TestDisplayTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   string
		want string
	}{
		{id: "central_park_tower", want: "Central Park Tower"},
		{id: "one-57", want: "One 57"},
		{id: "432_park", want: "432 Park"},
		{id: "TRUMP_TOWER", want: "Trump Tower"},
		{id: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()
			if got := DisplayTitle(tt.id); got != tt.want {
				t.Errorf("DisplayTitle(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.deedscan")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".deedscan")
		content := `defaults:
  excludeYears: [2021]
  highValueCutoff: 250000000
buildings:
  central_park_tower:
    title: "Central Park Tower"
    dir: "cpt"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Defaults.HighValueCutoff != 250_000_000 {
			t.Errorf("expected default cutoff 250000000, got %v", cfg.Defaults.HighValueCutoff)
		}
		if !slices.Equal(cfg.Defaults.ExcludeYears, []int{2021}) {
			t.Errorf("expected excluded years [2021], got %v", cfg.Defaults.ExcludeYears)
		}
		bc, ok := cfg.Buildings["central_park_tower"]
		if !ok {
			t.Fatal("expected central_park_tower in buildings")
		}
		if bc.Title != "Central Park Tower" || bc.Dir != "cpt" {
			t.Errorf("unexpected building config: %+v", bc)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".deedscan")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("initializes nil Buildings map", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".deedscan")
		if err := os.WriteFile(configPath, []byte("defaults:\n  excludeYears: [2021]\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Buildings == nil {
			t.Error("expected Buildings map to be initialized")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})
}

// TestLoadSecrets tests reading API keys from the environment.
// Subtests use t.Setenv and therefore cannot run in parallel.
func TestLoadSecrets(t *testing.T) {
	t.Run("reads conventional names", func(t *testing.T) {
		t.Setenv("DEEDSCAN_SERPAPI_API_KEY", "")
		t.Setenv("DEEDSCAN_ANTHROPIC_API_KEY", "")
		os.Unsetenv("DEEDSCAN_SERPAPI_API_KEY")
		os.Unsetenv("DEEDSCAN_ANTHROPIC_API_KEY")
		t.Setenv("SERPAPI_API_KEY", " serp ")
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant-1")

		s, err := LoadSecrets()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.SerpAPIKey != "serp" {
			t.Errorf("expected trimmed SerpAPI key, got %q", s.SerpAPIKey)
		}
		if s.AnthropicAPIKey != "sk-ant-1" {
			t.Errorf("expected Anthropic key, got %q", s.AnthropicAPIKey)
		}
	})

	t.Run("prefixed names take precedence", func(t *testing.T) {
		t.Setenv("SERPAPI_API_KEY", "plain")
		t.Setenv("DEEDSCAN_SERPAPI_API_KEY", "prefixed")

		s, err := LoadSecrets()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.SerpAPIKey != "prefixed" {
			t.Errorf("expected prefixed key, got %q", s.SerpAPIKey)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if filepath.Base(XDGDataDir()) != AppName {
		t.Errorf("expected XDG data dir to end with %q, got %q", AppName, XDGDataDir())
	}
	if filepath.Base(XDGConfigDir()) != AppName {
		t.Errorf("expected XDG config dir to end with %q, got %q", AppName, XDGConfigDir())
	}
}
