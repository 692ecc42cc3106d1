package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of deedscan environment variables.
const EnvPrefix = "DEEDSCAN"

// Secrets holds API keys. They are read only from the environment and
// never from flags or the config file. Each key is looked up with the
// DEEDSCAN_ prefix first and then under its conventional name.
type Secrets struct {
	// SerpAPIKey authenticates SerpAPI enrichment lookups.
	SerpAPIKey string `envconfig:"SERPAPI_API_KEY"`

	// AnthropicAPIKey authenticates the anthropic oracle.
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
}

// LoadSecrets reads Secrets from the environment.
func LoadSecrets() (Secrets, error) {
	var s Secrets
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return Secrets{}, fmt.Errorf("read secrets from environment: %w", err)
	}
	s.SerpAPIKey = strings.TrimSpace(s.SerpAPIKey)
	s.AnthropicAPIKey = strings.TrimSpace(s.AnthropicAPIKey)
	return s, nil
}
