// Package enrich looks up descriptive text about deed holders.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultSerpAPIEndpoint is the SerpAPI JSON search endpoint.
	DefaultSerpAPIEndpoint = "https://serpapi.com/search.json"

	// DefaultInterval is the minimum delay between two searches.
	DefaultInterval = time.Second

	// maxResponseBytes bounds the decoded search response.
	maxResponseBytes = 4 << 20
)

// SerpAPI returns the first organic Google result snippet for a query.
type SerpAPI struct {
	apiKey   string
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// SerpAPIOption configures SerpAPI.
type SerpAPIOption func(*SerpAPI)

// WithEndpoint overrides the search endpoint.
func WithEndpoint(endpoint string) SerpAPIOption {
	return func(s *SerpAPI) {
		s.endpoint = endpoint
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) SerpAPIOption {
	return func(s *SerpAPI) {
		s.client = client
	}
}

// WithInterval sets the minimum delay between searches. Zero disables
// rate limiting.
func WithInterval(d time.Duration) SerpAPIOption {
	return func(s *SerpAPI) {
		if d <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SerpAPIOption {
	return func(s *SerpAPI) {
		s.logger = logger
	}
}

// NewSerpAPI creates a SerpAPI enricher.
func NewSerpAPI(apiKey string, opts ...SerpAPIOption) *SerpAPI {
	s := &SerpAPI{
		apiKey:   apiKey,
		endpoint: DefaultSerpAPIEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(DefaultInterval), 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

type searchResponse struct {
	Error          string `json:"error"`
	OrganicResults []struct {
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

// Enrich implements classify.Enricher. Any failure yields "".
func (s *SerpAPI) Enrich(ctx context.Context, query string) string {
	snippet, err := s.search(ctx, query)
	if err != nil {
		s.logger.Warn("enrichment lookup failed", "query", query, "error", err)
		return ""
	}
	return snippet
}

func (s *SerpAPI) search(ctx context.Context, query string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("api_key", s.apiKey)
	params.Set("num", "1")
	target := s.endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	s.logger.Debug("searching deed holder", "url", target)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if body.Error != "" {
		return "", fmt.Errorf("serpapi: %s", body.Error)
	}
	if len(body.OrganicResults) == 0 {
		return "", nil
	}
	return strings.TrimSpace(body.OrganicResults[0].Snippet), nil
}
