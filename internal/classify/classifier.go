package classify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/nao1215/deedscan/internal/model"
)

// Defaults of the oracle call wrapper.
const (
	DefaultTimeout     = 2 * time.Minute
	DefaultMaxAttempts = 2
	DefaultBackoff     = time.Second
)

var (
	// ErrEmptyOutput is recorded when the oracle returns only whitespace.
	ErrEmptyOutput = errors.New("empty oracle output")

	// ErrUnknownLabel is recorded when the oracle output is not in the
	// label set.
	ErrUnknownLabel = errors.New("unknown category label")

	// ErrMissingFallback is returned by New when the label set does not
	// contain the fallback label.
	ErrMissingFallback = errors.New("label set must contain the fallback label")
)

// Classifier tallies legal-entity categories of deed holders.
type Classifier struct {
	oracle      Oracle
	enricher    Enricher
	labels      []string
	fallback    string
	timeout     time.Duration
	maxAttempts int
	backoff     time.Duration
	logger      *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithEnricher enables the enrichment lookup before classification.
func WithEnricher(e Enricher) Option {
	return func(c *Classifier) {
		c.enricher = e
	}
}

// WithLabels sets the accepted category labels.
func WithLabels(labels []string) Option {
	return func(c *Classifier) {
		c.labels = slices.Clone(labels)
	}
}

// WithFallback sets the label used for failures and unknown output.
func WithFallback(label string) Option {
	return func(c *Classifier) {
		c.fallback = label
	}
}

// WithTimeout sets the per-attempt oracle timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Classifier) {
		c.timeout = d
	}
}

// WithMaxAttempts sets how many times a failing oracle call is tried.
func WithMaxAttempts(n int) Option {
	return func(c *Classifier) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBackoff sets the base delay between attempts. The n-th retry waits
// n times the base delay.
func WithBackoff(d time.Duration) Option {
	return func(c *Classifier) {
		c.backoff = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		c.logger = logger
	}
}

// New creates a Classifier over oracle with the default label set.
func New(oracle Oracle, opts ...Option) (*Classifier, error) {
	c := &Classifier{
		oracle:      oracle,
		labels:      model.DefaultLabels(),
		fallback:    model.CategoryOther,
		timeout:     DefaultTimeout,
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if oracle == nil {
		return nil, errors.New("classify: nil oracle")
	}
	if !slices.Contains(c.labels, c.fallback) {
		return nil, fmt.Errorf("%w: %q", ErrMissingFallback, c.fallback)
	}
	return c, nil
}

// Labels returns the accepted labels in display order.
func (c *Classifier) Labels() []string {
	return slices.Clone(c.labels)
}

// Unique returns names without duplicates in first-occurrence order.
// Comparison is exact and case-sensitive; blank names are dropped.
func Unique(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Classify classifies each unique name once and tallies the categories.
// It never fails: names that cannot be classified count as the fallback.
// When ctx is cancelled the remaining names count as the fallback.
func (c *Classifier) Classify(ctx context.Context, names []string) *model.CategoryTally {
	unique := Unique(names)
	tally := model.NewCategoryTally()

	for i, name := range unique {
		c.logger.Debug("classifying deed holder",
			"index", i+1,
			"total", len(unique),
			"name", name,
		)
		result := c.ClassifyName(ctx, name)
		c.logger.Info("deed holder classified",
			"name", result.Name,
			"category", result.Category,
			"failed", result.Failed,
		)
		tally.Add(result)
	}

	return tally
}

// ClassifyName classifies a single name.
func (c *Classifier) ClassifyName(ctx context.Context, name string) model.Classification {
	result := model.Classification{Name: name, Category: c.fallback}

	text := name
	if c.enricher != nil {
		if snippet := strings.TrimSpace(c.enricher.Enrich(ctx, name)); snippet != "" {
			text = name + "\n\n" + snippet
			result.Enriched = true
		}
	}

	label, err := c.call(ctx, text)
	if err != nil {
		c.logger.Warn("classification failed, using fallback category",
			"name", name,
			"fallback", c.fallback,
			"error", err,
		)
		result.Failed = true
		return result
	}

	result.Category = label
	return result
}

// call runs the oracle with timeout and bounded retries. Only oracle
// errors are retried; unusable output is returned as an error at once.
func (c *Classifier) call(ctx context.Context, text string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		output, err := c.attempt(ctx, text)
		if err == nil {
			return c.Normalize(output)
		}
		lastErr = err

		c.logger.Debug("oracle attempt failed",
			"attempt", attempt,
			"max_attempts", c.maxAttempts,
			"error", err,
		)
		if attempt < c.maxAttempts {
			if err := sleep(ctx, time.Duration(attempt)*c.backoff); err != nil {
				return "", err
			}
		}
	}
	return "", fmt.Errorf("oracle failed after %d attempts: %w", c.maxAttempts, lastErr)
}

func (c *Classifier) attempt(ctx context.Context, text string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.oracle.Classify(ctx, text)
}

// categoryPrefix is stripped when a model answers "Category: LLC".
const categoryPrefix = "category:"

// Normalize maps raw oracle output to a label. Only the first non-blank
// line is considered. A leading bullet or "Category:" prefix, surrounding
// quotes, asterisks and periods are ignored and matching is
// case-insensitive.
func (c *Classifier) Normalize(output string) (string, error) {
	line := firstLine(output)
	if line == "" {
		return "", ErrEmptyOutput
	}

	candidate := strings.TrimLeft(line, "-• ")
	if len(candidate) > len(categoryPrefix) && strings.EqualFold(candidate[:len(categoryPrefix)], categoryPrefix) {
		candidate = candidate[len(categoryPrefix):]
	}
	candidate = strings.Trim(candidate, " \t\"'`*.")

	for _, label := range c.labels {
		if strings.EqualFold(candidate, label) {
			return label, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLabel, line)
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
