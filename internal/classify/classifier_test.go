package classify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/deedscan/internal/model"
)

// fakeOracle records every call and answers from a table.
type fakeOracle struct {
	mu      sync.Mutex
	calls   []string
	answers map[string]string
	errs    map[string]error
}

func (f *fakeOracle) Classify(_ context.Context, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	if err, ok := f.errs[text]; ok {
		return "", err
	}
	return f.answers[text], nil
}

func (f *fakeOracle) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newClassifier(t *testing.T, oracle Oracle, opts ...Option) *Classifier {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger()), WithBackoff(0)}, opts...)
	c, err := New(oracle, opts...)
	require.NoError(t, err)
	return c
}

func TestUnique(t *testing.T) {
	t.Parallel()

	got := Unique([]string{"Acme LLC", "Jane Doe", "Acme LLC", "acme llc", "", "  ", "Jane Doe"})
	assert.Equal(t, []string{"Acme LLC", "Jane Doe", "acme llc"}, got)
}

func TestClassifier_Classify(t *testing.T) {
	t.Parallel()

	t.Run("each unique name is classified once", func(t *testing.T) {
		t.Parallel()

		oracle := &fakeOracle{answers: map[string]string{
			"Acme LLC": "LLC",
			"Jane Doe": "Individual\nShe is a person.",
		}}
		c := newClassifier(t, oracle)

		tally := c.Classify(context.Background(), []string{"Acme LLC", "Acme LLC", "Jane Doe"})

		assert.Equal(t, 2, oracle.callCount())
		assert.Equal(t, map[string]int{"LLC": 1, "Individual": 1}, tally.Counts)
		require.Len(t, tally.Classifications, 2)
		assert.Equal(t, "Acme LLC", tally.Classifications[0].Name)
		assert.Equal(t, "Jane Doe", tally.Classifications[1].Name)
	})

	t.Run("oracle error yields fallback without aborting", func(t *testing.T) {
		t.Parallel()

		oracle := &fakeOracle{
			answers: map[string]string{"Jane Doe": "Individual"},
			errs:    map[string]error{"Acme LLC": errors.New("model crashed")},
		}
		c := newClassifier(t, oracle, WithMaxAttempts(1))

		tally := c.Classify(context.Background(), []string{"Acme LLC", "Acme LLC", "Jane Doe"})

		assert.Equal(t, 2, oracle.callCount())
		assert.Equal(t, map[string]int{"Other": 1, "Individual": 1}, tally.Counts)
		assert.True(t, tally.Classifications[0].Failed)
		assert.False(t, tally.Classifications[1].Failed)
	})

	t.Run("failing calls are retried up to the limit", func(t *testing.T) {
		t.Parallel()

		oracle := &fakeOracle{errs: map[string]error{"Acme LLC": errors.New("timeout")}}
		c := newClassifier(t, oracle, WithMaxAttempts(3))

		tally := c.Classify(context.Background(), []string{"Acme LLC"})

		assert.Equal(t, 3, oracle.callCount())
		assert.Equal(t, 1, tally.Counts[model.CategoryOther])
	})

	t.Run("recovers when a retry succeeds", func(t *testing.T) {
		t.Parallel()

		var calls int
		oracle := OracleFunc(func(context.Context, string) (string, error) {
			calls++
			if calls == 1 {
				return "", errors.New("transient")
			}
			return "Trust", nil
		})
		c := newClassifier(t, oracle, WithMaxAttempts(2))

		tally := c.Classify(context.Background(), []string{"Doe Family Trust"})

		assert.Equal(t, 2, calls)
		assert.Equal(t, 1, tally.Counts[model.CategoryTrust])
	})

	t.Run("unexpected output is not retried", func(t *testing.T) {
		t.Parallel()

		oracle := &fakeOracle{answers: map[string]string{"X": "I cannot tell."}}
		c := newClassifier(t, oracle, WithMaxAttempts(3))

		tally := c.Classify(context.Background(), []string{"X"})

		assert.Equal(t, 1, oracle.callCount())
		assert.Equal(t, 1, tally.Counts[model.CategoryOther])
		assert.True(t, tally.Classifications[0].Failed)
	})

	t.Run("empty output folds to fallback", func(t *testing.T) {
		t.Parallel()

		oracle := &fakeOracle{answers: map[string]string{"X": "  \n "}}
		c := newClassifier(t, oracle)

		tally := c.Classify(context.Background(), []string{"X"})
		assert.Equal(t, 1, tally.Counts[model.CategoryOther])
	})

	t.Run("slow oracle is cut off by the timeout", func(t *testing.T) {
		t.Parallel()

		oracle := OracleFunc(func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})
		c := newClassifier(t, oracle, WithTimeout(10*time.Millisecond), WithMaxAttempts(1))

		tally := c.Classify(context.Background(), []string{"Slow Corp"})
		assert.Equal(t, 1, tally.Counts[model.CategoryOther])
	})

	t.Run("cancelled context folds remaining names", func(t *testing.T) {
		t.Parallel()

		oracle := &fakeOracle{answers: map[string]string{"A": "LLC", "B": "LLC"}}
		c := newClassifier(t, oracle)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		tally := c.Classify(ctx, []string{"A", "B"})

		assert.Equal(t, 0, oracle.callCount())
		assert.Equal(t, 2, tally.Counts[model.CategoryOther])
	})

	t.Run("no names yields empty tally", func(t *testing.T) {
		t.Parallel()

		c := newClassifier(t, &fakeOracle{})
		tally := c.Classify(context.Background(), nil)
		assert.Equal(t, 0, tally.Total())
	})
}

func TestClassifier_Enrichment(t *testing.T) {
	t.Parallel()

	t.Run("snippet is appended to the oracle input", func(t *testing.T) {
		t.Parallel()

		var got string
		oracle := OracleFunc(func(_ context.Context, text string) (string, error) {
			got = text
			return "Corporation", nil
		})
		enricher := EnricherFunc(func(_ context.Context, query string) string {
			return "  " + query + " is a publicly traded company. "
		})
		c := newClassifier(t, oracle, WithEnricher(enricher))

		result := c.ClassifyName(context.Background(), "Blue Inc")

		assert.Equal(t, "Blue Inc\n\nBlue Inc is a publicly traded company.", got)
		assert.Equal(t, model.CategoryCorporation, result.Category)
		assert.True(t, result.Enriched)
	})

	t.Run("empty snippet uses the name alone", func(t *testing.T) {
		t.Parallel()

		var got string
		oracle := OracleFunc(func(_ context.Context, text string) (string, error) {
			got = text
			return "LLC", nil
		})
		enricher := EnricherFunc(func(context.Context, string) string { return "" })
		c := newClassifier(t, oracle, WithEnricher(enricher))

		result := c.ClassifyName(context.Background(), "Acme LLC")

		assert.Equal(t, "Acme LLC", got)
		assert.False(t, result.Enriched)
	})
}

func TestClassifier_Normalize(t *testing.T) {
	t.Parallel()

	c := newClassifier(t, &fakeOracle{})

	tests := []struct {
		output  string
		want    string
		wantErr error
	}{
		{output: "LLC", want: "LLC"},
		{output: "llc", want: "LLC"},
		{output: "  Trust.  ", want: "Trust"},
		{output: "\n\nCorporation\nBecause it says Inc.", want: "Corporation"},
		{output: "**Individual**", want: "Individual"},
		{output: "\"Other\"", want: "Other"},
		{output: "- LLC", want: "LLC"},
		{output: "Category: Trust", want: "Trust"},
		{output: "Partnership", wantErr: ErrUnknownLabel},
		{output: "The answer is LLC", wantErr: ErrUnknownLabel},
		{output: "", wantErr: ErrEmptyOutput},
	}

	for _, tt := range tests {
		t.Run(strings.ReplaceAll(tt.output, "\n", `\n`), func(t *testing.T) {
			t.Parallel()

			got, err := c.Normalize(tt.output)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("custom labels must contain the fallback", func(t *testing.T) {
		t.Parallel()

		_, err := New(&fakeOracle{}, WithLabels([]string{"Person", "Company"}))
		assert.ErrorIs(t, err, ErrMissingFallback)
	})

	t.Run("custom labels with custom fallback", func(t *testing.T) {
		t.Parallel()

		c, err := New(&fakeOracle{}, WithLabels([]string{"Person", "Company", "Unknown"}), WithFallback("Unknown"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Person", "Company", "Unknown"}, c.Labels())
	})

	t.Run("nil oracle is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := New(nil)
		assert.Error(t, err)
	})
}
