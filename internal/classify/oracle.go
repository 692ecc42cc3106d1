package classify

import "context"

// Oracle classifies free text into a category label. Implementations may
// return arbitrary text; the Classifier folds it into the label set.
type Oracle interface {
	Classify(ctx context.Context, text string) (string, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, text string) (string, error)

// Classify calls f(ctx, text).
func (f OracleFunc) Classify(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// Enricher looks up descriptive text about a query. It returns an empty
// string on any failure and never returns an error.
type Enricher interface {
	Enrich(ctx context.Context, query string) string
}

// EnricherFunc adapts a function to the Enricher interface.
type EnricherFunc func(ctx context.Context, query string) string

// Enrich calls f(ctx, query).
func (f EnricherFunc) Enrich(ctx context.Context, query string) string {
	return f(ctx, query)
}
