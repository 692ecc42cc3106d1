// Package log provides the slog logger used by deedscan.
//
// SecureHandler wraps any slog.Handler and masks credentials before they
// reach the output:
//   - attributes whose key names a secret (api_key, serpapi_api_key,
//     anthropic_api_key, authorization, x-api-key, ...)
//   - values that look like API keys (Anthropic "sk-ant-" keys, long
//     alphanumeric SerpAPI keys, bearer tokens)
//   - api_key query parameters inside logged URLs, which keep the rest of
//     the URL readable
//
// Usage:
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("searching deed holder", "url", target)
//	// url=https://serpapi.com/search.json?api_key=***REDACTED***&q=Acme
package log
