// Package oracle provides classification oracles for deed holders.
//
// Ollama runs a local model through the ollama command line. Anthropic
// calls the Messages API. Both satisfy classify.Oracle and return the raw
// model output; label folding is left to the classifier.
package oracle
