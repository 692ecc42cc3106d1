// Package main provides the entry point for the deedscan CLI.
//
// deedscan reads per-unit property records of residential buildings,
// aggregates sale prices and yearly taxable values per building, and
// classifies deed holders by legal entity type through a language model.
//
// Usage:
//
//	deedscan analyze [building...]
//	deedscan classify [building...]
//
// See --help for all available options.
package main

// main is the entry point for deedscan.
func main() {
	Execute()
}
