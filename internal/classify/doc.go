// Package classify maps deed-holder names to legal-entity categories.
//
// Names are deduplicated (exact, case-sensitive, first occurrence order)
// and each unique name is sent once to an Oracle, optionally after an
// Enricher has looked up descriptive text about it. The oracle is treated
// as unreliable: every call has a timeout and a bounded number of
// attempts, and any failure or unexpected output is folded into the
// fallback category instead of aborting the batch.
package classify
