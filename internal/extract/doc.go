// Package extract pulls financial facts out of loosely tabular property
// records.
//
// Two independent extractors read the same Document:
//   - Scanner locates the deed section and chooses the sale-price row using
//     a trigger-then-recover fallback policy.
//   - Harvester collects a sparse year-to-assessed-value series from every
//     row of the document, independent of the deed section.
//
// Neither extractor returns errors. Rows that do not match the expected
// shape are skipped, and the absence of a sale is reported as a result,
// not a failure.
package extract
