// Package model defines the core data structures used throughout deedscan.
//
// This package contains the following main types:
//   - Document: A tabular property record read from one unit's file
//   - DeedRecord: One recorded property-transfer row inside a document
//   - ExtractionResult: The facts extracted from a single document
//   - BuildingAggregate: Sale prices, deed holders and yearly values of a building
//   - CategoryTally: Legal-entity category counts for a building's deed holders
//   - BuildingReport: The per-building pipeline state rendered by reporters
//
// Models live in their own package because the extract, aggregate, classify,
// pipeline and report packages all exchange them.
package model
