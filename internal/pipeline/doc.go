// Package pipeline runs the per-building analysis as a sequence of steps
// and processes many buildings through a BatchProcessor.
//
// The analyze flow is Aggregate, DeedHolders, optionally Classify, and
// Report. The classify flow reads a previously written deed-holder file:
// LoadHolders, Classify, Report. Each step reads and extends the shared
// model.BuildingReport.
package pipeline
