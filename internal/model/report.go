package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultHistogramBins is the number of sale-price histogram buckets.
const DefaultHistogramBins = 15

// BuildingReport is the per-building result passed through the pipeline.
// Each step reads and extends it; report writers render it.
type BuildingReport struct {
	// RunID identifies the analysis run that produced the report.
	RunID string `json:"run_id"`

	// BuildingID is the building identifier (directory name).
	BuildingID string `json:"building_id"`

	// Title is the display name of the building.
	Title string `json:"title"`

	// SourceDir is the directory holding the building's documents.
	SourceDir string `json:"source_dir"`

	// OutputDir is the directory receiving the building's artifacts.
	OutputDir string `json:"output_dir"`

	// DateAnalyzed is when the pipeline started for this building.
	DateAnalyzed time.Time `json:"date_analyzed"`

	// Aggregate holds the extracted facts. Nil until aggregation ran.
	Aggregate *BuildingAggregate `json:"aggregate,omitempty"`

	// Tally holds deed-holder categories. Nil unless classification ran.
	Tally *CategoryTally `json:"tally,omitempty"`

	// Labels is the label set used for classification, in display order.
	Labels []string `json:"labels,omitempty"`

	// ExcludedYears lists the years left out of the averaged series.
	ExcludedYears []int `json:"excluded_years,omitempty"`

	// HighValueCutoff is the largest sale price kept in the distribution.
	HighValueCutoff float64 `json:"high_value_cutoff,omitempty"`

	// HistogramBins is the number of sale-price histogram buckets.
	HistogramBins int `json:"histogram_bins"`

	// DeedHolders are the deed-holder names fed to classification, either
	// taken from Aggregate or read back from DeedHolderFile.
	DeedHolders []string `json:"deed_holders,omitempty"`

	// DeedHolderFile is the path of the deed-holder list.
	DeedHolderFile string `json:"deed_holder_file,omitempty"`

	// ReportFile is the path of the written building report.
	ReportFile string `json:"-"`

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps"`

	// Cancelled is true when the context ended before all steps ran.
	Cancelled bool `json:"cancelled,omitempty"`

	// Error holds the error that stopped the pipeline, if any.
	Error error `json:"-"`

	// ErrorMessage is Error as a string for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewBuildingReport creates a report for a building with a fresh run id.
func NewBuildingReport(buildingID, title string) *BuildingReport {
	return NewBuildingReportWithRunID(uuid.NewString(), buildingID, title)
}

// NewBuildingReportWithRunID creates a report that belongs to an existing run.
func NewBuildingReportWithRunID(runID, buildingID, title string) *BuildingReport {
	return &BuildingReport{
		RunID:          runID,
		BuildingID:     buildingID,
		Title:          title,
		DateAnalyzed:   time.Now(),
		Labels:         DefaultLabels(),
		HistogramBins:  DefaultHistogramBins,
		PerformedSteps: make([]string, 0),
	}
}

// Failed reports whether a pipeline step stopped the report.
func (r *BuildingReport) Failed() bool {
	return r.Error != nil || r.ErrorMessage != ""
}
