package config

import (
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BuildingConfig holds settings for a single building.
type BuildingConfig struct {
	// Title is the display name used in reports.
	// If empty, the title is derived from the building id.
	Title string `yaml:"title,omitempty"`

	// Dir overrides the document directory. Relative paths are resolved
	// against the data directory.
	Dir string `yaml:"dir,omitempty"`

	// ExcludeYears are left out of the averaged yearly series.
	ExcludeYears []int `yaml:"excludeYears,omitempty"`

	// HighValueCutoff overrides the global cutoff when non-zero.
	HighValueCutoff float64 `yaml:"highValueCutoff,omitempty"`
}

// File represents the structure of the .deedscan configuration file.
type File struct {
	// Buildings maps building ids (directory names) to their settings.
	Buildings map[string]BuildingConfig `yaml:"buildings,omitempty"`

	// Defaults applies to every building unless overridden.
	Defaults BuildingConfig `yaml:"defaults,omitempty"`
}

// GetBuildingConfig returns the configuration for a building, merging
// building-specific settings over the defaults. Title and Dir are never
// inherited from the defaults.
func (cf *File) GetBuildingConfig(id string) BuildingConfig {
	result := BuildingConfig{
		ExcludeYears:    slices.Clone(cf.Defaults.ExcludeYears),
		HighValueCutoff: cf.Defaults.HighValueCutoff,
	}

	if bc, ok := cf.Buildings[id]; ok {
		result.Title = bc.Title
		result.Dir = bc.Dir
		if len(bc.ExcludeYears) > 0 {
			result.ExcludeYears = slices.Clone(bc.ExcludeYears)
		}
		if bc.HighValueCutoff != 0 {
			result.HighValueCutoff = bc.HighValueCutoff
		}
	}

	return result
}

// Building resolves the effective settings of a building from the config
// file and the global flags.
func (c *Config) Building(id string) BuildingConfig {
	var bc BuildingConfig
	if c.BuildingConfigs != nil {
		bc = c.BuildingConfigs.GetBuildingConfig(id)
	}

	if bc.Title == "" {
		bc.Title = DisplayTitle(id)
	}
	switch {
	case bc.Dir == "":
		bc.Dir = filepath.Join(c.DataDir, id)
	case !filepath.IsAbs(bc.Dir):
		bc.Dir = filepath.Join(c.DataDir, bc.Dir)
	}
	if len(c.ExcludedYears) > 0 {
		bc.ExcludeYears = mergeYears(bc.ExcludeYears, c.ExcludedYears)
	}
	if bc.HighValueCutoff == 0 {
		bc.HighValueCutoff = c.HighValueCutoff
	}
	return bc
}

// DisplayTitle turns a building id such as "central_park_tower" into
// "Central Park Tower".
func DisplayTitle(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	// A Caser keeps state and cannot be shared between goroutines.
	return cases.Title(language.English).String(strings.Join(words, " "))
}

func mergeYears(a, b []int) []int {
	out := slices.Concat(a, b)
	slices.Sort(out)
	return slices.Compact(out)
}
