// Package factbook fetches country documents from the factbook.json mirror of
// the CIA World Factbook and extracts country profiles from them.
package factbook

import (
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var regionsYAML []byte

// Regions lists the country codes per factbook region directory.
type Regions struct {
	Priority  []string            `yaml:"priority_regions"`
	Countries map[string][]string `yaml:"regions"`
}

// DefaultRegions parses the embedded region list.
func DefaultRegions() (*Regions, error) {
	return ParseRegions(regionsYAML)
}

// ParseRegions decodes a region list and checks that every priority region
// has countries.
func ParseRegions(data []byte) (*Regions, error) {
	var r Regions
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse regions: %w", err)
	}
	if len(r.Priority) == 0 {
		return nil, fmt.Errorf("parse regions: no priority regions")
	}
	for _, name := range r.Priority {
		if len(r.Countries[name]) == 0 {
			return nil, fmt.Errorf("parse regions: priority region %q has no countries", name)
		}
	}
	return &r, nil
}

// Region returns the region directory holding code, preferring priority
// regions. ok is false for unknown codes.
func (r *Regions) Region(code string) (region string, ok bool) {
	for _, name := range r.Priority {
		if slices.Contains(r.Countries[name], code) {
			return name, true
		}
	}
	names := make([]string, 0, len(r.Countries))
	for name := range r.Countries {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if slices.Contains(r.Countries[name], code) {
			return name, true
		}
	}
	return "", false
}
