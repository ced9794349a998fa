package entity

import (
	"slices"
	"strings"
	"time"
)

// Tag types.
const (
	TagTypeGeographic = "geographic"
	TagTypeTemporal   = "temporal"
	TagTypeTopic      = "topic"
	TagTypeEvent      = "event"
	TagTypeEntity     = "entity"
)

const (
	// DefaultTagConfidence is applied when a tag is created without a score.
	DefaultTagConfidence = 1.0
	// DefaultTagCreator is recorded for tags created without an author.
	DefaultTagCreator = "system"
)

// TagTypeInfo describes one tag type and its suggested categories.
type TagTypeInfo struct {
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
}

// TagSchema maps each tag type to its description and categories.
var TagSchema = map[string]TagTypeInfo{
	TagTypeGeographic: {
		Description: "Geographic locations and regions",
		Categories:  []string{"country", "region", "city", "continent", "geopolitical_area"},
	},
	TagTypeTemporal: {
		Description: "Time periods and dates",
		Categories:  []string{"year", "decade", "period", "era", "date_range"},
	},
	TagTypeTopic: {
		Description: "Subject matter and themes",
		Categories:  []string{"politics", "economics", "military", "social", "technology", "environment"},
	},
	TagTypeEvent: {
		Description: "Specific events and occurrences",
		Categories:  []string{"conflict", "election", "treaty", "summit", "crisis", "agreement"},
	},
	TagTypeEntity: {
		Description: "Organizations, people, and entities",
		Categories:  []string{"organization", "person", "government", "company", "ngo"},
	},
}

// Tag is a freeform label attached to a DataEntry.
type Tag struct {
	ID              int64
	DataEntryID     string
	TagType         string
	TagCategory     string
	TagValue        string
	ConfidenceScore float64
	IsManual        bool
	CreatedAt       time.Time
	CreatedBy       string
}

// ApplyDefaults fills the confidence score and creator when unset.
func (t *Tag) ApplyDefaults() {
	if t.ConfidenceScore == 0 {
		t.ConfidenceScore = DefaultTagConfidence
	}
	if t.CreatedBy == "" {
		t.CreatedBy = DefaultTagCreator
	}
}

// Validate checks required fields and the tag type.
func (t *Tag) Validate() error {
	if strings.TrimSpace(t.DataEntryID) == "" {
		return &ValidationError{Field: "data_entry_id", Message: "is required"}
	}
	if t.TagType == "" {
		return &ValidationError{Field: "tag_type", Message: "is required"}
	}
	if _, ok := TagSchema[t.TagType]; !ok {
		return &ValidationError{Field: "tag_type", Message: "must be one of " + strings.Join(TagTypes(), ", ")}
	}
	if strings.TrimSpace(t.TagValue) == "" {
		return &ValidationError{Field: "tag_value", Message: "is required"}
	}
	if t.ConfidenceScore < 0 || t.ConfidenceScore > 1 {
		return &ValidationError{Field: "confidence_score", Message: "must be between 0 and 1"}
	}
	return nil
}

// TagTypes returns the tag type names sorted alphabetically.
func TagTypes() []string {
	out := make([]string, 0, len(TagSchema))
	for k := range TagSchema {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
