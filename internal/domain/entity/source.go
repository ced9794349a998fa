package entity

import (
	"slices"
	"strings"
	"time"
)

// Source types accepted by the platform.
const (
	SourceTypeGovernment       = "government"
	SourceTypeMedia            = "media"
	SourceTypeInternationalOrg = "international_org"
	SourceTypeAcademic         = "academic"
	SourceTypeCommercial       = "commercial"
)

// Verification states of a Source.
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationFlagged  = "flagged"
)

const (
	// DefaultReliabilityScore is applied when a source is created without a score.
	DefaultReliabilityScore = 5.0
	// DefaultLanguage is applied when a source is created without a language.
	DefaultLanguage = "en"
)

// SourceTypes lists every valid source type in display order.
var SourceTypes = []string{
	SourceTypeGovernment,
	SourceTypeMedia,
	SourceTypeInternationalOrg,
	SourceTypeAcademic,
	SourceTypeCommercial,
}

var (
	verificationStatuses = []string{VerificationPending, VerificationVerified, VerificationFlagged}
	biasRatings          = []string{"left", "center-left", "center", "center-right", "right", "unknown"}
	updateFrequencies    = []string{"real-time", "daily", "weekly", "monthly", "irregular"}
)

// Source is a data provider such as a government agency, media outlet or
// international organization. The ID is chosen by the caller and never changes.
type Source struct {
	ID                 string
	Name               string
	Type               string
	URL                string
	FeedURL            string // optional RSS/Atom feed polled by the rss collector
	ReliabilityScore   float64
	BiasRating         string
	UpdateFrequency    string
	Language           string
	CountryFocus       []string
	TopicCoverage      []string
	APIAvailable       bool
	LastUpdated        time.Time
	VerificationStatus string
	CreatedAt          time.Time
}

// ApplyDefaults fills zero-valued optional fields with their documented defaults.
func (s *Source) ApplyDefaults() {
	if s.ReliabilityScore == 0 {
		s.ReliabilityScore = DefaultReliabilityScore
	}
	if s.Language == "" {
		s.Language = DefaultLanguage
	}
	if s.VerificationStatus == "" {
		s.VerificationStatus = VerificationPending
	}
	if s.CountryFocus == nil {
		s.CountryFocus = []string{}
	}
	if s.TopicCoverage == nil {
		s.TopicCoverage = []string{}
	}
}

// Validate checks required fields and enumerated values.
func (s *Source) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return &ValidationError{Field: "id", Message: "is required"}
	}
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if s.Type == "" {
		return &ValidationError{Field: "type", Message: "is required"}
	}
	if !slices.Contains(SourceTypes, s.Type) {
		return &ValidationError{Field: "type", Message: "must be one of " + strings.Join(SourceTypes, ", ")}
	}
	if s.ReliabilityScore < 0 || s.ReliabilityScore > 10 {
		return &ValidationError{Field: "reliability_score", Message: "must be between 0 and 10"}
	}
	if s.BiasRating != "" && !slices.Contains(biasRatings, s.BiasRating) {
		return &ValidationError{Field: "bias_rating", Message: "must be one of " + strings.Join(biasRatings, ", ")}
	}
	if s.UpdateFrequency != "" && !slices.Contains(updateFrequencies, s.UpdateFrequency) {
		return &ValidationError{Field: "update_frequency", Message: "must be one of " + strings.Join(updateFrequencies, ", ")}
	}
	if s.VerificationStatus != "" && !slices.Contains(verificationStatuses, s.VerificationStatus) {
		return &ValidationError{Field: "verification_status", Message: "must be one of " + strings.Join(verificationStatuses, ", ")}
	}
	return nil
}
