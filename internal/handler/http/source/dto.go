// Package source serves the data source registry under /api/sources.
package source

import (
	"errors"
	"net/http"
	"time"

	"geodata/internal/domain/entity"
	srcUC "geodata/internal/usecase/source"
)

type DTO struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	URL                string    `json:"url"`
	FeedURL            string    `json:"feed_url,omitempty"`
	ReliabilityScore   float64   `json:"reliability_score"`
	BiasRating         string    `json:"bias_rating"`
	UpdateFrequency    string    `json:"update_frequency"`
	Language           string    `json:"language"`
	CountryFocus       []string  `json:"country_focus"`
	TopicCoverage      []string  `json:"topic_coverage"`
	APIAvailable       bool      `json:"api_available"`
	LastUpdated        time.Time `json:"last_updated"`
	VerificationStatus string    `json:"verification_status"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewDTO converts an entity. A nil source yields nil.
func NewDTO(s *entity.Source) *DTO {
	if s == nil {
		return nil
	}
	out := &DTO{
		ID:                 s.ID,
		Name:               s.Name,
		Type:               s.Type,
		URL:                s.URL,
		FeedURL:            s.FeedURL,
		ReliabilityScore:   s.ReliabilityScore,
		BiasRating:         s.BiasRating,
		UpdateFrequency:    s.UpdateFrequency,
		Language:           s.Language,
		CountryFocus:       s.CountryFocus,
		TopicCoverage:      s.TopicCoverage,
		APIAvailable:       s.APIAvailable,
		LastUpdated:        s.LastUpdated,
		VerificationStatus: s.VerificationStatus,
		CreatedAt:          s.CreatedAt,
	}
	if out.CountryFocus == nil {
		out.CountryFocus = []string{}
	}
	if out.TopicCoverage == nil {
		out.TopicCoverage = []string{}
	}
	return out
}

// StatsDTO is the body of GET /api/sources/stats.
type StatsDTO struct {
	TotalSources       int            `json:"total_sources"`
	VerifiedSources    int            `json:"verified_sources"`
	AverageReliability float64        `json:"average_reliability"`
	SourcesByType      map[string]int `json:"sources_by_type"`
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, srcUC.ErrSourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, srcUC.ErrDuplicateSource), errors.Is(err, srcUC.ErrSourceInUse):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
