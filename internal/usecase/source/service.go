package source

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"geodata/internal/domain/entity"
	"geodata/internal/observability/metrics"
	"geodata/internal/repository"
)

// CreateInput represents the input parameters for creating a new source.
// A nil ReliabilityScore selects the default score.
type CreateInput struct {
	ID                 string
	Name               string
	Type               string
	URL                string
	FeedURL            string
	ReliabilityScore   *float64
	BiasRating         string
	UpdateFrequency    string
	Language           string
	CountryFocus       []string
	TopicCoverage      []string
	APIAvailable       bool
	VerificationStatus string
}

// UpdateInput represents a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	ID                 string
	Name               *string
	Type               *string
	URL                *string
	FeedURL            *string
	ReliabilityScore   *float64
	BiasRating         *string
	UpdateFrequency    *string
	Language           *string
	CountryFocus       []string
	TopicCoverage      []string
	APIAvailable       *bool
	VerificationStatus *string
}

// Stats summarizes the registered sources.
type Stats struct {
	TotalSources    int
	VerifiedSources int
	// AverageReliability is rounded to two decimals and 0 without sources.
	AverageReliability float64
	SourcesByType      map[string]int
}

// Service provides source management use cases.
type Service struct {
	Repo repository.SourceRepository

	// Now overrides the clock in tests.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// List returns the sources matching filter, ordered by name.
func (s *Service) List(ctx context.Context, filter repository.SourceFilter) ([]*entity.Source, error) {
	sources, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	return sources, nil
}

// Get returns one source or ErrSourceNotFound.
func (s *Service) Get(ctx context.Context, id string) (*entity.Source, error) {
	src, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	if src == nil {
		return nil, ErrSourceNotFound
	}
	return src, nil
}

// Create registers a new source under the caller-chosen ID.
// Returns ErrDuplicateSource when the ID is already taken.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Source, error) {
	now := s.now()
	src := &entity.Source{
		ID:                 strings.TrimSpace(in.ID),
		Name:               strings.TrimSpace(in.Name),
		Type:               in.Type,
		URL:                in.URL,
		FeedURL:            in.FeedURL,
		BiasRating:         in.BiasRating,
		UpdateFrequency:    in.UpdateFrequency,
		Language:           in.Language,
		CountryFocus:       in.CountryFocus,
		TopicCoverage:      in.TopicCoverage,
		APIAvailable:       in.APIAvailable,
		VerificationStatus: in.VerificationStatus,
		LastUpdated:        now,
		CreatedAt:          now,
	}
	src.ApplyDefaults()
	// An explicit zero score is kept.
	if in.ReliabilityScore != nil {
		src.ReliabilityScore = *in.ReliabilityScore
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if err := validateURLs(src); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(ctx, src); err != nil {
		if errors.Is(err, entity.ErrAlreadyExists) {
			return nil, ErrDuplicateSource
		}
		return nil, fmt.Errorf("create source: %w", err)
	}
	return src, nil
}

// Update applies the non-nil fields of in and refreshes LastUpdated.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*entity.Source, error) {
	src, err := s.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	setString(&src.Name, in.Name)
	setString(&src.Type, in.Type)
	setString(&src.URL, in.URL)
	setString(&src.FeedURL, in.FeedURL)
	setString(&src.BiasRating, in.BiasRating)
	setString(&src.UpdateFrequency, in.UpdateFrequency)
	setString(&src.Language, in.Language)
	setString(&src.VerificationStatus, in.VerificationStatus)
	if in.ReliabilityScore != nil {
		src.ReliabilityScore = *in.ReliabilityScore
	}
	if in.CountryFocus != nil {
		src.CountryFocus = in.CountryFocus
	}
	if in.TopicCoverage != nil {
		src.TopicCoverage = in.TopicCoverage
	}
	if in.APIAvailable != nil {
		src.APIAvailable = *in.APIAvailable
	}
	src.LastUpdated = s.now()

	if err := src.Validate(); err != nil {
		return nil, err
	}
	if err := validateURLs(src); err != nil {
		return nil, err
	}

	if err := s.Repo.Update(ctx, src); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrSourceNotFound
		}
		return nil, fmt.Errorf("update source: %w", err)
	}
	return src, nil
}

// Delete removes a source that nothing references any more.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, entity.ErrNotFound):
			return ErrSourceNotFound
		case errors.Is(err, entity.ErrReferenced):
			return ErrSourceInUse
		}
		return fmt.Errorf("delete source: %w", err)
	}
	return nil
}

// Types returns the accepted source types.
func (s *Service) Types() []string {
	return append([]string(nil), entity.SourceTypes...)
}

// Stats counts sources by type and verification and averages reliability.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	sources, err := s.Repo.List(ctx, repository.SourceFilter{})
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	st := &Stats{TotalSources: len(sources), SourcesByType: make(map[string]int)}
	var sum float64
	for _, src := range sources {
		sum += src.ReliabilityScore
		st.SourcesByType[src.Type]++
		if src.VerificationStatus == entity.VerificationVerified {
			st.VerifiedSources++
		}
	}
	if len(sources) > 0 {
		st.AverageReliability = math.Round(sum/float64(len(sources))*100) / 100
	}
	metrics.UpdateSourcesTotal(len(sources))
	return st, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func validateURLs(src *entity.Source) error {
	if src.URL != "" {
		if err := entity.ValidateURL("url", src.URL); err != nil {
			return err
		}
	}
	if src.FeedURL != "" {
		if err := entity.ValidateURL("feed_url", src.FeedURL); err != nil {
			return err
		}
	}
	return nil
}
