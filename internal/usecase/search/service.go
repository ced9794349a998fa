// Package search runs substring lookups across data entries and country
// profiles. Results are not ranked.
package search

import (
	"context"
	"fmt"
	"slices"

	"geodata/internal/domain/entity"
	"geodata/internal/repository"
)

// Kinds accepted by Search. An empty kind searches both.
const (
	KindEntries   = "entries"
	KindCountries = "countries"
)

// DefaultLimit applies when Search is called with a non-positive limit.
const DefaultLimit = 20

// Result is one hit; exactly one of Entry and Country is set.
type Result struct {
	Type    string
	Entry   *entity.DataEntry
	Country *entity.CountryProfile
}

// Results holds at most limit hits. Total counts the hits before truncation.
type Results struct {
	Query   string
	Results []Result
	Total   int
}

type Service struct {
	Entries   repository.DataEntryRepository
	Countries repository.CountryRepository
}

// Search looks q up in entries and, unless kind restricts it, countries.
// Entries come first.
func (s *Service) Search(ctx context.Context, q, kind string, limit int) (*Results, error) {
	if kind != "" && !slices.Contains([]string{KindEntries, KindCountries}, kind) {
		return nil, &entity.ValidationError{Field: "type", Message: "must be one of entries, countries"}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	out := &Results{Query: q, Results: []Result{}}
	if kind == "" || kind == KindEntries {
		entries, err := s.Entries.Search(ctx, q, limit)
		if err != nil {
			return nil, fmt.Errorf("search entries: %w", err)
		}
		for _, e := range entries {
			out.Results = append(out.Results, Result{Type: "entry", Entry: e})
		}
	}
	if kind == "" || kind == KindCountries {
		countries, err := s.Countries.Search(ctx, q, limit)
		if err != nil {
			return nil, fmt.Errorf("search countries: %w", err)
		}
		for _, c := range countries {
			out.Results = append(out.Results, Result{Type: "country", Country: c})
		}
	}

	out.Total = len(out.Results)
	if len(out.Results) > limit {
		out.Results = out.Results[:limit]
	}
	return out, nil
}
