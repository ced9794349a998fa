package country

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"geodata/internal/common/pagination"
	"geodata/internal/domain/entity"
	"geodata/internal/repository"
)

// Service provides country profile use cases.
type Service struct {
	Countries repository.CountryRepository
	Tx        repository.Transactor

	// Now overrides the clock in tests.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Upsert creates the profile or replaces the stored one and reports whether
// it was created. The country code is normalized to lower case.
func (s *Service) Upsert(ctx context.Context, c *entity.CountryProfile) (bool, error) {
	c.ID = strings.ToLower(strings.TrimSpace(c.ID))
	if err := c.Validate(); err != nil {
		return false, err
	}
	if c.Languages == nil {
		c.Languages = []string{}
	}
	c.LastUpdated = s.now()

	created, err := s.Countries.Upsert(ctx, c)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return false, ErrSourceNotFound
		}
		return false, fmt.Errorf("upsert country: %w", err)
	}
	return created, nil
}

// Get returns one profile or ErrCountryNotFound.
func (s *Service) Get(ctx context.Context, id string) (*entity.CountryProfile, error) {
	c, err := s.Countries.Get(ctx, strings.ToLower(id))
	if err != nil {
		return nil, fmt.Errorf("get country: %w", err)
	}
	if c == nil {
		return nil, ErrCountryNotFound
	}
	return c, nil
}

// List returns one page of profiles ordered by name and the filtered total.
func (s *Service) List(ctx context.Context, filter repository.CountryFilter) ([]*entity.CountryProfile, int64, error) {
	p := pagination.Params{Offset: filter.Offset, Limit: filter.Limit}.WithDefaults(pagination.DefaultConfig())
	filter.Offset, filter.Limit = p.Offset, p.Limit

	var (
		countries []*entity.CountryProfile
		total     int64
	)
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if countries, err = s.Countries.List(ctx, filter); err != nil {
			return fmt.Errorf("list countries: %w", err)
		}
		if total, err = s.Countries.Count(ctx, filter); err != nil {
			return fmt.Errorf("count countries: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return countries, total, nil
}

// Search matches name, official name and capital as a substring.
func (s *Service) Search(ctx context.Context, q string, limit int) ([]*entity.CountryProfile, error) {
	countries, err := s.Countries.Search(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("search countries: %w", err)
	}
	return countries, nil
}
