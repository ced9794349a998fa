package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"geodata/internal/domain/entity"
	"geodata/internal/repository"
)

type CountryRepo struct{ s *Store }

func NewCountryRepo(s *Store) repository.CountryRepository {
	return &CountryRepo{s: s}
}

func cloneCountry(c *entity.CountryProfile) *entity.CountryProfile {
	out := *c
	out.Languages = cloneStrings(c.Languages)
	return &out
}

func (r *CountryRepo) Get(ctx context.Context, id string) (*entity.CountryProfile, error) {
	var out *entity.CountryProfile
	r.s.read(ctx, func() {
		if c, ok := r.s.countries[id]; ok {
			out = cloneCountry(c)
		}
	})
	return out, nil
}

func (r *CountryRepo) List(ctx context.Context, filter repository.CountryFilter) ([]*entity.CountryProfile, error) {
	out := r.collect(ctx, func(c *entity.CountryProfile) bool {
		return filter.Region == "" || c.Region == filter.Region
	})
	return page(out, filter.Offset, filter.Limit), nil
}

func (r *CountryRepo) Count(ctx context.Context, filter repository.CountryFilter) (int64, error) {
	var n int64
	r.s.read(ctx, func() {
		for _, c := range r.s.countries {
			if filter.Region == "" || c.Region == filter.Region {
				n++
			}
		}
	})
	return n, nil
}

func (r *CountryRepo) Search(ctx context.Context, q string, limit int) ([]*entity.CountryProfile, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	out := r.collect(ctx, func(c *entity.CountryProfile) bool {
		return containsFold(q, c.Name, c.OfficialName, c.Capital)
	})
	return page(out, 0, limit), nil
}

func (r *CountryRepo) collect(ctx context.Context, keep func(*entity.CountryProfile) bool) []*entity.CountryProfile {
	out := make([]*entity.CountryProfile, 0, 16)
	r.s.read(ctx, func() {
		for _, c := range r.s.countries {
			if keep(c) {
				out = append(out, cloneCountry(c))
			}
		}
	})
	slices.SortFunc(out, func(a, b *entity.CountryProfile) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out
}

func (r *CountryRepo) Upsert(ctx context.Context, country *entity.CountryProfile) (bool, error) {
	var inserted bool
	err := r.s.write(ctx, func() error {
		if country.DataSourceID != "" {
			if _, ok := r.s.sources[country.DataSourceID]; !ok {
				return fmt.Errorf("Upsert: source %q: %w", country.DataSourceID, entity.ErrNotFound)
			}
		}
		_, exists := r.s.countries[country.ID]
		inserted = !exists
		r.s.countries[country.ID] = cloneCountry(country)
		return nil
	})
	return inserted, err
}
