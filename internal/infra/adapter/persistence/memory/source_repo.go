package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"geodata/internal/domain/entity"
	"geodata/internal/repository"
)

type SourceRepo struct{ s *Store }

func NewSourceRepo(s *Store) repository.SourceRepository {
	return &SourceRepo{s: s}
}

func cloneSource(src *entity.Source) *entity.Source {
	c := *src
	c.CountryFocus = cloneStrings(src.CountryFocus)
	c.TopicCoverage = cloneStrings(src.TopicCoverage)
	return &c
}

func (r *SourceRepo) Get(ctx context.Context, id string) (*entity.Source, error) {
	var out *entity.Source
	r.s.read(ctx, func() {
		if src, ok := r.s.sources[id]; ok {
			out = cloneSource(src)
		}
	})
	return out, nil
}

func (r *SourceRepo) List(ctx context.Context, filter repository.SourceFilter) ([]*entity.Source, error) {
	return r.collect(ctx, func(src *entity.Source) bool {
		if filter.Type != "" && src.Type != filter.Type {
			return false
		}
		if filter.VerificationStatus != "" && src.VerificationStatus != filter.VerificationStatus {
			return false
		}
		if filter.MinReliability != nil && src.ReliabilityScore < *filter.MinReliability {
			return false
		}
		return true
	}, func(a, b *entity.Source) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	}), nil
}

func (r *SourceRepo) ListWithFeed(ctx context.Context) ([]*entity.Source, error) {
	return r.collect(ctx, func(src *entity.Source) bool {
		return src.FeedURL != ""
	}, func(a, b *entity.Source) int {
		return cmp.Compare(a.ID, b.ID)
	}), nil
}

func (r *SourceRepo) collect(ctx context.Context, keep func(*entity.Source) bool, order func(a, b *entity.Source) int) []*entity.Source {
	out := make([]*entity.Source, 0, 16)
	r.s.read(ctx, func() {
		for _, src := range r.s.sources {
			if keep(src) {
				out = append(out, cloneSource(src))
			}
		}
	})
	slices.SortFunc(out, order)
	return out
}

func (r *SourceRepo) Create(ctx context.Context, source *entity.Source) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.sources[source.ID]; ok {
			return fmt.Errorf("Create: %w", entity.ErrAlreadyExists)
		}
		r.s.sources[source.ID] = cloneSource(source)
		return nil
	})
}

// Update replaces every column except created_at.
func (r *SourceRepo) Update(ctx context.Context, source *entity.Source) error {
	return r.s.write(ctx, func() error {
		old, ok := r.s.sources[source.ID]
		if !ok {
			return fmt.Errorf("Update: %w", entity.ErrNotFound)
		}
		c := cloneSource(source)
		c.CreatedAt = old.CreatedAt
		r.s.sources[source.ID] = c
		return nil
	})
}

func (r *SourceRepo) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.sources[id]; !ok {
			return fmt.Errorf("Delete: %w", entity.ErrNotFound)
		}
		for _, e := range r.s.entries {
			if e.SourceID == id {
				return fmt.Errorf("Delete: %w", entity.ErrReferenced)
			}
		}
		for _, c := range r.s.countries {
			if c.DataSourceID == id {
				return fmt.Errorf("Delete: %w", entity.ErrReferenced)
			}
		}
		delete(r.s.sources, id)
		return nil
	})
}
