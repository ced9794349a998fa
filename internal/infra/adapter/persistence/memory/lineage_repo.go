package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"geodata/internal/domain/entity"
	"geodata/internal/repository"
)

type LineageRepo struct{ s *Store }

func NewLineageRepo(s *Store) repository.LineageRepository {
	return &LineageRepo{s: s}
}

func cloneLineage(l *entity.DataLineage) *entity.DataLineage {
	c := *l
	if l.SourceChain == nil {
		c.SourceChain = []entity.SourceChainStep{}
	} else {
		c.SourceChain = slices.Clone(l.SourceChain)
	}
	if l.QualityMetrics != nil {
		m := entity.QualityMetrics{}.Merge(*l.QualityMetrics)
		c.QualityMetrics = &m
	}
	if l.LastVerified != nil {
		t := *l.LastVerified
		c.LastVerified = &t
	}
	return &c
}

func lineageMatches(l *entity.DataLineage, filter repository.LineageFilter) bool {
	if filter.DataEntryID != "" && l.DataEntryID != filter.DataEntryID {
		return false
	}
	if filter.ValidationStatus != "" && l.ValidationStatus != filter.ValidationStatus {
		return false
	}
	return true
}

func oldestFirst(a, b *entity.DataLineage) int {
	return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
}

func (r *LineageRepo) Get(ctx context.Context, id string) (*entity.DataLineage, error) {
	var out *entity.DataLineage
	r.s.read(ctx, func() {
		if l, ok := r.s.lineage[id]; ok {
			out = cloneLineage(l)
		}
	})
	return out, nil
}

// GetForUpdate needs no row lock: a transaction already holds the store
// exclusively.
func (r *LineageRepo) GetForUpdate(ctx context.Context, id string) (*entity.DataLineage, error) {
	return r.Get(ctx, id)
}

func (r *LineageRepo) List(ctx context.Context, filter repository.LineageFilter) ([]*entity.DataLineage, error) {
	out := r.collect(ctx, func(l *entity.DataLineage) bool { return lineageMatches(l, filter) })
	slices.SortFunc(out, func(a, b *entity.DataLineage) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return page(out, filter.Offset, filter.Limit), nil
}

func (r *LineageRepo) Count(ctx context.Context, filter repository.LineageFilter) (int64, error) {
	var n int64
	r.s.read(ctx, func() {
		for _, l := range r.s.lineage {
			if lineageMatches(l, filter) {
				n++
			}
		}
	})
	return n, nil
}

func (r *LineageRepo) ListByEntry(ctx context.Context, dataEntryID string) ([]*entity.DataLineage, error) {
	out := r.collect(ctx, func(l *entity.DataLineage) bool { return l.DataEntryID == dataEntryID })
	slices.SortFunc(out, oldestFirst)
	return out, nil
}

func (r *LineageRepo) ListWithMetrics(ctx context.Context) ([]*entity.DataLineage, error) {
	out := r.collect(ctx, func(l *entity.DataLineage) bool { return l.QualityMetrics != nil })
	slices.SortFunc(out, oldestFirst)
	return out, nil
}

func (r *LineageRepo) collect(ctx context.Context, keep func(*entity.DataLineage) bool) []*entity.DataLineage {
	out := make([]*entity.DataLineage, 0, 16)
	r.s.read(ctx, func() {
		for _, l := range r.s.lineage {
			if keep(l) {
				out = append(out, cloneLineage(l))
			}
		}
	})
	return out
}

func (r *LineageRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	r.s.read(ctx, func() {
		for _, l := range r.s.lineage {
			out[l.ValidationStatus]++
		}
	})
	return out, nil
}

func (r *LineageRepo) CountDistinctEntries(ctx context.Context) (int64, error) {
	seen := make(map[string]struct{})
	r.s.read(ctx, func() {
		for _, l := range r.s.lineage {
			seen[l.DataEntryID] = struct{}{}
		}
	})
	return int64(len(seen)), nil
}

func (r *LineageRepo) Create(ctx context.Context, lineage *entity.DataLineage) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.entries[lineage.DataEntryID]; !ok {
			return fmt.Errorf("Create: data entry %q: %w", lineage.DataEntryID, entity.ErrNotFound)
		}
		if _, ok := r.s.lineage[lineage.ID]; ok {
			return fmt.Errorf("Create: %w", entity.ErrAlreadyExists)
		}
		r.s.lineage[lineage.ID] = cloneLineage(lineage)
		return nil
	})
}

// Update rewrites source_chain, quality_metrics, validation_status and
// last_verified. Identity columns keep their stored values.
func (r *LineageRepo) Update(ctx context.Context, lineage *entity.DataLineage) error {
	return r.s.write(ctx, func() error {
		old, ok := r.s.lineage[lineage.ID]
		if !ok {
			return fmt.Errorf("Update: %w", entity.ErrNotFound)
		}
		c := cloneLineage(lineage)
		c.DataEntryID = old.DataEntryID
		c.CreatedAt = old.CreatedAt
		r.s.lineage[lineage.ID] = c
		return nil
	})
}
