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

type TagRepo struct{ s *Store }

func NewTagRepo(s *Store) repository.TagRepository {
	return &TagRepo{s: s}
}

func cloneTag(t *entity.Tag) *entity.Tag {
	c := *t
	return &c
}

func tagMatches(t *entity.Tag, filter repository.TagFilter) bool {
	switch {
	case filter.DataEntryID != "" && t.DataEntryID != filter.DataEntryID:
		return false
	case filter.TagType != "" && t.TagType != filter.TagType:
		return false
	case filter.TagCategory != "" && t.TagCategory != filter.TagCategory:
		return false
	case filter.IsManual != nil && t.IsManual != *filter.IsManual:
		return false
	}
	return true
}

func (r *TagRepo) Get(ctx context.Context, id int64) (*entity.Tag, error) {
	var out *entity.Tag
	r.s.read(ctx, func() {
		if t, ok := r.s.tags[id]; ok {
			out = cloneTag(t)
		}
	})
	return out, nil
}

func (r *TagRepo) List(ctx context.Context, filter repository.TagFilter) ([]*entity.Tag, error) {
	out := r.collect(ctx, func(t *entity.Tag) bool { return tagMatches(t, filter) })
	slices.SortFunc(out, func(a, b *entity.Tag) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
	})
	return page(out, filter.Offset, filter.Limit), nil
}

func (r *TagRepo) Count(ctx context.Context, filter repository.TagFilter) (int64, error) {
	var n int64
	r.s.read(ctx, func() {
		for _, t := range r.s.tags {
			if tagMatches(t, filter) {
				n++
			}
		}
	})
	return n, nil
}

func (r *TagRepo) Search(ctx context.Context, q, tagType string, limit int) ([]*entity.Tag, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	out := r.collect(ctx, func(t *entity.Tag) bool {
		if tagType != "" && t.TagType != tagType {
			return false
		}
		return containsFold(q, t.TagValue)
	})
	slices.SortFunc(out, func(a, b *entity.Tag) int {
		return cmp.Or(cmp.Compare(b.ConfidenceScore, a.ConfidenceScore), cmp.Compare(a.ID, b.ID))
	})
	return page(out, 0, limit), nil
}

func (r *TagRepo) collect(ctx context.Context, keep func(*entity.Tag) bool) []*entity.Tag {
	out := make([]*entity.Tag, 0, 16)
	r.s.read(ctx, func() {
		for _, t := range r.s.tags {
			if keep(t) {
				out = append(out, cloneTag(t))
			}
		}
	})
	return out
}

// Create assigns the next ID to tag.
func (r *TagRepo) Create(ctx context.Context, tag *entity.Tag) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.entries[tag.DataEntryID]; !ok {
			return fmt.Errorf("Create: data entry %q: %w", tag.DataEntryID, entity.ErrNotFound)
		}
		tag.ID = r.s.nextTagID
		r.s.nextTagID++
		r.s.tags[tag.ID] = cloneTag(tag)
		return nil
	})
}

func (r *TagRepo) Update(ctx context.Context, tag *entity.Tag) error {
	return r.s.write(ctx, func() error {
		old, ok := r.s.tags[tag.ID]
		if !ok {
			return fmt.Errorf("Update: %w", entity.ErrNotFound)
		}
		c := cloneTag(old)
		c.TagType = tag.TagType
		c.TagCategory = tag.TagCategory
		c.TagValue = tag.TagValue
		c.ConfidenceScore = tag.ConfidenceScore
		c.IsManual = tag.IsManual
		r.s.tags[tag.ID] = c
		return nil
	})
}

func (r *TagRepo) Delete(ctx context.Context, id int64) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.tags[id]; !ok {
			return fmt.Errorf("Delete: %w", entity.ErrNotFound)
		}
		delete(r.s.tags, id)
		return nil
	})
}

func (r *TagRepo) CountByType(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	r.s.read(ctx, func() {
		for _, t := range r.s.tags {
			out[t.TagType]++
		}
	})
	return out, nil
}

func (r *TagRepo) Popular(ctx context.Context, limit int) ([]repository.TagValueCount, error) {
	type key struct{ value, typ string }
	counts := make(map[key]int64)
	r.s.read(ctx, func() {
		for _, t := range r.s.tags {
			counts[key{t.TagValue, t.TagType}]++
		}
	})

	out := make([]repository.TagValueCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, repository.TagValueCount{TagValue: k.value, TagType: k.typ, Count: n})
	}
	slices.SortFunc(out, func(a, b repository.TagValueCount) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.TagValue, b.TagValue), cmp.Compare(a.TagType, b.TagType))
	})
	return page(out, 0, limit), nil
}
