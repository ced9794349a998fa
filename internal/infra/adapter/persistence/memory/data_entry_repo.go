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

type DataEntryRepo struct{ s *Store }

func NewDataEntryRepo(s *Store) repository.DataEntryRepository {
	return &DataEntryRepo{s: s}
}

func cloneEntry(e *entity.DataEntry) *entity.DataEntry {
	c := *e
	if e.PublishedDate != nil {
		t := *e.PublishedDate
		c.PublishedDate = &t
	}
	return &c
}

func entryMatches(e *entity.DataEntry, filter repository.DataEntryFilter) bool {
	if filter.SourceID != "" && e.SourceID != filter.SourceID {
		return false
	}
	if filter.ContentType != "" && e.ContentType != filter.ContentType {
		return false
	}
	if filter.Processed != nil && e.Processed != *filter.Processed {
		return false
	}
	return true
}

// newestFirst orders by collected_date descending, then id.
func newestFirst(a, b *entity.DataEntry) int {
	return cmp.Or(b.CollectedDate.Compare(a.CollectedDate), cmp.Compare(a.ID, b.ID))
}

func (r *DataEntryRepo) Get(ctx context.Context, id string) (*entity.DataEntry, error) {
	var out *entity.DataEntry
	r.s.read(ctx, func() {
		if e, ok := r.s.entries[id]; ok {
			out = cloneEntry(e)
		}
	})
	return out, nil
}

func (r *DataEntryRepo) List(ctx context.Context, filter repository.DataEntryFilter) ([]*entity.DataEntry, error) {
	out := r.collect(ctx, func(e *entity.DataEntry) bool { return entryMatches(e, filter) })
	return page(out, filter.Offset, filter.Limit), nil
}

func (r *DataEntryRepo) Count(ctx context.Context, filter repository.DataEntryFilter) (int64, error) {
	var n int64
	r.s.read(ctx, func() {
		for _, e := range r.s.entries {
			if entryMatches(e, filter) {
				n++
			}
		}
	})
	return n, nil
}

func (r *DataEntryRepo) Search(ctx context.Context, q string, limit int) ([]*entity.DataEntry, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	out := r.collect(ctx, func(e *entity.DataEntry) bool {
		return containsFold(q, e.Title, e.Content)
	})
	return page(out, 0, limit), nil
}

func (r *DataEntryRepo) collect(ctx context.Context, keep func(*entity.DataEntry) bool) []*entity.DataEntry {
	out := make([]*entity.DataEntry, 0, 16)
	r.s.read(ctx, func() {
		for _, e := range r.s.entries {
			if keep(e) {
				out = append(out, cloneEntry(e))
			}
		}
	})
	slices.SortFunc(out, newestFirst)
	return out
}

func (r *DataEntryRepo) Create(ctx context.Context, entry *entity.DataEntry) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.sources[entry.SourceID]; !ok {
			return fmt.Errorf("Create: source %q: %w", entry.SourceID, entity.ErrNotFound)
		}
		if _, ok := r.s.entries[entry.ID]; ok {
			return fmt.Errorf("Create: %w", entity.ErrAlreadyExists)
		}
		r.s.entries[entry.ID] = cloneEntry(entry)
		return nil
	})
}

func (r *DataEntryRepo) MarkProcessed(ctx context.Context, id string) error {
	return r.s.write(ctx, func() error {
		e, ok := r.s.entries[id]
		if !ok {
			return fmt.Errorf("MarkProcessed: %w", entity.ErrNotFound)
		}
		c := cloneEntry(e)
		c.Processed = true
		r.s.entries[id] = c
		return nil
	})
}

func (r *DataEntryRepo) ExistsByHashBatch(ctx context.Context, hashes []string) (map[string]bool, error) {
	result := make(map[string]bool, len(hashes))
	if len(hashes) == 0 {
		return result, nil
	}
	r.s.read(ctx, func() {
		for _, e := range r.s.entries {
			if slices.Contains(hashes, e.RawDataHash) {
				result[e.RawDataHash] = true
			}
		}
	})
	return result, nil
}

func (r *DataEntryRepo) FindByHash(ctx context.Context, sourceID, hash string) (*entity.DataEntry, error) {
	out := r.collect(ctx, func(e *entity.DataEntry) bool {
		return e.SourceID == sourceID && e.RawDataHash == hash
	})
	if len(out) == 0 {
		return nil, nil
	}
	return out[len(out)-1], nil
}

// containsFold reports whether any field contains the lower-cased needle.
// An empty needle matches everything.
func containsFold(needle string, fields ...string) bool {
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
