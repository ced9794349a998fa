package tag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"geodata/internal/common/pagination"
	"geodata/internal/domain/entity"
	"geodata/internal/repository"
)

const (
	// PopularLimit caps the popular tag ranking in Stats.
	PopularLimit = 20
	// DefaultSearchLimit applies when Search gets a non-positive limit.
	DefaultSearchLimit = 50
)

// CreateInput describes one tag. A nil ConfidenceScore selects the default.
type CreateInput struct {
	DataEntryID     string
	TagType         string
	TagCategory     string
	TagValue        string
	ConfidenceScore *float64
	IsManual        bool
	CreatedBy       string
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	ID              int64
	TagType         *string
	TagCategory     *string
	TagValue        *string
	ConfidenceScore *float64
	IsManual        *bool
}

// Stats summarizes all stored tags.
type Stats struct {
	TotalTags     int64
	ManualTags    int64
	AutomaticTags int64
	TagsByType    map[string]int64
	PopularTags   []repository.TagValueCount
}

// Service provides tag use cases.
type Service struct {
	Tags    repository.TagRepository
	Entries repository.DataEntryRepository
	Tx      repository.Transactor

	// Now overrides the clock in tests.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) build(in CreateInput) (*entity.Tag, error) {
	t := &entity.Tag{
		DataEntryID: in.DataEntryID,
		TagType:     in.TagType,
		TagCategory: in.TagCategory,
		TagValue:    in.TagValue,
		IsManual:    in.IsManual,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   s.now(),
	}
	t.ApplyDefaults()
	if in.ConfidenceScore != nil {
		t.ConfidenceScore = *in.ConfidenceScore
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// insert creates t after checking its entry; it must run inside a transaction.
func (s *Service) insert(ctx context.Context, t *entity.Tag) error {
	entry, err := s.Entries.Get(ctx, t.DataEntryID)
	if err != nil {
		return fmt.Errorf("get data entry: %w", err)
	}
	if entry == nil {
		return ErrDataEntryNotFound
	}
	if err := s.Tags.Create(ctx, t); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrDataEntryNotFound
		}
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// Create attaches one tag to an existing data entry.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Tag, error) {
	t, err := s.build(in)
	if err != nil {
		return nil, err
	}
	if err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.insert(ctx, t)
	}); err != nil {
		return nil, err
	}
	return t, nil
}

// CreateBulk creates all tags in one transaction. Any invalid tag or
// missing entry fails the whole batch and nothing is stored.
func (s *Service) CreateBulk(ctx context.Context, in []CreateInput) ([]*entity.Tag, error) {
	if len(in) == 0 {
		return nil, &entity.ValidationError{Field: "tags", Message: "is required"}
	}

	tags := make([]*entity.Tag, 0, len(in))
	for i, ti := range in {
		t, err := s.build(ti)
		if err != nil {
			var ve *entity.ValidationError
			if errors.As(err, &ve) {
				return nil, &entity.ValidationError{Field: fmt.Sprintf("tags[%d].%s", i, ve.Field), Message: ve.Message}
			}
			return nil, err
		}
		tags = append(tags, t)
	}

	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, t := range tags {
			if err := s.insert(ctx, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// Get returns one tag or ErrTagNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Tag, error) {
	t, err := s.Tags.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	if t == nil {
		return nil, ErrTagNotFound
	}
	return t, nil
}

// List returns one page of tags, newest first, and the filtered total.
func (s *Service) List(ctx context.Context, filter repository.TagFilter) ([]*entity.Tag, int64, error) {
	p := pagination.Params{Offset: filter.Offset, Limit: filter.Limit}.WithDefaults(pagination.DefaultConfig())
	filter.Offset, filter.Limit = p.Offset, p.Limit

	var (
		tags  []*entity.Tag
		total int64
	)
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if tags, err = s.Tags.List(ctx, filter); err != nil {
			return fmt.Errorf("list tags: %w", err)
		}
		if total, err = s.Tags.Count(ctx, filter); err != nil {
			return fmt.Errorf("count tags: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return tags, total, nil
}

// Update applies the non-nil fields of in. The entry, author and creation
// time never change.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*entity.Tag, error) {
	var t *entity.Tag
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if t, err = s.Get(ctx, in.ID); err != nil {
			return err
		}
		if in.TagType != nil {
			t.TagType = *in.TagType
		}
		if in.TagCategory != nil {
			t.TagCategory = *in.TagCategory
		}
		if in.TagValue != nil {
			t.TagValue = *in.TagValue
		}
		if in.ConfidenceScore != nil {
			t.ConfidenceScore = *in.ConfidenceScore
		}
		if in.IsManual != nil {
			t.IsManual = *in.IsManual
		}
		if err := t.Validate(); err != nil {
			return err
		}
		if err := s.Tags.Update(ctx, t); err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				return ErrTagNotFound
			}
			return fmt.Errorf("update tag: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes one tag.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.Tags.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrTagNotFound
		}
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}

// Types returns the tag schema: each type with its description and categories.
func (s *Service) Types() map[string]entity.TagTypeInfo {
	out := make(map[string]entity.TagTypeInfo, len(entity.TagSchema))
	for k, v := range entity.TagSchema {
		v.Categories = append([]string(nil), v.Categories...)
		out[k] = v
	}
	return out
}

// Search matches tag values as a case-insensitive substring, best
// confidence first. tagType may be empty.
func (s *Service) Search(ctx context.Context, q, tagType string, limit int) ([]*entity.Tag, error) {
	if tagType != "" {
		if _, ok := entity.TagSchema[tagType]; !ok {
			return nil, &entity.ValidationError{Field: "tag_type", Message: "is invalid"}
		}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	tags, err := s.Tags.Search(ctx, q, tagType, limit)
	if err != nil {
		return nil, fmt.Errorf("search tags: %w", err)
	}
	return tags, nil
}

// Stats counts tags by origin and type and ranks the most used values.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{}
	manual := true
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if st.TotalTags, err = s.Tags.Count(ctx, repository.TagFilter{}); err != nil {
			return fmt.Errorf("count tags: %w", err)
		}
		if st.ManualTags, err = s.Tags.Count(ctx, repository.TagFilter{IsManual: &manual}); err != nil {
			return fmt.Errorf("count manual tags: %w", err)
		}
		if st.TagsByType, err = s.Tags.CountByType(ctx); err != nil {
			return fmt.Errorf("count tags by type: %w", err)
		}
		if st.PopularTags, err = s.Tags.Popular(ctx, PopularLimit); err != nil {
			return fmt.Errorf("popular tags: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	st.AutomaticTags = st.TotalTags - st.ManualTags
	return st, nil
}
