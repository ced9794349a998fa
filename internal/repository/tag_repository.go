package repository

import (
	"context"

	"geodata/internal/domain/entity"
)

// TagFilter narrows TagRepository.List and Count.
type TagFilter struct {
	DataEntryID string
	TagType     string
	TagCategory string
	IsManual    *bool
	Offset      int
	Limit       int
}

// TagValueCount is one row of the popular tags ranking.
type TagValueCount struct {
	TagValue string
	TagType  string
	Count    int64
}

type TagRepository interface {
	Get(ctx context.Context, id int64) (*entity.Tag, error)
	List(ctx context.Context, filter TagFilter) ([]*entity.Tag, error)
	Count(ctx context.Context, filter TagFilter) (int64, error)
	// Search matches tag_value case-insensitively; tagType may be empty.
	Search(ctx context.Context, query, tagType string, limit int) ([]*entity.Tag, error)
	Create(ctx context.Context, tag *entity.Tag) error
	Update(ctx context.Context, tag *entity.Tag) error
	Delete(ctx context.Context, id int64) error
	CountByType(ctx context.Context) (map[string]int64, error)
	Popular(ctx context.Context, limit int) ([]TagValueCount, error)
}
