package repository

import (
	"context"

	"geodata/internal/domain/entity"
)

// DataEntryFilter narrows DataEntryRepository.List and Count.
type DataEntryFilter struct {
	SourceID    string
	ContentType string
	Processed   *bool
	Offset      int
	Limit       int
}

type DataEntryRepository interface {
	Get(ctx context.Context, id string) (*entity.DataEntry, error)
	// List returns entries ordered by collected_date descending.
	List(ctx context.Context, filter DataEntryFilter) ([]*entity.DataEntry, error)
	// Count ignores Offset and Limit.
	Count(ctx context.Context, filter DataEntryFilter) (int64, error)
	Search(ctx context.Context, query string, limit int) ([]*entity.DataEntry, error)
	Create(ctx context.Context, entry *entity.DataEntry) error
	MarkProcessed(ctx context.Context, id string) error
	// ExistsByHashBatch reports which of the given content hashes are already stored.
	ExistsByHashBatch(ctx context.Context, hashes []string) (map[string]bool, error)
	// FindByHash returns the oldest entry of sourceID with the given content
	// hash, or nil when there is none.
	FindByHash(ctx context.Context, sourceID, hash string) (*entity.DataEntry, error)
}
