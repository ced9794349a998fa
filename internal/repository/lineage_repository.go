package repository

import (
	"context"

	"geodata/internal/domain/entity"
)

// LineageFilter narrows LineageRepository.List and Count.
type LineageFilter struct {
	DataEntryID      string
	ValidationStatus string
	Offset           int
	Limit            int
}

type LineageRepository interface {
	Get(ctx context.Context, id string) (*entity.DataLineage, error)
	// GetForUpdate loads the record and locks it until the surrounding
	// transaction ends. Outside a transaction it behaves like Get.
	GetForUpdate(ctx context.Context, id string) (*entity.DataLineage, error)
	// List returns records ordered by created_at descending.
	List(ctx context.Context, filter LineageFilter) ([]*entity.DataLineage, error)
	Count(ctx context.Context, filter LineageFilter) (int64, error)
	// ListByEntry returns the entry's records ordered by created_at, then id, ascending.
	ListByEntry(ctx context.Context, dataEntryID string) ([]*entity.DataLineage, error)
	// ListWithMetrics returns every record whose quality metrics are present.
	ListWithMetrics(ctx context.Context) ([]*entity.DataLineage, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountDistinctEntries(ctx context.Context) (int64, error)
	Create(ctx context.Context, lineage *entity.DataLineage) error
	Update(ctx context.Context, lineage *entity.DataLineage) error
}
