package repository

import (
	"context"

	"geodata/internal/domain/entity"
)

// SourceFilter narrows SourceRepository.List. Zero values do not filter.
type SourceFilter struct {
	Type               string
	VerificationStatus string
	MinReliability     *float64
}

type SourceRepository interface {
	Get(ctx context.Context, id string) (*entity.Source, error)
	List(ctx context.Context, filter SourceFilter) ([]*entity.Source, error)
	ListWithFeed(ctx context.Context) ([]*entity.Source, error)
	// Create returns entity.ErrAlreadyExists when the ID is taken.
	Create(ctx context.Context, source *entity.Source) error
	Update(ctx context.Context, source *entity.Source) error
	Delete(ctx context.Context, id string) error
}
