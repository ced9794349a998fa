package repository

import (
	"context"

	"geodata/internal/domain/entity"
)

// CountryFilter narrows CountryRepository.List and Count.
type CountryFilter struct {
	Region string
	Offset int
	Limit  int
}

type CountryRepository interface {
	Get(ctx context.Context, id string) (*entity.CountryProfile, error)
	// List returns profiles ordered by name.
	List(ctx context.Context, filter CountryFilter) ([]*entity.CountryProfile, error)
	Count(ctx context.Context, filter CountryFilter) (int64, error)
	Search(ctx context.Context, query string, limit int) ([]*entity.CountryProfile, error)
	// Upsert inserts or replaces the profile and reports whether it was new.
	Upsert(ctx context.Context, country *entity.CountryProfile) (bool, error)
}
