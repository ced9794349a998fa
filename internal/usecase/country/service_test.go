package country_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geodata/internal/domain/entity"
	"geodata/internal/infra/adapter/persistence/memory"
	"geodata/internal/repository"
	countryUC "geodata/internal/usecase/country"
)

var fixedNow = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func newService(t *testing.T) *countryUC.Service {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, memory.NewSourceRepo(store).Create(context.Background(),
		&entity.Source{ID: "cia_factbook", Name: "CIA World Factbook", Type: "government"}))
	return &countryUC.Service{
		Countries: memory.NewCountryRepo(store),
		Tx:        store,
		Now:       func() time.Time { return fixedNow },
	}
}

func TestService_Upsert_CreateThenUpdate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	pop := int64(68_000_000)

	created, err := svc.Upsert(ctx, &entity.CountryProfile{
		ID: " FR ", Name: "France", Region: "europe", Capital: "Paris", Population: &pop, DataSourceID: "cia_factbook",
	})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.Upsert(ctx, &entity.CountryProfile{ID: "fr", Name: "French Republic", Region: "europe"})
	require.NoError(t, err)
	assert.False(t, created)

	got, err := svc.Get(ctx, "FR")
	require.NoError(t, err)
	assert.Equal(t, "French Republic", got.Name)
	assert.Equal(t, []string{}, got.Languages)
	assert.Equal(t, fixedNow, got.LastUpdated)
}

func TestService_Upsert_Errors(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, &entity.CountryProfile{Name: "Nowhere"})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	_, err = svc.Upsert(ctx, &entity.CountryProfile{ID: "de", Name: "Germany", DataSourceID: "ghost"})
	assert.ErrorIs(t, err, countryUC.ErrSourceNotFound)

	_, err = svc.Get(ctx, "de")
	assert.ErrorIs(t, err, countryUC.ErrCountryNotFound)
}

func TestService_ListAndSearch(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	for _, c := range []*entity.CountryProfile{
		{ID: "ke", Name: "Kenya", Region: "africa", Capital: "Nairobi"},
		{ID: "eg", Name: "Egypt", Region: "africa", Capital: "Cairo"},
		{ID: "pl", Name: "Poland", Region: "europe", Capital: "Warsaw"},
	} {
		_, err := svc.Upsert(ctx, c)
		require.NoError(t, err)
	}

	got, total, err := svc.List(ctx, repository.CountryFilter{Region: "africa"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, got, 2)
	assert.Equal(t, "Egypt", got[0].Name)

	found, err := svc.Search(ctx, "nairobi", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "ke", found[0].ID)
}
