package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geodata/internal/domain/entity"
	"geodata/internal/infra/adapter/persistence/memory"
	"geodata/internal/repository"
)

/* ──────────────────────────────── ヘルパ ──────────────────────────────── */

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func f64(v float64) *float64 { return &v }

func seed(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, memory.NewSourceRepo(s).Create(ctx, &entity.Source{
		ID: "cia_factbook", Name: "CIA World Factbook", Type: entity.SourceTypeGovernment, CreatedAt: base,
	}))
	require.NoError(t, memory.NewDataEntryRepo(s).Create(ctx, &entity.DataEntry{
		ID: "e1", SourceID: "cia_factbook", Title: "France", Content: "Country profile of France",
		ContentType: entity.ContentTypeProfile, CollectedDate: base, RawDataHash: "h1",
	}))
	return s
}

/* ──────────────────────────────── Transactions ──────────────────────────────── */

func TestStore_WithinTx_RollsBackOnError(t *testing.T) {
	s := seed(t)
	lineage := memory.NewLineageRepo(s)
	tags := memory.NewTagRepo(s)
	boom := errors.New("boom")

	err := s.WithinTx(context.Background(), func(ctx context.Context) error {
		require.NoError(t, lineage.Create(ctx, &entity.DataLineage{ID: "l1", DataEntryID: "e1", CreatedAt: base}))
		require.NoError(t, tags.Create(ctx, &entity.Tag{DataEntryID: "e1", TagType: "geographic", TagValue: "Europe"}))
		got, err := lineage.Get(ctx, "l1")
		require.NoError(t, err)
		require.NotNil(t, got, "writes must be visible inside the transaction")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := lineage.Get(context.Background(), "l1")
	require.NoError(t, err)
	assert.Nil(t, got)
	n, err := tags.Count(context.Background(), repository.TagFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)

	// IDs handed out inside the failed transaction are reused.
	tag := &entity.Tag{DataEntryID: "e1", TagType: "geographic", TagValue: "Europe"}
	require.NoError(t, tags.Create(context.Background(), tag))
	assert.Equal(t, int64(1), tag.ID)
}

func TestStore_WithinTx_RollsBackOnPanic(t *testing.T) {
	s := seed(t)
	lineage := memory.NewLineageRepo(s)

	assert.PanicsWithValue(t, "boom", func() {
		_ = s.WithinTx(context.Background(), func(ctx context.Context) error {
			require.NoError(t, lineage.Create(ctx, &entity.DataLineage{ID: "l1", DataEntryID: "e1", CreatedAt: base}))
			panic("boom")
		})
	})

	got, err := lineage.Get(context.Background(), "l1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// ロックも解放されている
	err = s.WithinTx(context.Background(), func(ctx context.Context) error {
		return lineage.Create(ctx, &entity.DataLineage{ID: "l2", DataEntryID: "e1", CreatedAt: base})
	})
	require.NoError(t, err)
}

func TestStore_WithinTx_Commits(t *testing.T) {
	s := seed(t)
	lineage := memory.NewLineageRepo(s)

	err := s.WithinTx(context.Background(), func(ctx context.Context) error {
		return s.WithinTx(ctx, func(ctx context.Context) error {
			return lineage.Create(ctx, &entity.DataLineage{ID: "l1", DataEntryID: "e1", CreatedAt: base})
		})
	})
	require.NoError(t, err)

	got, _ := lineage.Get(context.Background(), "l1")
	assert.NotNil(t, got)
}

func TestStore_WithinTx_CancelledContext(t *testing.T) {
	s := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.WithinTx(ctx, func(context.Context) error { called = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStore_WithinTx_Serializes(t *testing.T) {
	s := seed(t)
	lineage := memory.NewLineageRepo(s)
	require.NoError(t, lineage.Create(context.Background(), &entity.DataLineage{
		ID: "l1", DataEntryID: "e1", ValidationStatus: entity.LineagePending, CreatedAt: base,
	}))

	// Each transaction appends one step; lost updates would leave fewer.
	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.WithinTx(context.Background(), func(ctx context.Context) error {
				l, err := lineage.GetForUpdate(ctx, "l1")
				if err != nil {
					return err
				}
				l.SourceChain = append(l.SourceChain, entity.SourceChainStep{SourceID: "cia_factbook"})
				return lineage.Update(ctx, l)
			})
		}()
	}
	wg.Wait()

	got, err := lineage.Get(context.Background(), "l1")
	require.NoError(t, err)
	assert.Len(t, got.SourceChain, workers)
}

/* ──────────────────────────────── Sources ──────────────────────────────── */

func TestSourceRepo_CreateDuplicate(t *testing.T) {
	s := seed(t)
	err := memory.NewSourceRepo(s).Create(context.Background(), &entity.Source{ID: "cia_factbook", Name: "dup"})
	assert.ErrorIs(t, err, entity.ErrAlreadyExists)
}

func TestSourceRepo_ListFiltersAndOrders(t *testing.T) {
	s := seed(t)
	repo := memory.NewSourceRepo(s)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.Source{ID: "bbc", Name: "BBC", Type: entity.SourceTypeMedia, ReliabilityScore: 8, FeedURL: "https://feeds.bbci.co.uk/news/world/rss.xml"}))
	require.NoError(t, repo.Create(ctx, &entity.Source{ID: "blog", Name: "A blog", Type: entity.SourceTypeMedia, ReliabilityScore: 3}))

	all, err := repo.List(ctx, repository.SourceFilter{})
	require.NoError(t, err)
	names := make([]string, 0, len(all))
	for _, src := range all {
		names = append(names, src.Name)
	}
	if diff := cmp.Diff([]string{"A blog", "BBC", "CIA World Factbook"}, names); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	media, err := repo.List(ctx, repository.SourceFilter{Type: entity.SourceTypeMedia, MinReliability: f64(5)})
	require.NoError(t, err)
	require.Len(t, media, 1)
	assert.Equal(t, "bbc", media[0].ID)

	feeds, err := repo.ListWithFeed(ctx)
	require.NoError(t, err)
	require.Len(t, feeds, 1)
	assert.Equal(t, "bbc", feeds[0].ID)
}

func TestSourceRepo_DeleteReferenced(t *testing.T) {
	s := seed(t)
	repo := memory.NewSourceRepo(s)

	assert.ErrorIs(t, repo.Delete(context.Background(), "cia_factbook"), entity.ErrReferenced)
	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), entity.ErrNotFound)
}

func TestSourceRepo_ReturnsCopies(t *testing.T) {
	s := seed(t)
	repo := memory.NewSourceRepo(s)

	got, _ := repo.Get(context.Background(), "cia_factbook")
	got.Name = "mutated"
	again, _ := repo.Get(context.Background(), "cia_factbook")
	assert.Equal(t, "CIA World Factbook", again.Name)
}

/* ──────────────────────────────── Data entries ──────────────────────────────── */

func TestDataEntryRepo_CreateUnknownSource(t *testing.T) {
	s := memory.NewStore()
	err := memory.NewDataEntryRepo(s).Create(context.Background(), &entity.DataEntry{ID: "e1", SourceID: "nope"})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestDataEntryRepo_ListSearchAndHashes(t *testing.T) {
	s := seed(t)
	repo := memory.NewDataEntryRepo(s)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.DataEntry{
		ID: "e2", SourceID: "cia_factbook", Title: "Japan", Content: "Island nation",
		ContentType: entity.ContentTypeProfile, CollectedDate: base.Add(time.Hour), RawDataHash: "h2",
	}))

	list, err := repo.List(ctx, repository.DataEntryFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "e2", list[0].ID, "newest entry first")

	found, err := repo.Search(ctx, "FRANCE", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "e1", found[0].ID)

	exists, err := repo.ExistsByHashBatch(ctx, []string{"h1", "h3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"h1": true}, exists)

	require.NoError(t, repo.MarkProcessed(ctx, "e1"))
	processed := true
	n, err := repo.Count(ctx, repository.DataEntryFilter{Processed: &processed})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.ErrorIs(t, repo.MarkProcessed(ctx, "missing"), entity.ErrNotFound)
}

/* ──────────────────────────────── Lineage ──────────────────────────────── */

func TestLineageRepo_OrderingAndAggregates(t *testing.T) {
	s := seed(t)
	repo := memory.NewLineageRepo(s)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.DataLineage{ID: "b", DataEntryID: "e1", ValidationStatus: "pending", CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, &entity.DataLineage{ID: "a", DataEntryID: "e1", ValidationStatus: "validated", CreatedAt: base,
		QualityMetrics: &entity.QualityMetrics{Accuracy: f64(0.9)}}))
	require.NoError(t, repo.Create(ctx, &entity.DataLineage{ID: "c", DataEntryID: "e1", ValidationStatus: "pending", CreatedAt: base.Add(-time.Minute)}))

	byEntry, err := repo.ListByEntry(ctx, "e1")
	require.NoError(t, err)
	ids := []string{byEntry[0].ID, byEntry[1].ID, byEntry[2].ID}
	assert.Equal(t, []string{"c", "a", "b"}, ids)

	withMetrics, err := repo.ListWithMetrics(ctx)
	require.NoError(t, err)
	require.Len(t, withMetrics, 1)
	assert.Equal(t, "a", withMetrics[0].ID)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"pending": 2, "validated": 1}, counts)

	distinct, err := repo.CountDistinctEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), distinct)
}

func TestLineageRepo_CreateUnknownEntry(t *testing.T) {
	s := seed(t)
	err := memory.NewLineageRepo(s).Create(context.Background(), &entity.DataLineage{ID: "l1", DataEntryID: "missing"})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestLineageRepo_MetricsAreCopied(t *testing.T) {
	s := seed(t)
	repo := memory.NewLineageRepo(s)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.DataLineage{ID: "l1", DataEntryID: "e1", CreatedAt: base,
		QualityMetrics: &entity.QualityMetrics{Accuracy: f64(0.5)}}))

	got, _ := repo.Get(ctx, "l1")
	*got.QualityMetrics.Accuracy = 0.1
	again, _ := repo.Get(ctx, "l1")
	assert.InDelta(t, 0.5, *again.QualityMetrics.Accuracy, 1e-9)
}

/* ──────────────────────────────── Tags / countries ──────────────────────────────── */

func TestTagRepo_PopularAndSearch(t *testing.T) {
	s := seed(t)
	repo := memory.NewTagRepo(s)
	ctx := context.Background()
	for _, tg := range []*entity.Tag{
		{DataEntryID: "e1", TagType: "geographic", TagValue: "Europe", ConfidenceScore: 0.4},
		{DataEntryID: "e1", TagType: "geographic", TagValue: "Europe", ConfidenceScore: 0.9},
		{DataEntryID: "e1", TagType: "political", TagValue: "Republic", ConfidenceScore: 1},
	} {
		require.NoError(t, repo.Create(ctx, tg))
	}

	popular, err := repo.Popular(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []repository.TagValueCount{{TagValue: "Europe", TagType: "geographic", Count: 2}}, popular)

	found, err := repo.Search(ctx, "euro", "geographic", 10)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.InDelta(t, 0.9, found[0].ConfidenceScore, 1e-9)

	assert.ErrorIs(t, repo.Delete(ctx, 99), entity.ErrNotFound)
	assert.ErrorIs(t, repo.Create(ctx, &entity.Tag{DataEntryID: "missing"}), entity.ErrNotFound)
}

func TestCountryRepo_UpsertReportsInsert(t *testing.T) {
	s := seed(t)
	repo := memory.NewCountryRepo(s)
	ctx := context.Background()
	c := &entity.CountryProfile{ID: "fr", Name: "France", Region: "Europe", DataSourceID: "cia_factbook"}

	created, err := repo.Upsert(ctx, c)
	require.NoError(t, err)
	assert.True(t, created)

	c.Capital = "Paris"
	created, err = repo.Upsert(ctx, c)
	require.NoError(t, err)
	assert.False(t, created)

	got, _ := repo.Get(ctx, "fr")
	assert.Equal(t, "Paris", got.Capital)

	_, err = repo.Upsert(ctx, &entity.CountryProfile{ID: "xx", Name: "X", DataSourceID: "missing"})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
