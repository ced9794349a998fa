package collect_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"geodata/internal/domain/entity"
	"geodata/internal/infra/adapter/persistence/memory"
	"geodata/internal/repository"
	"geodata/internal/usecase/collect"
)

/* ──────────────────────────────── ヘルパ ──────────────────────────────── */

var now = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

type env struct {
	store     *memory.Store
	sources   repository.SourceRepository
	entries   repository.DataEntryRepository
	lineage   repository.LineageRepository
	countries repository.CountryRepository
	ingester  *collect.Ingester
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	e := &env{
		store:     store,
		sources:   memory.NewSourceRepo(store),
		entries:   memory.NewDataEntryRepo(store),
		lineage:   memory.NewLineageRepo(store),
		countries: memory.NewCountryRepo(store),
	}
	e.ingester = &collect.Ingester{
		Sources:   e.sources,
		Entries:   e.entries,
		Lineage:   e.lineage,
		Countries: e.countries,
		Tx:        store,
		Now:       func() time.Time { return now },
	}
	return e
}

func (e *env) addSource(t *testing.T, id, feedURL string) {
	t.Helper()
	require.NoError(t, e.sources.Create(context.Background(), &entity.Source{
		ID: id, Name: id, Type: entity.SourceTypeMedia, FeedURL: feedURL,
		CountryFocus: []string{}, TopicCoverage: []string{},
	}))
}

func (e *env) allEntries(t *testing.T) []*entity.DataEntry {
	t.Helper()
	list, err := e.entries.List(context.Background(), repository.DataEntryFilter{})
	require.NoError(t, err)
	return list
}

func (e *env) allLineage(t *testing.T) []*entity.DataLineage {
	t.Helper()
	list, err := e.lineage.List(context.Background(), repository.LineageFilter{})
	require.NoError(t, err)
	return list
}

// stubCollector returns whatever its fn returns and can block on a channel.
type stubCollector struct {
	name    string
	fn      func(ctx context.Context, req collect.Request) (*collect.RunResult, error)
	calls   int
	callsMu sync.Mutex
}

func (s *stubCollector) Name() string        { return s.name }
func (s *stubCollector) Description() string { return "stub " + s.name }

func (s *stubCollector) Collect(ctx context.Context, req collect.Request) (*collect.RunResult, error) {
	s.callsMu.Lock()
	s.calls++
	s.callsMu.Unlock()
	if s.fn == nil {
		return &collect.RunResult{Collector: s.name}, nil
	}
	return s.fn(ctx, req)
}
