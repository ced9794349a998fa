// Package memory provides in-process implementations of the repository
// interfaces. They back unit tests and the STORE_DRIVER=memory mode and
// follow the same not-found, ordering and referential rules as the
// PostgreSQL adapter.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"geodata/internal/domain/entity"
)

type txKey struct{}

// Store holds every table. All repositories built on one Store share data
// and transactions.
type Store struct {
	// txMu serializes transactions against each other and against
	// writes made outside a transaction.
	txMu sync.RWMutex
	mu   sync.RWMutex

	sources   map[string]*entity.Source
	entries   map[string]*entity.DataEntry
	lineage   map[string]*entity.DataLineage
	tags      map[int64]*entity.Tag
	countries map[string]*entity.CountryProfile
	nextTagID int64
}

func NewStore() *Store {
	return &Store{
		sources:   make(map[string]*entity.Source),
		entries:   make(map[string]*entity.DataEntry),
		lineage:   make(map[string]*entity.DataLineage),
		tags:      make(map[int64]*entity.Tag),
		countries: make(map[string]*entity.CountryProfile),
		nextTagID: 1,
	}
}

type snapshot struct {
	sources   map[string]*entity.Source
	entries   map[string]*entity.DataEntry
	lineage   map[string]*entity.DataLineage
	tags      map[int64]*entity.Tag
	countries map[string]*entity.CountryProfile
	nextTagID int64
}

// Values are replaced, never mutated in place, so copying the maps is enough.
func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		sources:   maps.Clone(s.sources),
		entries:   maps.Clone(s.entries),
		lineage:   maps.Clone(s.lineage),
		tags:      maps.Clone(s.tags),
		countries: maps.Clone(s.countries),
		nextTagID: s.nextTagID,
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources = snap.sources
	s.entries = snap.entries
	s.lineage = snap.lineage
	s.tags = snap.tags
	s.countries = snap.countries
	s.nextTagID = snap.nextTagID
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// WithinTx implements repository.Transactor. fn sees its own writes; on
// error or panic every write made through ctx is discarded.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	committed := false
	defer func() {
		if !committed {
			s.restore(snap)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) read(ctx context.Context, fn func()) {
	if !s.inTx(ctx) {
		s.txMu.RLock()
		defer s.txMu.RUnlock()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

func (s *Store) write(ctx context.Context, fn func() error) error {
	if !s.inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// page applies offset/limit to an already ordered slice. limit <= 0 means no limit.
func page[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func cloneStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return slices.Clone(v)
}
