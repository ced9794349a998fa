package entry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"geodata/internal/common/pagination"
	"geodata/internal/domain/entity"
	"geodata/internal/repository"
)

// CreateInput describes a new data entry. ContentType defaults to article.
type CreateInput struct {
	SourceID      string
	Title         string
	Content       string
	ContentType   string
	URL           string
	PublishedDate *time.Time
}

// Service provides data entry use cases.
type Service struct {
	Entries repository.DataEntryRepository
	Sources repository.SourceRepository
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

// Create stores a new entry for an existing source. The content hash is
// computed here and never taken from the caller.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.DataEntry, error) {
	e := &entity.DataEntry{
		ID:            uuid.NewString(),
		SourceID:      strings.TrimSpace(in.SourceID),
		Title:         in.Title,
		Content:       in.Content,
		ContentType:   in.ContentType,
		URL:           in.URL,
		PublishedDate: in.PublishedDate,
		CollectedDate: s.now(),
	}
	if e.ContentType == "" {
		e.ContentType = entity.ContentTypeArticle
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if e.URL != "" {
		if err := entity.ValidateURL("url", e.URL); err != nil {
			return nil, err
		}
	}
	e.RawDataHash = entity.HashContent(e.Content)

	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		src, err := s.Sources.Get(ctx, e.SourceID)
		if err != nil {
			return fmt.Errorf("get source: %w", err)
		}
		if src == nil {
			return ErrSourceNotFound
		}
		if err := s.Entries.Create(ctx, e); err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				return ErrSourceNotFound
			}
			return fmt.Errorf("create data entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Get returns one entry or ErrDataEntryNotFound.
func (s *Service) Get(ctx context.Context, id string) (*entity.DataEntry, error) {
	e, err := s.Entries.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get data entry: %w", err)
	}
	if e == nil {
		return nil, ErrDataEntryNotFound
	}
	return e, nil
}

// List returns one page of entries, newest first, and the filtered total.
// Offset and Limit in filter are normalized with the pagination defaults.
func (s *Service) List(ctx context.Context, filter repository.DataEntryFilter) ([]*entity.DataEntry, int64, error) {
	p := pagination.Params{Offset: filter.Offset, Limit: filter.Limit}.WithDefaults(pagination.DefaultConfig())
	filter.Offset, filter.Limit = p.Offset, p.Limit

	var (
		entries []*entity.DataEntry
		total   int64
	)
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if entries, err = s.Entries.List(ctx, filter); err != nil {
			return fmt.Errorf("list data entries: %w", err)
		}
		if total, err = s.Entries.Count(ctx, filter); err != nil {
			return fmt.Errorf("count data entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// MarkProcessed flags the entry as processed and returns it. Repeated calls
// are harmless.
func (s *Service) MarkProcessed(ctx context.Context, id string) (*entity.DataEntry, error) {
	var e *entity.DataEntry
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Entries.MarkProcessed(ctx, id); err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				return ErrDataEntryNotFound
			}
			return fmt.Errorf("mark processed: %w", err)
		}
		var err error
		e, err = s.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Search matches title and content as a case-insensitive substring.
func (s *Service) Search(ctx context.Context, q string, limit int) ([]*entity.DataEntry, error) {
	entries, err := s.Entries.Search(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("search data entries: %w", err)
	}
	return entries, nil
}
