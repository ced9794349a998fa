package collect

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"geodata/internal/domain/entity"
	"geodata/internal/repository"
)

// Item is one collected unit ready to be stored.
type Item struct {
	SourceID      string
	Title         string
	Content       string
	ContentType   string
	URL           string
	PublishedDate *time.Time
	// Hash is the raw data hash recorded on the entry and the chain step.
	// Empty means the hash of Content.
	Hash string

	Method          string
	Transformations []string
	Metrics         entity.QualityMetrics
	Status          string

	// Country, when set, is upserted in the same transaction.
	Country *entity.CountryProfile
}

// Ingester stores collected items: the country profile if any, the data
// entry and its lineage record, all in one transaction.
type Ingester struct {
	Sources   repository.SourceRepository
	Entries   repository.DataEntryRepository
	Lineage   repository.LineageRepository
	Countries repository.CountryRepository
	Tx        repository.Transactor

	// Now overrides the clock in tests.
	Now func() time.Time
}

func (in *Ingester) now() time.Time {
	if in.Now != nil {
		return in.Now().UTC()
	}
	return time.Now().UTC()
}

// EnsureSource creates src unless a source with its ID already exists.
func (in *Ingester) EnsureSource(ctx context.Context, src *entity.Source) error {
	return in.Tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := in.Sources.Get(ctx, src.ID)
		if err != nil {
			return fmt.Errorf("get source: %w", err)
		}
		if existing != nil {
			return nil
		}
		c := *src
		now := in.now()
		c.CreatedAt, c.LastUpdated = now, now
		c.ApplyDefaults()
		if err := in.Sources.Create(ctx, &c); err != nil {
			return fmt.Errorf("create source: %w", err)
		}
		return nil
	})
}

// Known reports which hashes are already stored.
func (in *Ingester) Known(ctx context.Context, hashes []string) (map[string]bool, error) {
	known, err := in.Entries.ExistsByHashBatch(ctx, hashes)
	if err != nil {
		return nil, fmt.Errorf("check hashes: %w", err)
	}
	return known, nil
}

// Ingest stores item and returns the created entry and lineage record.
func (in *Ingester) Ingest(ctx context.Context, item Item) (*entity.DataEntry, *entity.DataLineage, error) {
	now := in.now()
	hash := item.Hash
	if hash == "" {
		hash = entity.HashContent(item.Content)
	}
	contentType := item.ContentType
	if contentType == "" {
		contentType = entity.ContentTypeArticle
	}
	status := item.Status
	if status == "" {
		status = entity.LineagePending
	}

	entry := &entity.DataEntry{
		ID:            uuid.NewString(),
		SourceID:      item.SourceID,
		Title:         item.Title,
		Content:       item.Content,
		ContentType:   contentType,
		URL:           item.URL,
		PublishedDate: item.PublishedDate,
		CollectedDate: now,
		RawDataHash:   hash,
	}
	if err := entry.Validate(); err != nil {
		return nil, nil, err
	}

	lineage := newLineage(item, entry.ID, hash, status, now)

	err := in.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if item.Country != nil {
			item.Country.LastUpdated = now
			if _, err := in.Countries.Upsert(ctx, item.Country); err != nil {
				return fmt.Errorf("upsert country %s: %w", item.Country.ID, err)
			}
		}
		if err := in.Entries.Create(ctx, entry); err != nil {
			return fmt.Errorf("create data entry: %w", err)
		}
		if err := in.Lineage.Create(ctx, lineage); err != nil {
			return fmt.Errorf("create lineage: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return entry, lineage, nil
}

// Relineage appends a lineage record for item to the stored entry of the
// same source and hash. It returns nil when no such entry exists, so the
// caller can ingest item as new.
func (in *Ingester) Relineage(ctx context.Context, item Item) (*entity.DataLineage, error) {
	now := in.now()
	hash := item.Hash
	if hash == "" {
		hash = entity.HashContent(item.Content)
	}
	status := item.Status
	if status == "" {
		status = entity.LineagePending
	}

	var lineage *entity.DataLineage
	err := in.Tx.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := in.Entries.FindByHash(ctx, item.SourceID, hash)
		if err != nil {
			return fmt.Errorf("find data entry: %w", err)
		}
		if entry == nil {
			return nil
		}
		l := newLineage(item, entry.ID, hash, status, now)
		if err := in.Lineage.Create(ctx, l); err != nil {
			return fmt.Errorf("create lineage: %w", err)
		}
		lineage = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lineage, nil
}

func newLineage(item Item, entryID, hash, status string, now time.Time) *entity.DataLineage {
	qm := item.Metrics
	l := &entity.DataLineage{
		ID:          uuid.NewString(),
		DataEntryID: entryID,
		SourceChain: []entity.SourceChainStep{{
			SourceID:              item.SourceID,
			CollectionTimestamp:   now,
			CollectionMethod:      item.Method,
			RawDataHash:           hash,
			TransformationApplied: append([]string{}, item.Transformations...),
		}},
		QualityMetrics:   &qm,
		ValidationStatus: status,
		CreatedAt:        now,
	}
	if status == entity.LineageValidated {
		l.LastVerified = &now
	}
	return l
}
