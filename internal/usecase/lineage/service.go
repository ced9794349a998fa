package lineage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"geodata/internal/common/pagination"
	"geodata/internal/domain/entity"
	"geodata/internal/observability/metrics"
	"geodata/internal/observability/tracing"
	"geodata/internal/repository"
)

// Service provides the lineage use cases. Every operation runs in one
// transaction obtained from Tx.
type Service struct {
	Lineage repository.LineageRepository
	Entries repository.DataEntryRepository
	Sources repository.SourceRepository
	Tx      repository.Transactor

	// Now overrides the clock in tests.
	Now func() time.Time
}

// CreateInput describes a new lineage record.
// A nil SourceChain is rejected; an empty one is accepted.
type CreateInput struct {
	DataEntryID      string
	SourceChain      []entity.SourceChainStep
	QualityMetrics   map[string]*float64
	ValidationStatus string
}

// ValidateInput describes a validate call. An empty ValidationStatus means
// validated. Present metric keys overwrite the stored ones and a present key
// with a nil value clears that metric. A nil or empty QualityMetrics leaves
// the stored metrics untouched.
type ValidateInput struct {
	ID               string
	ValidationStatus string
	QualityMetrics   map[string]*float64
}

// ListFilter narrows List. Limit and Offset are normalized with the
// pagination defaults.
type ListFilter struct {
	DataEntryID      string
	ValidationStatus string
	Offset           int
	Limit            int
}

// TraceResult is the full provenance of one data entry.
type TraceResult struct {
	Entry   *entity.DataEntry
	Records []*entity.DataLineage
	// Source is nil when the entry's source no longer resolves.
	Source *entity.Source
	Total  int
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Create records a new lineage record for an existing data entry.
func (s *Service) Create(ctx context.Context, in CreateInput) (l *entity.DataLineage, err error) {
	ctx, span := tracing.StartSpan(ctx, "lineage.Create", attribute.String("data_entry_id", in.DataEntryID))
	defer func() { tracing.EndSpan(span, err) }()

	if strings.TrimSpace(in.DataEntryID) == "" {
		return nil, &entity.ValidationError{Field: "data_entry_id", Message: "is required"}
	}
	if in.SourceChain == nil {
		return nil, &entity.ValidationError{Field: "source_chain", Message: "is required"}
	}
	status := in.ValidationStatus
	if status == "" {
		status = entity.LineagePending
	}
	if err := entity.ValidateLineageStatus(status); err != nil {
		return nil, err
	}
	qm, err := entity.NewQualityMetrics(in.QualityMetrics)
	if err != nil {
		return nil, err
	}

	l = &entity.DataLineage{
		ID:               uuid.NewString(),
		DataEntryID:      in.DataEntryID,
		SourceChain:      in.SourceChain,
		QualityMetrics:   &qm,
		ValidationStatus: status,
		CreatedAt:        s.now(),
	}

	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := s.Entries.Get(ctx, in.DataEntryID)
		if err != nil {
			return fmt.Errorf("get data entry: %w", err)
		}
		if entry == nil {
			return ErrDataEntryNotFound
		}
		if err := s.Lineage.Create(ctx, l); err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				return ErrDataEntryNotFound
			}
			return fmt.Errorf("create lineage: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordLineageCreated(status)
	return l, nil
}

// Validate sets the validation status and last-verified time of a record and
// merges any supplied quality metrics into the stored ones. Metrics absent
// from the input keep their stored values; a metric given as null is cleared.
func (s *Service) Validate(ctx context.Context, in ValidateInput) (l *entity.DataLineage, err error) {
	ctx, span := tracing.StartSpan(ctx, "lineage.Validate", attribute.String("lineage_id", in.ID))
	defer func() { tracing.EndSpan(span, err) }()

	status := in.ValidationStatus
	if status == "" {
		status = entity.LineageValidated
	}
	if err := entity.ValidateLineageStatus(status); err != nil {
		return nil, err
	}
	if _, err := entity.NewQualityMetrics(in.QualityMetrics); err != nil {
		return nil, err
	}

	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		l, err = s.Lineage.GetForUpdate(ctx, in.ID)
		if err != nil {
			return fmt.Errorf("get lineage: %w", err)
		}
		if l == nil {
			return ErrLineageNotFound
		}

		l.ValidationStatus = status
		verified := s.now()
		if verified.Before(l.CreatedAt) {
			verified = l.CreatedAt
		}
		l.LastVerified = &verified
		if len(in.QualityMetrics) > 0 {
			merged := l.Metrics().Apply(in.QualityMetrics)
			l.QualityMetrics = &merged
		}

		if err := s.Lineage.Update(ctx, l); err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				return ErrLineageNotFound
			}
			return fmt.Errorf("update lineage: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordLineageValidated(status)
	return l, nil
}

// Get returns one lineage record.
func (s *Service) Get(ctx context.Context, id string) (*entity.DataLineage, error) {
	l, err := s.Lineage.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get lineage: %w", err)
	}
	if l == nil {
		return nil, ErrLineageNotFound
	}
	return l, nil
}

// List returns one page of records, newest first, and the filtered total.
func (s *Service) List(ctx context.Context, f ListFilter) ([]*entity.DataLineage, int64, error) {
	if f.ValidationStatus != "" {
		if err := entity.ValidateLineageStatus(f.ValidationStatus); err != nil {
			return nil, 0, err
		}
	}
	p := pagination.Params{Offset: f.Offset, Limit: f.Limit}.WithDefaults(pagination.DefaultConfig())
	filter := repository.LineageFilter{
		DataEntryID:      f.DataEntryID,
		ValidationStatus: f.ValidationStatus,
		Offset:           p.Offset,
		Limit:            p.Limit,
	}

	var (
		records []*entity.DataLineage
		total   int64
	)
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if records, err = s.Lineage.List(ctx, filter); err != nil {
			return fmt.Errorf("list lineage: %w", err)
		}
		if total, err = s.Lineage.Count(ctx, filter); err != nil {
			return fmt.Errorf("count lineage: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Trace returns a data entry with all of its lineage records, oldest first,
// and its source.
func (s *Service) Trace(ctx context.Context, entryID string) (res *TraceResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "lineage.Trace", attribute.String("data_entry_id", entryID))
	defer func() { tracing.EndSpan(span, err) }()

	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := s.Entries.Get(ctx, entryID)
		if err != nil {
			return fmt.Errorf("get data entry: %w", err)
		}
		if entry == nil {
			return ErrDataEntryNotFound
		}
		records, err := s.Lineage.ListByEntry(ctx, entryID)
		if err != nil {
			return fmt.Errorf("list lineage by entry: %w", err)
		}
		if records == nil {
			records = []*entity.DataLineage{}
		}
		source, err := s.Sources.Get(ctx, entry.SourceID)
		if err != nil {
			return fmt.Errorf("get source: %w", err)
		}
		res = &TraceResult{Entry: entry, Records: records, Source: source, Total: len(records)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
