package lineage

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"

	"geodata/internal/domain/entity"
	"geodata/internal/observability/metrics"
	"geodata/internal/observability/tracing"
	"geodata/internal/repository"
)

// StatusOther collects validation statuses outside the known set.
const StatusOther = "other"

// QualityReport aggregates quality metrics over every record that carries
// them. HasData is false when no such record exists; the other fields are
// then empty and must not be read as zero scores.
type QualityReport struct {
	HasData            bool
	TotalRecords       int
	StatusDistribution map[string]int
	// AverageMetrics holds the mean of each metric over the records that set
	// it, or nil when no record does.
	AverageMetrics map[string]*float64
	// MetricCoverage is "count/total" per metric, total being TotalRecords.
	MetricCoverage map[string]string
}

// CoverageStats summarizes how much of the store has lineage.
type CoverageStats struct {
	TotalLineageRecords   int64
	ValidatedRecords      int64
	PendingRecords        int64
	FailedRecords         int64
	TotalDataEntries      int64
	EntriesWithLineage    int64
	EntriesWithoutLineage int64
	// CoveragePercentage is rounded to two decimals and 0 without entries.
	CoveragePercentage float64
}

// QualityReport scans all records with quality metrics and aggregates them.
func (s *Service) QualityReport(ctx context.Context) (report *QualityReport, err error) {
	ctx, span := tracing.StartSpan(ctx, "lineage.QualityReport")
	defer func() { tracing.EndSpan(span, err) }()
	start := time.Now()

	var records []*entity.DataLineage
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		records, err = s.Lineage.ListWithMetrics(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list lineage with metrics: %w", err)
	}

	report = aggregate(records)
	metrics.RecordQualityReport(time.Since(start))
	return report, nil
}

func aggregate(records []*entity.DataLineage) *QualityReport {
	if len(records) == 0 {
		return &QualityReport{HasData: false}
	}

	total := len(records)
	sums := make(map[string]float64, len(entity.MetricNames))
	counts := make(map[string]int, len(entity.MetricNames))
	dist := map[string]int{
		entity.LineageValidated: 0,
		entity.LineagePending:   0,
		entity.LineageFailed:    0,
	}

	for _, r := range records {
		if slices.Contains(entity.LineageStatuses, r.ValidationStatus) {
			dist[r.ValidationStatus]++
		} else {
			dist[StatusOther]++
		}

		m := r.Metrics()
		for _, name := range entity.MetricNames {
			if v := m.Value(name); v != nil {
				sums[name] += *v
				counts[name]++
			}
		}
	}

	avg := make(map[string]*float64, len(entity.MetricNames))
	coverage := make(map[string]string, len(entity.MetricNames))
	for _, name := range entity.MetricNames {
		avg[name] = nil
		if n := counts[name]; n > 0 {
			mean := sums[name] / float64(n)
			avg[name] = &mean
		}
		coverage[name] = strconv.Itoa(counts[name]) + "/" + strconv.Itoa(total)
	}

	return &QualityReport{
		HasData:            true,
		TotalRecords:       total,
		StatusDistribution: dist,
		AverageMetrics:     avg,
		MetricCoverage:     coverage,
	}
}

// Stats computes lineage coverage over the whole store.
func (s *Service) Stats(ctx context.Context) (st *CoverageStats, err error) {
	ctx, span := tracing.StartSpan(ctx, "lineage.Stats")
	defer func() { tracing.EndSpan(span, err) }()

	st = &CoverageStats{}
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		byStatus, err := s.Lineage.CountByStatus(ctx)
		if err != nil {
			return fmt.Errorf("count lineage by status: %w", err)
		}
		for _, n := range byStatus {
			st.TotalLineageRecords += n
		}
		st.ValidatedRecords = byStatus[entity.LineageValidated]
		st.PendingRecords = byStatus[entity.LineagePending]
		st.FailedRecords = byStatus[entity.LineageFailed]

		if st.TotalDataEntries, err = s.Entries.Count(ctx, repository.DataEntryFilter{}); err != nil {
			return fmt.Errorf("count data entries: %w", err)
		}
		if st.EntriesWithLineage, err = s.Lineage.CountDistinctEntries(ctx); err != nil {
			return fmt.Errorf("count entries with lineage: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	st.EntriesWithoutLineage = st.TotalDataEntries - st.EntriesWithLineage
	st.CoveragePercentage = coveragePercentage(st.EntriesWithLineage, st.TotalDataEntries)
	metrics.UpdateCoverage(st.TotalDataEntries, st.EntriesWithLineage)
	return st, nil
}

func coveragePercentage(with, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(with)/float64(total)*100*100) / 100
}
