package lineage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geodata/internal/domain/entity"
	"geodata/internal/repository"
	lineageUC "geodata/internal/usecase/lineage"
)

func TestService_QualityReport_NoData(t *testing.T) {
	f := newFixture(t, 1)

	report, err := f.svc.QualityReport(context.Background())
	require.NoError(t, err)
	assert.False(t, report.HasData)
	assert.Zero(t, report.TotalRecords)
	assert.Nil(t, report.AverageMetrics)
}

func TestService_QualityReport_PartialCoverage(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	// Five records, only two of which assess timeliness.
	inputs := []map[string]*float64{
		{"timeliness": ptr(0.6), "accuracy": ptr(1)},
		{"timeliness": ptr(0.8)},
		{"accuracy": ptr(0.5)},
		{},
		{"completeness": ptr(0.9)},
	}
	for i, qm := range inputs {
		_, err := f.svc.Create(ctx, lineageUC.CreateInput{
			DataEntryID: []string{"e1", "e2", "e3", "e4", "e5"}[i], SourceChain: chain(), QualityMetrics: qm,
		})
		require.NoError(t, err)
	}

	report, err := f.svc.QualityReport(ctx)
	require.NoError(t, err)
	require.True(t, report.HasData)
	assert.Equal(t, 5, report.TotalRecords)

	assert.Equal(t, "2/5", report.MetricCoverage["timeliness"])
	assert.Equal(t, "2/5", report.MetricCoverage["accuracy"])
	assert.Equal(t, "1/5", report.MetricCoverage["completeness"])
	assert.Equal(t, "0/5", report.MetricCoverage["consistency"])

	require.NotNil(t, report.AverageMetrics["timeliness"])
	assert.InDelta(t, 0.7, *report.AverageMetrics["timeliness"], 1e-9)
	assert.InDelta(t, 0.75, *report.AverageMetrics["accuracy"], 1e-9)
	assert.Nil(t, report.AverageMetrics["consistency"])
	assert.Contains(t, report.AverageMetrics, "consistency")

	assert.Equal(t, map[string]int{"validated": 0, "pending": 5, "failed": 0}, report.StatusDistribution)
}

func TestService_QualityReport_UnknownStatusCountedAsOther(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	// Rows written outside the service may carry legacy statuses.
	for _, status := range []string{entity.LineageFailed, "archived"} {
		require.NoError(t, f.lineage.Create(ctx, &entity.DataLineage{
			ID: status, DataEntryID: "e1", SourceChain: chain(),
			QualityMetrics: &entity.QualityMetrics{}, ValidationStatus: status, CreatedAt: created,
		}))
	}

	report, err := f.svc.QualityReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.StatusDistribution[lineageUC.StatusOther])
	assert.Equal(t, 1, report.StatusDistribution[entity.LineageFailed])
	assert.Equal(t, 2, report.TotalRecords)
}

func TestService_Stats_Coverage(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	for _, id := range []string{"e1", "e2", "e3", "e4", "e4"} {
		_, err := f.svc.Create(ctx, lineageUC.CreateInput{DataEntryID: id, SourceChain: chain()})
		require.NoError(t, err)
	}
	l, err := f.svc.Create(ctx, lineageUC.CreateInput{DataEntryID: "e1", SourceChain: chain()})
	require.NoError(t, err)
	_, err = f.svc.Validate(ctx, lineageUC.ValidateInput{ID: l.ID})
	require.NoError(t, err)

	st, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &lineageUC.CoverageStats{
		TotalLineageRecords:   6,
		ValidatedRecords:      1,
		PendingRecords:        5,
		FailedRecords:         0,
		TotalDataEntries:      10,
		EntriesWithLineage:    4,
		EntriesWithoutLineage: 6,
		CoveragePercentage:    40.0,
	}, st)
}

func TestService_Stats_RoundsToTwoDecimals(t *testing.T) {
	f := newFixture(t, 3)
	_, err := f.svc.Create(context.Background(), lineageUC.CreateInput{DataEntryID: "e1", SourceChain: chain()})
	require.NoError(t, err)

	st, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 33.33, st.CoveragePercentage)
}

func TestService_Stats_NoEntries(t *testing.T) {
	f := newFixture(t, 0)

	st, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, st.TotalDataEntries)
	assert.Zero(t, st.CoveragePercentage)
}

type brokenCounts struct{ repository.LineageRepository }

func (brokenCounts) CountByStatus(context.Context) (map[string]int64, error) {
	return nil, errors.New("db down")
}

func TestService_Stats_StoreFailure(t *testing.T) {
	f := newFixture(t, 1)
	f.svc.Lineage = brokenCounts{f.lineage}

	st, err := f.svc.Stats(context.Background())
	assert.Nil(t, st)
	assert.ErrorContains(t, err, "count lineage by status")
}
