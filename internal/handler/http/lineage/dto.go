// Package lineage serves provenance records, traces and quality reporting
// under /api/lineage.
package lineage

import (
	"errors"
	"net/http"
	"time"

	"geodata/internal/common/pagination"
	"geodata/internal/domain/entity"
	"geodata/internal/handler/http/data"
	"geodata/internal/handler/http/source"
	lineageUC "geodata/internal/usecase/lineage"
)

// RecordDTO is the JSON form of a lineage record. SourceChain and
// QualityMetrics are never null.
type RecordDTO struct {
	ID               string                   `json:"id"`
	DataEntryID      string                   `json:"data_entry_id"`
	SourceChain      []entity.SourceChainStep `json:"source_chain"`
	QualityMetrics   entity.QualityMetrics    `json:"quality_metrics"`
	ValidationStatus string                   `json:"validation_status"`
	LastVerified     *time.Time               `json:"last_verified"`
	CreatedAt        time.Time                `json:"created_at"`
}

func newRecordDTO(l *entity.DataLineage) RecordDTO {
	out := RecordDTO{
		ID:               l.ID,
		DataEntryID:      l.DataEntryID,
		SourceChain:      l.SourceChain,
		QualityMetrics:   l.Metrics(),
		ValidationStatus: l.ValidationStatus,
		LastVerified:     l.LastVerified,
		CreatedAt:        l.CreatedAt,
	}
	if out.SourceChain == nil {
		out.SourceChain = []entity.SourceChainStep{}
	}
	return out
}

func newRecordDTOs(list []*entity.DataLineage) []RecordDTO {
	out := make([]RecordDTO, 0, len(list))
	for _, l := range list {
		out = append(out, newRecordDTO(l))
	}
	return out
}

// ListResponse is one page of lineage records.
type ListResponse struct {
	Records []RecordDTO `json:"lineage_records"`
	pagination.Metadata
}

// TraceResponse is the full provenance of one data entry. SourceInfo is null
// when the entry's source no longer resolves.
type TraceResponse struct {
	DataEntry           *data.EntryDTO `json:"data_entry"`
	Records             []RecordDTO    `json:"lineage_records"`
	SourceInfo          *source.DTO    `json:"source_info"`
	TotalLineageRecords int            `json:"total_lineage_records"`
}

// QualityReportDTO aggregates quality metrics. Averages are null for
// metrics no record sets.
type QualityReportDTO struct {
	TotalRecords                 int                 `json:"total_records"`
	ValidationStatusDistribution map[string]int      `json:"validation_status_distribution"`
	AverageQualityMetrics        map[string]*float64 `json:"average_quality_metrics"`
	QualityMetricCoverage        map[string]string   `json:"quality_metric_coverage"`
}

// EmptyReportDTO is returned when no record carries quality metrics.
type EmptyReportDTO struct {
	Message      string `json:"message"`
	TotalRecords int    `json:"total_records"`
}

// StatsDTO is the body of GET /api/lineage/stats.
type StatsDTO struct {
	TotalLineageRecords       int64   `json:"total_lineage_records"`
	ValidatedRecords          int64   `json:"validated_records"`
	PendingRecords            int64   `json:"pending_records"`
	FailedRecords             int64   `json:"failed_records"`
	TotalDataEntries          int64   `json:"total_data_entries"`
	EntriesWithLineage        int64   `json:"entries_with_lineage"`
	EntriesWithoutLineage     int64   `json:"entries_without_lineage"`
	LineageCoveragePercentage float64 `json:"lineage_coverage_percentage"`
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, lineageUC.ErrLineageNotFound), errors.Is(err, lineageUC.ErrDataEntryNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
