// Package tag serves tags under /api/tags.
package tag

import (
	"errors"
	"net/http"
	"time"

	"geodata/internal/common/pagination"
	"geodata/internal/domain/entity"
	tagUC "geodata/internal/usecase/tag"
)

type DTO struct {
	ID              int64     `json:"id"`
	DataEntryID     string    `json:"data_entry_id"`
	TagType         string    `json:"tag_type"`
	TagCategory     string    `json:"tag_category"`
	TagValue        string    `json:"tag_value"`
	ConfidenceScore float64   `json:"confidence_score"`
	IsManual        bool      `json:"is_manual"`
	CreatedAt       time.Time `json:"created_at"`
	CreatedBy       string    `json:"created_by"`
}

func newDTO(t *entity.Tag) DTO {
	return DTO{
		ID:              t.ID,
		DataEntryID:     t.DataEntryID,
		TagType:         t.TagType,
		TagCategory:     t.TagCategory,
		TagValue:        t.TagValue,
		ConfidenceScore: t.ConfidenceScore,
		IsManual:        t.IsManual,
		CreatedAt:       t.CreatedAt,
		CreatedBy:       t.CreatedBy,
	}
}

func newDTOs(list []*entity.Tag) []DTO {
	out := make([]DTO, 0, len(list))
	for _, t := range list {
		out = append(out, newDTO(t))
	}
	return out
}

// ListResponse is one page of tags.
type ListResponse struct {
	Tags []DTO `json:"tags"`
	pagination.Metadata
}

// BulkResponse is the body of a successful bulk create.
type BulkResponse struct {
	CreatedTags []DTO `json:"created_tags"`
	Count       int   `json:"count"`
}

// SearchResponse is the body of GET /api/tags/search.
type SearchResponse struct {
	Tags         []DTO  `json:"tags"`
	Query        string `json:"query"`
	TotalResults int    `json:"total_results"`
}

// PopularTag is one row of the popular tags ranking.
type PopularTag struct {
	Value string `json:"value"`
	Type  string `json:"tag_type"`
	Count int64  `json:"count"`
}

// StatsDTO is the body of GET /api/tags/stats.
type StatsDTO struct {
	TotalTags     int64            `json:"total_tags"`
	ManualTags    int64            `json:"manual_tags"`
	AutomaticTags int64            `json:"automatic_tags"`
	TagsByType    map[string]int64 `json:"tags_by_type"`
	PopularTags   []PopularTag     `json:"popular_tags"`
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, tagUC.ErrTagNotFound), errors.Is(err, tagUC.ErrDataEntryNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
