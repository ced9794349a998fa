// Package data serves data entries, country profiles and the combined
// search under /api/data.
package data

import (
	"errors"
	"net/http"
	"time"

	"geodata/internal/common/pagination"
	"geodata/internal/domain/entity"
)

// dateLayout is the wire format of country independence dates.
const dateLayout = "2006-01-02"

// EntryDTO is the JSON form of a data entry.
type EntryDTO struct {
	ID            string     `json:"id"`
	SourceID      string     `json:"source_id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	ContentType   string     `json:"content_type"`
	URL           string     `json:"url,omitempty"`
	PublishedDate *time.Time `json:"published_date"`
	CollectedDate time.Time  `json:"collected_date"`
	RawDataHash   string     `json:"raw_data_hash"`
	Processed     bool       `json:"processed"`
}

// NewEntryDTO converts an entity. A nil entry yields nil.
func NewEntryDTO(e *entity.DataEntry) *EntryDTO {
	if e == nil {
		return nil
	}
	return &EntryDTO{
		ID:            e.ID,
		SourceID:      e.SourceID,
		Title:         e.Title,
		Content:       e.Content,
		ContentType:   e.ContentType,
		URL:           e.URL,
		PublishedDate: e.PublishedDate,
		CollectedDate: e.CollectedDate,
		RawDataHash:   e.RawDataHash,
		Processed:     e.Processed,
	}
}

// EntryList is one page of entries.
type EntryList struct {
	Entries []EntryDTO `json:"entries"`
	pagination.Metadata
}

// CountryDTO is the JSON form of a country profile.
type CountryDTO struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	OfficialName     string   `json:"official_name"`
	Region           string   `json:"region"`
	Subregion        string   `json:"subregion"`
	Capital          string   `json:"capital"`
	Population       *int64   `json:"population"`
	Area             *float64 `json:"area"`
	GDP              *float64 `json:"gdp"`
	Currency         string   `json:"currency"`
	Languages        []string `json:"languages"`
	GovernmentType   string   `json:"government_type"`
	HeadOfState      string   `json:"head_of_state"`
	HeadOfGovernment string   `json:"head_of_government"`
	// IndependenceDate is formatted as YYYY-MM-DD.
	IndependenceDate *string   `json:"independence_date"`
	LastUpdated      time.Time `json:"last_updated"`
	DataSourceID     string    `json:"data_source_id,omitempty"`
}

// NewCountryDTO converts an entity.
func NewCountryDTO(c *entity.CountryProfile) CountryDTO {
	out := CountryDTO{
		ID:               c.ID,
		Name:             c.Name,
		OfficialName:     c.OfficialName,
		Region:           c.Region,
		Subregion:        c.Subregion,
		Capital:          c.Capital,
		Population:       c.Population,
		Area:             c.Area,
		GDP:              c.GDP,
		Currency:         c.Currency,
		Languages:        c.Languages,
		GovernmentType:   c.GovernmentType,
		HeadOfState:      c.HeadOfState,
		HeadOfGovernment: c.HeadOfGovernment,
		LastUpdated:      c.LastUpdated,
		DataSourceID:     c.DataSourceID,
	}
	if out.Languages == nil {
		out.Languages = []string{}
	}
	if c.IndependenceDate != nil {
		d := c.IndependenceDate.Format(dateLayout)
		out.IndependenceDate = &d
	}
	return out
}

// entity converts the request body into a profile.
func (d CountryDTO) entity() (*entity.CountryProfile, error) {
	c := &entity.CountryProfile{
		ID:               d.ID,
		Name:             d.Name,
		OfficialName:     d.OfficialName,
		Region:           d.Region,
		Subregion:        d.Subregion,
		Capital:          d.Capital,
		Population:       d.Population,
		Area:             d.Area,
		GDP:              d.GDP,
		Currency:         d.Currency,
		Languages:        d.Languages,
		GovernmentType:   d.GovernmentType,
		HeadOfState:      d.HeadOfState,
		HeadOfGovernment: d.HeadOfGovernment,
		DataSourceID:     d.DataSourceID,
	}
	if d.IndependenceDate != nil && *d.IndependenceDate != "" {
		t, err := time.Parse(dateLayout, *d.IndependenceDate)
		if err != nil {
			return nil, &entity.ValidationError{Field: "independence_date", Message: "must be a date in YYYY-MM-DD format"}
		}
		c.IndependenceDate = &t
	}
	return c, nil
}

// CountryList is one page of country profiles.
type CountryList struct {
	Countries []CountryDTO `json:"countries"`
	pagination.Metadata
}

// SearchHit is one search result. Data holds an EntryDTO or a CountryDTO
// depending on Type.
type SearchHit struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// SearchResponse is the body of GET /api/data/search.
type SearchResponse struct {
	Results      []SearchHit `json:"results"`
	Query        string      `json:"query"`
	TotalResults int         `json:"total_results"`
}

// errorStatus maps usecase errors to HTTP status codes.
func errorStatus(err error, notFound ...error) int {
	if errors.Is(err, entity.ErrInvalidInput) {
		return http.StatusBadRequest
	}
	for _, nf := range notFound {
		if errors.Is(err, nf) {
			return http.StatusNotFound
		}
	}
	return http.StatusInternalServerError
}
