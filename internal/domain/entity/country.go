package entity

import (
	"strings"
	"time"
)

// CountryProfile is the normalized reference profile of one country.
// ID is the lowercase factbook country code.
type CountryProfile struct {
	ID               string
	Name             string
	OfficialName     string
	Region           string
	Subregion        string
	Capital          string
	Population       *int64
	Area             *float64
	GDP              *float64
	Currency         string
	Languages        []string
	GovernmentType   string
	HeadOfState      string
	HeadOfGovernment string
	IndependenceDate *time.Time
	LastUpdated      time.Time
	DataSourceID     string
}

// Validate checks the identifying fields.
func (c *CountryProfile) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return &ValidationError{Field: "id", Message: "is required"}
	}
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if c.Population != nil && *c.Population < 0 {
		return &ValidationError{Field: "population", Message: "must be non-negative"}
	}
	return nil
}
