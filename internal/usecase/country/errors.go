// Package country provides use cases for country profiles.
package country

import "errors"

var (
	// ErrCountryNotFound indicates that no profile exists for the country code.
	ErrCountryNotFound = errors.New("country not found")

	// ErrSourceNotFound indicates that data_source_id does not resolve.
	ErrSourceNotFound = errors.New("source not found")
)
