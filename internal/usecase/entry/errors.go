// Package entry provides use cases for collected data entries.
package entry

import "errors"

var (
	// ErrDataEntryNotFound indicates that the requested entry does not exist.
	ErrDataEntryNotFound = errors.New("data entry not found")

	// ErrSourceNotFound indicates that the entry's source_id does not resolve.
	ErrSourceNotFound = errors.New("source not found")
)
