// Package tag provides use cases for freeform tags attached to data entries.
package tag

import "errors"

var (
	// ErrTagNotFound indicates that no tag has the requested ID.
	ErrTagNotFound = errors.New("tag not found")

	// ErrDataEntryNotFound indicates that a tag names a data entry that does not exist.
	ErrDataEntryNotFound = errors.New("data entry not found")
)
