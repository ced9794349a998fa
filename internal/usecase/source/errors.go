// Package source provides use cases for managing data sources: government
// agencies, media outlets and other providers that data entries are
// collected from.
package source

import "errors"

// Sentinel errors for source use case operations.
var (
	// ErrSourceNotFound indicates that the requested source was not found.
	ErrSourceNotFound = errors.New("source not found")

	// ErrDuplicateSource indicates that a source with the same ID already exists.
	ErrDuplicateSource = errors.New("source with this ID already exists")

	// ErrSourceInUse indicates that data entries or country profiles still
	// reference the source, so it cannot be deleted.
	ErrSourceInUse = errors.New("source cannot be deleted while data references it")
)
