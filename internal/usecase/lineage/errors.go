// Package lineage implements the provenance and quality operations on
// DataLineage records: create, validate, trace, the quality report and
// coverage statistics.
package lineage

import "errors"

var (
	// ErrLineageNotFound indicates that the lineage record does not exist.
	ErrLineageNotFound = errors.New("lineage record not found")

	// ErrDataEntryNotFound indicates that the referenced data entry does not exist.
	ErrDataEntryNotFound = errors.New("data entry not found")
)
