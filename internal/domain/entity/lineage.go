package entity

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Validation states of a DataLineage record.
const (
	LineagePending   = "pending"
	LineageValidated = "validated"
	LineageFailed    = "failed"
)

// LineageStatuses lists the recognized validation states.
var LineageStatuses = []string{LineageValidated, LineagePending, LineageFailed}

// Quality metric names. No other keys are accepted.
const (
	MetricCompleteness = "completeness"
	MetricAccuracy     = "accuracy"
	MetricTimeliness   = "timeliness"
	MetricConsistency  = "consistency"
)

// MetricNames lists the four quality metrics in report order.
var MetricNames = []string{MetricCompleteness, MetricAccuracy, MetricTimeliness, MetricConsistency}

// SourceChainStep is one hop in the provenance of a DataEntry.
type SourceChainStep struct {
	SourceID              string    `json:"source_id"`
	CollectionTimestamp   time.Time `json:"collection_timestamp"`
	CollectionMethod      string    `json:"collection_method"`
	RawDataHash           string    `json:"raw_data_hash"`
	TransformationApplied []string  `json:"transformation_applied"`
}

// QualityMetrics holds the four optional quality scores in [0,1].
// A nil field means the metric was never assessed.
type QualityMetrics struct {
	Completeness *float64 `json:"completeness,omitempty"`
	Accuracy     *float64 `json:"accuracy,omitempty"`
	Timeliness   *float64 `json:"timeliness,omitempty"`
	Consistency  *float64 `json:"consistency,omitempty"`
}

// NewQualityMetrics builds QualityMetrics from a loosely typed mapping.
// Unknown keys and values outside [0,1] are rejected; nil values are treated as absent.
func NewQualityMetrics(raw map[string]*float64) (QualityMetrics, error) {
	var m QualityMetrics
	for key, v := range raw {
		slot := m.slot(key)
		if slot == nil {
			return QualityMetrics{}, &ValidationError{
				Field:   "quality_metrics",
				Message: fmt.Sprintf("invalid metric %q (must be one of %s)", key, strings.Join(MetricNames, ", ")),
			}
		}
		if v == nil {
			continue
		}
		if *v < 0 || *v > 1 {
			return QualityMetrics{}, &ValidationError{
				Field:   "quality_metrics." + key,
				Message: "must be between 0 and 1",
			}
		}
		val := *v
		*slot = &val
	}
	return m, nil
}

func (m *QualityMetrics) slot(name string) **float64 {
	switch name {
	case MetricCompleteness:
		return &m.Completeness
	case MetricAccuracy:
		return &m.Accuracy
	case MetricTimeliness:
		return &m.Timeliness
	case MetricConsistency:
		return &m.Consistency
	}
	return nil
}

// Value returns the named metric, or nil when it is absent or unknown.
func (m QualityMetrics) Value(name string) *float64 {
	if p := m.slot(name); p != nil {
		return *p
	}
	return nil
}

// Merge returns m with every metric present in partial overwritten.
// Metrics absent from partial keep their current value.
func (m QualityMetrics) Merge(partial QualityMetrics) QualityMetrics {
	out := m
	for _, name := range MetricNames {
		if v := partial.Value(name); v != nil {
			val := *v
			*out.slot(name) = &val
		}
	}
	return out
}

// Apply returns m with every key of partial overwritten. A key present with a
// nil value clears that metric. Keys absent from partial keep their value,
// unknown keys are ignored; validate partial with NewQualityMetrics first.
func (m QualityMetrics) Apply(partial map[string]*float64) QualityMetrics {
	out := m
	for key, v := range partial {
		slot := out.slot(key)
		if slot == nil {
			continue
		}
		if v == nil {
			*slot = nil
			continue
		}
		val := *v
		*slot = &val
	}
	return out
}

// IsEmpty reports whether no metric is set.
func (m QualityMetrics) IsEmpty() bool {
	for _, name := range MetricNames {
		if m.Value(name) != nil {
			return false
		}
	}
	return true
}

// DataLineage is a provenance and quality record for a DataEntry.
// An entry may own any number of lineage records.
type DataLineage struct {
	ID               string
	DataEntryID      string
	SourceChain      []SourceChainStep
	QualityMetrics   *QualityMetrics // nil when the stored mapping is absent
	ValidationStatus string
	LastVerified     *time.Time
	CreatedAt        time.Time
}

// Metrics returns the record's quality metrics, or a zero value when absent.
func (l *DataLineage) Metrics() QualityMetrics {
	if l.QualityMetrics == nil {
		return QualityMetrics{}
	}
	return *l.QualityMetrics
}

// ValidateLineageStatus rejects anything other than pending, validated or failed.
func ValidateLineageStatus(status string) error {
	if !slices.Contains(LineageStatuses, status) {
		return &ValidationError{
			Field:   "validation_status",
			Message: "must be one of pending, validated, failed",
		}
	}
	return nil
}
