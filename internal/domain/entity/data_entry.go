package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
	"time"
)

// Content types of a DataEntry.
const (
	ContentTypeArticle   = "article"
	ContentTypeProfile   = "profile"
	ContentTypeReport    = "report"
	ContentTypeStatistic = "statistic"
)

var contentTypes = []string{ContentTypeArticle, ContentTypeProfile, ContentTypeReport, ContentTypeStatistic}

// DataEntry is one collected unit of content owned by a Source.
// Processed moves from false to true once and entries are never deleted.
type DataEntry struct {
	ID            string
	SourceID      string
	Title         string
	Content       string
	ContentType   string
	URL           string
	PublishedDate *time.Time
	CollectedDate time.Time
	RawDataHash   string
	Processed     bool
}

// HashContent returns the hex SHA-256 digest of content.
// The digest signals duplicates but is not enforced unique.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Validate checks required fields and the content type.
func (e *DataEntry) Validate() error {
	if strings.TrimSpace(e.SourceID) == "" {
		return &ValidationError{Field: "source_id", Message: "is required"}
	}
	if strings.TrimSpace(e.Title) == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if e.Content == "" {
		return &ValidationError{Field: "content", Message: "is required"}
	}
	if e.ContentType != "" && !slices.Contains(contentTypes, e.ContentType) {
		return &ValidationError{Field: "content_type", Message: "must be one of " + strings.Join(contentTypes, ", ")}
	}
	return nil
}
