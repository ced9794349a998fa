package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

const uuidRe = `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`

// staticPaths share a prefix with a wildcard route and must never be
// collapsed into it.
var staticPaths = map[string]struct{}{
	"/api/lineage/quality-report": {},
	"/api/lineage/stats":          {},
	"/api/sources/types":          {},
	"/api/sources/stats":          {},
	"/api/tags/types":             {},
	"/api/tags/search":            {},
	"/api/tags/stats":             {},
	"/api/tags/bulk":              {},
	"/api/collectors/stats":       {},
	"/api/data/search":            {},
}

// pathPatterns defines the list of patterns for dynamic routes.
// Patterns are evaluated in order from most specific to least specific.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/api/lineage/trace/[^/]+$`), Template: "/api/lineage/trace/:entry_id"},
	{Pattern: regexp.MustCompile(`^/api/lineage/` + uuidRe + `/validate$`), Template: "/api/lineage/:id/validate"},
	{Pattern: regexp.MustCompile(`^/api/lineage/` + uuidRe + `$`), Template: "/api/lineage/:id"},

	{Pattern: regexp.MustCompile(`^/api/data/entries/` + uuidRe + `/process$`), Template: "/api/data/entries/:id/process"},
	{Pattern: regexp.MustCompile(`^/api/data/entries/` + uuidRe + `$`), Template: "/api/data/entries/:id"},
	{Pattern: regexp.MustCompile(`^/api/data/countries/[A-Za-z0-9]{1,8}$`), Template: "/api/data/countries/:code"},

	{Pattern: regexp.MustCompile(`^/api/sources/[^/]+$`), Template: "/api/sources/:id"},
	{Pattern: regexp.MustCompile(`^/api/tags/\d+$`), Template: "/api/tags/:id"},
	{Pattern: regexp.MustCompile(`^/api/collectors/[^/]+/run$`), Template: "/api/collectors/:name/run"},
}

// NormalizePath normalizes dynamic URL paths to prevent metrics label cardinality explosion.
// It converts paths with IDs (e.g., /api/tags/123) to template format (e.g., /api/tags/:id).
// Static paths such as /api/lineage/stats remain unchanged.
//
// Examples:
//
//	NormalizePath("/api/tags/123")                 // "/api/tags/:id"
//	NormalizePath("/api/sources/cia_factbook")     // "/api/sources/:id"
//	NormalizePath("/api/sources/types")            // "/api/sources/types" (unchanged)
//	NormalizePath("/api/collectors/rss/run")       // "/api/collectors/:name/run"
//	NormalizePath("/health")                       // "/health" (unchanged)
//	NormalizePath("/unknown/path/123")             // "/unknown/path/123" (no match, return original)
//
// Query parameters and trailing slashes are handled:
//
//	NormalizePath("/api/tags/123?x=1")   // "/api/tags/:id"
//	NormalizePath("/api/tags/123/")      // "/api/tags/:id"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	// Strip trailing slash if present (except for root path)
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if _, ok := staticPaths[path]; ok {
		return path
	}
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}

// GetExpectedCardinality returns the expected number of unique path labels
// after normalization.
func GetExpectedCardinality() int {
	// health, ready, live, metrics, swagger, banner and the collection roots
	staticCount := 12
	return len(pathPatterns) + len(staticPaths) + staticCount
}
