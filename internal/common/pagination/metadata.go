package pagination

// Metadata echoes the effective window of a list response.
type Metadata struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// NewMetadata builds the metadata for a page of results.
func NewMetadata(p Params, total int64) Metadata {
	return Metadata{Total: total, Limit: p.Limit, Offset: p.Offset}
}
