package pagination

import (
	"net/http"
	"strconv"

	"geodata/internal/domain/entity"
)

// Params is a normalized offset/limit pair.
type Params struct {
	Offset int
	Limit  int
}

// ParseQueryParams reads limit and offset from the query string.
// Malformed or negative values are rejected; everything else is normalized
// with WithDefaults.
func ParseQueryParams(r *http.Request, cfg Config) (Params, error) {
	var p Params
	q := r.URL.Query()

	if s := q.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 0 {
			return Params{}, &entity.ValidationError{Field: "limit", Message: "must be a non-negative integer"}
		}
		p.Limit = limit
	}
	if s := q.Get("offset"); s != "" {
		offset, err := strconv.Atoi(s)
		if err != nil || offset < 0 {
			return Params{}, &entity.ValidationError{Field: "offset", Message: "must be a non-negative integer"}
		}
		p.Offset = offset
	}

	return p.WithDefaults(cfg), nil
}
