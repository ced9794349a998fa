package pathutil

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = errors.New("invalid id")

// ParseID parses a positive integer ID taken from a path segment.
//
// Example:
//
//	id, err := ParseID(r.PathValue("id"))
//	// "123" -> 123, nil
//	// "0", "-1", "abc" -> 0, ErrInvalidID
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// PathValue returns the trimmed path wildcard name of r, or ErrInvalidID
// when it is empty.
func PathValue(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.PathValue(name))
	if v == "" {
		return "", ErrInvalidID
	}
	return v, nil
}
