// Package request decodes JSON bodies and typed query parameters for the
// resource handlers. Every failure is an *entity.ValidationError naming the
// offending field, so handlers can map it to 400 with respond.SafeError.
package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"geodata/internal/domain/entity"
)

// DecodeJSON decodes the body of r into v. An empty body is reported as a
// missing body; unknown fields are ignored.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return &entity.ValidationError{Field: "body", Message: "is required"}
	}
	return decodeError(json.NewDecoder(r.Body).Decode(v))
}

// DecodeOptionalJSON is DecodeJSON for endpoints whose body may be omitted.
// An empty body leaves v untouched.
func DecodeOptionalJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return decodeError(err)
}

func decodeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return &entity.ValidationError{Field: "body", Message: "is required"}
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return &entity.ValidationError{Field: "body", Message: "too long"}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &entity.ValidationError{Field: typeErr.Field, Message: "invalid type, expected " + typeErr.Type.String()}
	}
	return &entity.ValidationError{Field: "body", Message: "invalid JSON"}
}

// String returns the trimmed query parameter name.
func String(q url.Values, name string) string {
	return strings.TrimSpace(q.Get(name))
}

// OptionalBool parses name as a boolean. It returns nil when the parameter
// is absent.
func OptionalBool(q url.Values, name string) (*bool, error) {
	s := String(q, name)
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, &entity.ValidationError{Field: name, Message: "must be true or false"}
	}
	return &b, nil
}

// OptionalFloat parses name as a float. It returns nil when the parameter
// is absent.
func OptionalFloat(q url.Values, name string) (*float64, error) {
	s := String(q, name)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &entity.ValidationError{Field: name, Message: "must be a number"}
	}
	return &f, nil
}

// Int parses name as a non-negative integer, returning def when absent.
func Int(q url.Values, name string, def int) (int, error) {
	s := String(q, name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, &entity.ValidationError{Field: name, Message: "must be a non-negative integer"}
	}
	return n, nil
}
