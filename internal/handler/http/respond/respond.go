// Package respond writes JSON responses. Error bodies only carry messages
// that are safe for API clients; everything else is logged and replaced.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"geodata/internal/domain/entity"
)

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

const internalMessage = "internal server error"

// JSON writes v with the given status. A nil v writes headers only.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// headers are gone, only logging is left
		slog.Default().Error("failed to encode JSON response",
			slog.Int("status", code),
			slog.Any("error", err))
	}
}

// PublicError pairs a client-facing message with the internal cause.
type PublicError struct {
	Code    int
	Message string
	Err     error
}

// Public wraps err so that SafeError answers with msg instead.
func Public(code int, msg string, err error) *PublicError {
	return &PublicError{Code: code, Message: msg, Err: err}
}

func (e *PublicError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Err.Error()
}

func (e *PublicError) Unwrap() error { return e.Err }

// domain errors whose text is written for clients
var publicSentinels = []error{
	entity.ErrInvalidInput,
	entity.ErrNotFound,
	entity.ErrAlreadyExists,
	entity.ErrReferenced,
}

// message fragments of package-level errors that are safe to echo
var publicFragments = []string{
	"required",
	"invalid",
	"not found",
	"already exists",
	"already running",
	"still referenced",
	"must be",
	"cannot be",
	"too long",
	"too short",
	"out of range",
}

func isPublic(err error) bool {
	for _, s := range publicSentinels {
		if errors.Is(err, s) {
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	for _, f := range publicFragments {
		if strings.Contains(msg, f) {
			return true
		}
	}
	return false
}

// SafeError writes err as an ErrorBody. A *PublicError in the chain answers
// with its own code and message. Otherwise 4xx errors recognised as
// client-safe keep their text and everything else becomes a generic 500
// message, logged with secrets masked.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	var pub *PublicError
	if errors.As(err, &pub) {
		if pub.Err != nil {
			slog.Default().Error("request failed",
				slog.Int("status", pub.Code),
				slog.String("message", pub.Message),
				slog.String("error", SanitizeError(pub.Err)))
		}
		JSON(w, pub.Code, ErrorBody{Error: pub.Message})
		return
	}

	if code < http.StatusInternalServerError && isPublic(err) {
		JSON(w, code, ErrorBody{Error: err.Error()})
		return
	}
	slog.Default().Error("request failed",
		slog.Int("status", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, ErrorBody{Error: internalMessage})
}
