// Package collect runs the collectors that pull reference data from external
// sources into the store, and keeps an in-process history of their runs.
package collect

import "errors"

// Sentinel errors for collector operations.
var (
	// ErrCollectorNotFound indicates that no collector is registered under the name.
	ErrCollectorNotFound = errors.New("collector not found")

	// ErrCollectorBusy indicates that the collector is already running.
	ErrCollectorBusy = errors.New("collector is already running")

	// ErrCollectorPanic indicates that the collector panicked during a run.
	ErrCollectorPanic = errors.New("collector panicked")
)

// Sentinel errors returned by fetch adapters. They let collectors tell
// failure modes apart for metrics.
var (
	// ErrInvalidURL indicates that the URL is malformed, uses an unsupported
	// scheme or points to a private network.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrTooManyRedirects indicates that the redirect chain exceeded the limit.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates that the response exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout indicates that the request did not finish in time.
	ErrTimeout = errors.New("request timeout")

	// ErrExtractionFailed indicates that no usable content could be extracted.
	ErrExtractionFailed = errors.New("content extraction failed")

	// ErrUpstreamStatus indicates that the remote server answered with a
	// non-success status.
	ErrUpstreamStatus = errors.New("unexpected upstream status")
)
