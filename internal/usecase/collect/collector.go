package collect

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sony/gobreaker"
)

// maxRunErrors caps the error messages kept on one RunResult.
const maxRunErrors = 20

// Request carries optional run parameters. Collectors ignore the fields they
// do not use.
type Request struct {
	SourceID string
	URL      string
}

// Collector pulls data from one kind of external source.
type Collector interface {
	Name() string
	Description() string
	Collect(ctx context.Context, req Request) (*RunResult, error)
}

// RunResult summarizes one collector run. Failures of single items are
// counted here and do not fail the run.
type RunResult struct {
	Collector  string
	Processed  int
	Created    int
	Duplicated int
	Failed     int
	Errors     []string

	mu sync.Mutex
}

func (r *RunResult) created() {
	r.mu.Lock()
	r.Processed++
	r.Created++
	r.mu.Unlock()
}

func (r *RunResult) duplicated() {
	r.mu.Lock()
	r.Processed++
	r.Duplicated++
	r.mu.Unlock()
}

func (r *RunResult) failed(item string, err error) {
	r.mu.Lock()
	r.Processed++
	r.Failed++
	if len(r.Errors) < maxRunErrors {
		r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", item, err))
	}
	r.mu.Unlock()
}

// errorType classifies a fetch error for the collector_fetch_errors metric.
func errorType(err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, ErrBodyTooLarge):
		return "body_too_large"
	case errors.Is(err, ErrExtractionFailed):
		return "extraction"
	case errors.Is(err, ErrUpstreamStatus):
		return "status"
	}
	return "other"
}
