package collect

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"geodata/internal/observability/metrics"
)

// historyLimit is the number of runs kept per collector.
const historyLimit = 100

// Run is one finished collector run.
type Run struct {
	Collector  string
	StartedAt  time.Time
	FinishedAt time.Time
	Success    bool
	Error      string
	Result     *RunResult
}

// Info describes a registered collector.
type Info struct {
	Name        string
	Description string
	Running     bool
	LastRun     *Run
}

// Stats aggregates run history across all collectors.
type Stats struct {
	TotalCollectors   int
	RunsToday         int
	SuccessfulRuns    int
	FailedRuns        int
	LastSuccessfulRun *time.Time
}

// Registry runs collectors by name and keeps their in-process history.
type Registry struct {
	Now func() time.Time

	mu         sync.Mutex
	order      []string
	collectors map[string]Collector
	running    map[string]bool
	history    map[string][]Run
}

func NewRegistry(collectors ...Collector) *Registry {
	r := &Registry{
		Now:        time.Now,
		collectors: make(map[string]Collector),
		running:    make(map[string]bool),
		history:    make(map[string][]Run),
	}
	for _, c := range collectors {
		r.Register(c)
	}
	return r
}

// Register adds c, replacing any collector of the same name.
func (r *Registry) Register(c Collector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.collectors[c.Name()]; !ok {
		r.order = append(r.order, c.Name())
	}
	r.collectors[c.Name()] = c
}

// List returns the collectors in registration order.
func (r *Registry) List() []Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Info, 0, len(r.order))
	for _, name := range r.order {
		c := r.collectors[name]
		info := Info{Name: name, Description: c.Description(), Running: r.running[name]}
		if h := r.history[name]; len(h) > 0 {
			last := h[len(h)-1]
			info.LastRun = &last
		}
		out = append(out, info)
	}
	return out
}

// History returns the recorded runs of one collector, oldest first.
func (r *Registry) History(name string) ([]Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.collectors[name]; !ok {
		return nil, ErrCollectorNotFound
	}
	return append([]Run(nil), r.history[name]...), nil
}

// Run executes the named collector synchronously. A second run of the same
// collector while one is in flight fails with ErrCollectorBusy.
func (r *Registry) Run(ctx context.Context, name string, req Request) (*Run, error) {
	r.mu.Lock()
	c, ok := r.collectors[name]
	if !ok {
		r.mu.Unlock()
		return nil, ErrCollectorNotFound
	}
	if r.running[name] {
		r.mu.Unlock()
		return nil, ErrCollectorBusy
	}
	r.running[name] = true
	r.mu.Unlock()
	defer r.release(name)

	started := r.Now()
	res, err := collectSafely(ctx, c, req)
	run := Run{
		Collector:  name,
		StartedAt:  started,
		FinishedAt: r.Now(),
		Success:    err == nil,
		Result:     res,
	}
	if err != nil {
		run.Error = err.Error()
	}
	metrics.RecordCollectorRun(name, run.Success, run.FinishedAt.Sub(started))

	r.mu.Lock()
	h := append(r.history[name], run)
	if len(h) > historyLimit {
		h = h[len(h)-historyLimit:]
	}
	r.history[name] = h
	r.mu.Unlock()

	if err != nil {
		slog.Error("collector run failed",
			slog.String("collector", name),
			slog.Any("error", err))
		return &run, err
	}
	slog.Info("collector run completed",
		slog.String("collector", name),
		slog.Duration("duration", run.FinishedAt.Sub(started)))
	return &run, nil
}

func (r *Registry) release(name string) {
	r.mu.Lock()
	delete(r.running, name)
	r.mu.Unlock()
}

// collectSafely runs c and reports a panic as ErrCollectorPanic.
func collectSafely(ctx context.Context, c Collector, req Request) (res *RunResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			slog.Error("collector panicked",
				slog.String("collector", c.Name()),
				slog.Any("panic", p),
				slog.String("stack", string(debug.Stack())))
			res, err = nil, fmt.Errorf("%w: %v", ErrCollectorPanic, p)
		}
	}()
	return c.Collect(ctx, req)
}

// Stats counts runs started since local midnight and finds the most recent
// successful run of any collector.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.Now()
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	st := Stats{TotalCollectors: len(r.collectors)}
	for _, runs := range r.history {
		for _, run := range runs {
			if run.Success && (st.LastSuccessfulRun == nil || run.FinishedAt.After(*st.LastSuccessfulRun)) {
				t := run.FinishedAt
				st.LastSuccessfulRun = &t
			}
			if run.StartedAt.Before(midnight) {
				continue
			}
			st.RunsToday++
			if run.Success {
				st.SuccessfulRuns++
			} else {
				st.FailedRuns++
			}
		}
	}
	return st
}
