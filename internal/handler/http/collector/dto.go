// Package collector lists, runs and reports on the data collectors under
// /api/collectors.
package collector

import (
	"time"

	"geodata/internal/handler/http/respond"
	collectUC "geodata/internal/usecase/collect"
)

// ResultDTO summarizes the items a run processed.
type ResultDTO struct {
	Processed  int      `json:"processed"`
	Created    int      `json:"created"`
	Duplicated int      `json:"duplicated"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors"`
}

// RunDTO is one finished run. Status is completed or failed.
type RunDTO struct {
	Collector  string     `json:"collector"`
	Status     string     `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
	Result     *ResultDTO `json:"result"`
	Error      string     `json:"error,omitempty"`
}

func newRunDTO(run *collectUC.Run) *RunDTO {
	if run == nil {
		return nil
	}
	out := &RunDTO{
		Collector:  run.Collector,
		Status:     "completed",
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
	if !run.Success {
		out.Status = "failed"
		out.Error = respond.SanitizeString(run.Error)
	}
	if res := run.Result; res != nil {
		out.Result = &ResultDTO{
			Processed:  res.Processed,
			Created:    res.Created,
			Duplicated: res.Duplicated,
			Failed:     res.Failed,
			Errors:     make([]string, 0, len(res.Errors)),
		}
		for _, e := range res.Errors {
			out.Result.Errors = append(out.Result.Errors, respond.SanitizeString(e))
		}
	}
	return out
}

// InfoDTO describes one registered collector.
type InfoDTO struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Running     bool    `json:"running"`
	LastRun     *RunDTO `json:"last_run"`
}

// ListResponse is the body of GET /api/collectors.
type ListResponse struct {
	Collectors []InfoDTO `json:"collectors"`
	Total      int       `json:"total"`
}

// StatsDTO is the body of GET /api/collectors/stats. Runs are counted since
// local midnight.
type StatsDTO struct {
	TotalCollectors     int        `json:"total_collectors"`
	RunningCollectors   int        `json:"running_collectors"`
	TotalRunsToday      int        `json:"total_runs_today"`
	SuccessfulRunsToday int        `json:"successful_runs_today"`
	FailedRunsToday     int        `json:"failed_runs_today"`
	LastSuccessfulRun   *time.Time `json:"last_successful_run"`
}
