package models

import (
	"time"

	"github.com/google/uuid"
)

// Run is one execution of the probe suite against a storefront
type Run struct {
	ID         string
	BaseURL    string
	Driver     string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []*ScenarioResult
}

// Summary counts scenario outcomes
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
	Pending int
}

// NewRun creates a run with a fresh identifier
func NewRun(baseURL, driver string) *Run {
	return &Run{
		ID:        uuid.New().String(),
		BaseURL:   baseURL,
		Driver:    driver,
		StartedAt: time.Now(),
	}
}

// Add appends a result, keeping declaration order
func (r *Run) Add(result *ScenarioResult) {
	r.Results = append(r.Results, result)
}

// Finish stamps the end of the run
func (r *Run) Finish() {
	r.FinishedAt = time.Now()
}

// Summary tallies outcomes across all results
func (r *Run) Summary() Summary {
	s := Summary{Total: len(r.Results)}
	for _, res := range r.Results {
		switch res.Outcome() {
		case OutcomePassed:
			s.Passed++
		case OutcomeFailed:
			s.Failed++
		case OutcomeSkipped:
			s.Skipped++
		default:
			s.Pending++
		}
	}
	return s
}

// Failed returns true if any scenario failed. Skips do not count.
func (r *Run) Failed() bool {
	return r.Summary().Failed > 0
}

// ExitCode returns the process exit code for the run
func (r *Run) ExitCode() int {
	if r.Failed() {
		return 1
	}
	return 0
}

// Duration returns the wall time of the run
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
