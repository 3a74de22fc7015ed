package models

import (
	"errors"
	"fmt"
	"time"
)

// ScenarioStatus represents the lifecycle state of a single scenario
type ScenarioStatus string

// Scenario statuses
const (
	ScenarioStatusNotRun      ScenarioStatus = "not_run"
	ScenarioStatusChecking    ScenarioStatus = "checking"
	ScenarioStatusInteracting ScenarioStatus = "interacting"
	ScenarioStatusSkipped     ScenarioStatus = "skipped"
	ScenarioStatusVerified    ScenarioStatus = "verified"
	ScenarioStatusFailed      ScenarioStatus = "failed"
)

// Outcome is the reported result of a scenario
type Outcome string

// Outcomes
const (
	OutcomePassed  Outcome = "passed"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
	OutcomePending Outcome = "pending"
)

// Domain errors
var (
	ErrInvalidScenarioName = errors.New("scenario name cannot be empty")
	ErrInvalidTransition   = errors.New("invalid scenario status transition")
	ErrScenarioFinished    = errors.New("scenario has already finished")
)

// ScenarioResult tracks one scenario from start to its terminal state
type ScenarioResult struct {
	Name       string
	Status     ScenarioStatus
	Note       string
	Error      string
	URL        string
	StartedAt  time.Time
	FinishedAt time.Time

	err error
}

// NewScenarioResult creates a result in the not_run state
func NewScenarioResult(name string) (*ScenarioResult, error) {
	if name == "" {
		return nil, ErrInvalidScenarioName
	}
	return &ScenarioResult{
		Name:   name,
		Status: ScenarioStatusNotRun,
	}, nil
}

// Begin moves the scenario into presence checking
func (r *ScenarioResult) Begin() error {
	if r.IsFinished() {
		return fmt.Errorf("%w: cannot begin %s scenario", ErrScenarioFinished, r.Status)
	}
	if r.Status != ScenarioStatusNotRun {
		return fmt.Errorf("%w: cannot begin scenario with status %s", ErrInvalidTransition, r.Status)
	}

	r.Status = ScenarioStatusChecking
	r.StartedAt = time.Now()
	return nil
}

// Skip marks the affordance as absent
func (r *ScenarioResult) Skip(note string) error {
	if r.IsFinished() {
		return fmt.Errorf("%w: cannot skip %s scenario", ErrScenarioFinished, r.Status)
	}
	if r.Status != ScenarioStatusChecking {
		return fmt.Errorf("%w: cannot skip scenario with status %s", ErrInvalidTransition, r.Status)
	}

	r.Status = ScenarioStatusSkipped
	r.Note = note
	r.FinishedAt = time.Now()
	return nil
}

// Interact records that the affordance was found and is being exercised
func (r *ScenarioResult) Interact() error {
	if r.IsFinished() {
		return fmt.Errorf("%w: cannot interact with %s scenario", ErrScenarioFinished, r.Status)
	}
	if r.Status != ScenarioStatusChecking {
		return fmt.Errorf("%w: cannot interact with scenario with status %s", ErrInvalidTransition, r.Status)
	}

	r.Status = ScenarioStatusInteracting
	return nil
}

// Verify marks the interaction as having produced the expected change
func (r *ScenarioResult) Verify() error {
	if r.IsFinished() {
		return fmt.Errorf("%w: cannot verify %s scenario", ErrScenarioFinished, r.Status)
	}
	if r.Status != ScenarioStatusInteracting {
		return fmt.Errorf("%w: cannot verify scenario with status %s", ErrInvalidTransition, r.Status)
	}

	r.Status = ScenarioStatusVerified
	r.FinishedAt = time.Now()
	return nil
}

// Fail marks the scenario as failed. A nil cause is rejected.
func (r *ScenarioResult) Fail(cause error) error {
	if r.IsFinished() {
		return fmt.Errorf("%w: cannot fail %s scenario", ErrScenarioFinished, r.Status)
	}
	if cause == nil {
		return errors.New("failure cause cannot be nil")
	}

	r.Status = ScenarioStatusFailed
	r.err = cause
	r.Error = cause.Error()
	r.FinishedAt = time.Now()
	return nil
}

// Err returns the failure cause, or nil when the scenario did not fail
func (r *ScenarioResult) Err() error {
	return r.err
}

// IsFinished returns true once the scenario reached a terminal state
func (r *ScenarioResult) IsFinished() bool {
	switch r.Status {
	case ScenarioStatusSkipped, ScenarioStatusVerified, ScenarioStatusFailed:
		return true
	}
	return false
}

// Outcome maps the status onto the reported outcome
func (r *ScenarioResult) Outcome() Outcome {
	switch r.Status {
	case ScenarioStatusVerified:
		return OutcomePassed
	case ScenarioStatusFailed:
		return OutcomeFailed
	case ScenarioStatusSkipped:
		return OutcomeSkipped
	default:
		return OutcomePending
	}
}

// Duration returns how long the scenario ran, zero if it never finished
func (r *ScenarioResult) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
