package model

import "time"

// RunStatus is the lifecycle status of a persisted scheduling run.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Run is a persisted record of one scheduling invocation: when it ran,
// against which sprint, with what outcome, and the resulting report.
type Run struct {
	ID        string    `json:"id"`
	SprintID  string    `json:"sprint_id"`
	Status    RunStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Report    *Report   `json:"report,omitempty"`
}
