package domain

import "time"

// Stage is a pipeline stage recorded in the run ledger.
type Stage string

// Pipeline stages.
const (
	StageProcess Stage = "process"
	StageEmbed   Stage = "embed"
	StageLoad    Stage = "load"
)

// RunStatus is the lifecycle state of a stage execution.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// IsTerminal reports whether the run has finished.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusComplete || s == RunStatusFailed
}

// Run records one execution of a pipeline stage.
type Run struct {
	ID         string
	Stage      Stage
	Status     RunStatus
	Collection string
	Model      string
	Dimensions int

	// Total is the number of items the stage set out to handle.
	Total int

	// Completed counts items handled so far (points upserted for a load).
	Completed int

	Error     string
	StartedAt time.Time
	UpdatedAt time.Time
}

// Partial reports whether a load left the collection incomplete.
// A running or failed load with fewer points than planned is partial.
func (r *Run) Partial() bool {
	return r.Stage == StageLoad && r.Status != RunStatusComplete && r.Completed < r.Total
}
