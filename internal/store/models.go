package store

import "time"

// Run statuses recorded in history.
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
)

// Run represents one verification run
type Run struct {
	ID         string    `json:"id"`
	Scenario   string    `json:"scenario"`
	TargetURL  string    `json:"target_url"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Capture represents one screenshot artifact from a run
type Capture struct {
	ID      int64     `json:"id"`
	RunID   string    `json:"run_id"`
	Label   string    `json:"label"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	TakenAt time.Time `json:"taken_at"`
}

// RunWithCaptures combines a run with its artifacts
type RunWithCaptures struct {
	Run      Run
	Captures []Capture
}
