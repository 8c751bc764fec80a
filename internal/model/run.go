package model

import "time"

// RunStatus represents the current state of a migration run.
type RunStatus string

const (
	RunStatusQueued      RunStatus = "queued"
	RunStatusNormalizing RunStatus = "normalizing"
	RunStatusMapping     RunStatus = "mapping"
	RunStatusAggregating RunStatus = "aggregating"
	RunStatusResolving   RunStatus = "resolving"
	RunStatusReporting   RunStatus = "reporting"
	RunStatusComplete    RunStatus = "complete"
	RunStatusFailed      RunStatus = "failed"
)

// StageStatus represents the state of one pipeline stage within a run.
type StageStatus string

const (
	StageStatusRunning  StageStatus = "running"
	StageStatusComplete StageStatus = "complete"
	StageStatusFailed   StageStatus = "failed"
	StageStatusSkipped  StageStatus = "skipped"
)

// StageResult holds the outcome of one pipeline stage.
type StageResult struct {
	Name     string         `json:"name"`
	Status   StageStatus    `json:"status"`
	Duration int64          `json:"duration_ms"`
	Records  int            `json:"records"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Run represents a single migration run.
type Run struct {
	ID        string     `json:"id"`
	Source    string     `json:"source"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult holds the final outcome of a run.
type RunResult struct {
	Stages          []StageResult `json:"stages"`
	DealCount       int           `json:"deal_count"`
	SiteRecordCount int           `json:"site_record_count"`
	CommCount       int           `json:"communication_association_count"`
	SocialCount     int           `json:"social_association_count"`
	Report          *Report       `json:"report,omitempty"`
	Error           string        `json:"error,omitempty"`
}
