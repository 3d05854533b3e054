package engine

import (
	"time"

	"github.com/kingrea/hireflow/internal/pipeline"
	"github.com/kingrea/hireflow/internal/stage"
)

// RunStatus describes where a workflow run stands.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// TickRecord captures one router-decision-then-stage-execution cycle.
type TickRecord struct {
	Tick     int                      `json:"tick"`
	Stage    stage.ID                 `json:"stage"`
	Status   stage.Status             `json:"status"`
	Message  string                   `json:"message,omitempty"`
	Failures []stage.CandidateFailure `json:"failures,omitempty"`
	At       time.Time                `json:"at"`
}

// State is the persisted engine snapshot for one run. It is saved after
// every tick so a half-finished run stays inspectable.
type State struct {
	RunID        string         `json:"run_id"`
	Role         string         `json:"role"`
	Status       RunStatus      `json:"status"`
	StatusReason string         `json:"status_reason,omitempty"`
	Tick         int            `json:"tick"`
	Ticks        []TickRecord   `json:"ticks"`
	Pipeline     pipeline.State `json:"pipeline"`
	StartedAt    time.Time      `json:"started_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
