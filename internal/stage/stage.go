package stage

import (
	"context"
	"fmt"

	"github.com/kingrea/hireflow/internal/pipeline"
)

// ID names a pipeline stage. The router hands these back to the engine.
type ID string

const (
	Screening  ID = "screening"
	Scheduling ID = "scheduling"
	Feedback   ID = "feedback"
	Report     ID = "report"
)

// Info describes a stage's identity and intent.
type Info struct {
	ID          ID
	Name        string
	Description string
	Version     string
}

// Validate ensures the info block is well-formed.
func (i Info) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("stage: id is required")
	}
	if i.Name == "" {
		return fmt.Errorf("stage: name is required for %s", i.ID)
	}
	if i.Version == "" {
		return fmt.Errorf("stage: version is required for %s", i.ID)
	}
	return nil
}

// Result captures the outcome of one stage execution over the candidate set.
type Result struct {
	Status  Status
	Message string
	// Failures lists candidates whose collaborator calls failed this tick.
	// They stay in their pre-tick status and are retried later; the tick
	// itself is not an error.
	Failures []CandidateFailure
}

// CandidateFailure scopes one collaborator failure to a candidate.
type CandidateFailure struct {
	CandidateID string `json:"candidate_id"`
	Call        string `json:"call"`
	Reason      string `json:"reason"`
}

// Status enumerates stage run outcomes.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusNoOp      Status = "no-op"
	StatusPartial   Status = "partial"
	StatusFailed    Status = "failed"
)

// Stage is implemented by every pipeline stage. Run mutates the aggregate in
// place; the engine owns the aggregate for the duration of the run and stages
// never execute concurrently with each other.
type Stage interface {
	Info() Info
	Run(ctx context.Context, sc *Context, state *pipeline.State) (Result, error)
}
