package pipeline

import (
	"errors"
	"fmt"
)

// ErrInvariantViolation marks corruption of the workflow aggregate. The
// engine aborts the run on it rather than letting a prior bug compound.
var ErrInvariantViolation = errors.New("pipeline: invariant violation")

// InvariantError describes which structural guarantee was broken.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("pipeline: invariant violation: %s", e.Detail)
}

// Is lets errors.Is match any invariant error against ErrInvariantViolation.
func (e *InvariantError) Unwrap() error {
	return ErrInvariantViolation
}

// CollaboratorError wraps a failed or timed-out call to an external
// collaborator. It identifies the stage and, when the failure is scoped to a
// single candidate, the candidate it affected.
type CollaboratorError struct {
	Stage       string
	CandidateID string
	Call        string
	Err         error
}

func (e *CollaboratorError) Error() string {
	if e.CandidateID == "" {
		return fmt.Sprintf("%s: collaborator call %s: %v", e.Stage, e.Call, e.Err)
	}
	return fmt.Sprintf("%s: candidate %s: collaborator call %s: %v", e.Stage, e.CandidateID, e.Call, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
