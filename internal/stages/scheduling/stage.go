package scheduling

import (
	"context"
	"fmt"

	"github.com/kingrea/hireflow/internal/ledger"
	"github.com/kingrea/hireflow/internal/pipeline"
	"github.com/kingrea/hireflow/internal/stage"
)

const (
	stageID      = stage.Scheduling
	stageVersion = "1.0.0"
)

// Stage books panel slots for every candidate awaiting a round. Eligible
// candidates are served in list order against the ledger's canonical slot
// order: first eligible, first served.
type Stage struct{}

// Register installs the scheduling stage factory.
func Register(reg *stage.Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(stageID, func() (stage.Stage, error) {
		return New(), nil
	})
}

// New creates a scheduling stage.
func New() *Stage {
	return &Stage{}
}

// Info implements stage.Stage.
func (s *Stage) Info() stage.Info {
	return stage.Info{
		ID:          stageID,
		Name:        "Schedule Round",
		Description: "Books one panel slot per eligible candidate and opens the next round.",
		Version:     stageVersion,
	}
}

// Run consumes at most one slot per eligible candidate per tick. Slot
// exhaustion and booking races both leave the candidate untouched; the next
// tick retries. Booking races can only surface when another requisition
// shares the ledger, but the deferral path costs nothing to keep honest.
func (s *Stage) Run(ctx context.Context, sc *stage.Context, state *pipeline.State) (stage.Result, error) {
	if err := ctx.Err(); err != nil {
		return stage.Result{Status: stage.StatusFailed}, err
	}
	if sc.Ledger == nil {
		return stage.Result{Status: stage.StatusFailed}, fmt.Errorf("scheduling: slot ledger is required")
	}
	role := sc.Config.Role()
	free := sc.Ledger.Available(role)

	booked, deferred := 0, 0
	for i := range state.Interviews {
		candidate := &state.Interviews[i]
		if !candidate.Status.SchedulingEligible() {
			continue
		}
		if len(free) == 0 {
			// Out of slots this tick; everyone still eligible waits.
			deferred++
			continue
		}
		chosen := free[0]
		free = free[1:]
		booking := sc.Ledger.Book(candidate.CandidateID, chosen)
		if booking.Status != ledger.BookingConfirmed {
			sc.Logf("scheduling: slot %s lost in race, deferring %s", chosen, candidate.CandidateID)
			deferred++
			continue
		}
		if err := candidate.BeginRound(chosen); err != nil {
			return stage.Result{Status: stage.StatusFailed}, err
		}
		sc.Logf("scheduling: booked %s for %s round %d", chosen, candidate.CandidateID, candidate.CurrentRound)
		booked++
	}

	status := stage.StatusCompleted
	if booked == 0 {
		status = stage.StatusNoOp
	}
	return stage.Result{
		Status:  status,
		Message: fmt.Sprintf("booked %d candidate(s), deferred %d", booked, deferred),
	}, nil
}
