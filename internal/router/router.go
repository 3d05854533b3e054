// Package router decides which stage the workflow engine runs next. Route is
// a pure function of the candidate snapshot so the engine's behavior stays
// replayable from persisted state.
package router

import (
	"github.com/kingrea/hireflow/internal/pipeline"
	"github.com/kingrea/hireflow/internal/stage"
)

// Route selects the next stage for the given interview snapshot. First match
// wins:
//
//  1. anyone schedulable (pending_first_round / next_round_pending) -> scheduling
//  2. anyone waiting_feedback -> feedback
//  3. otherwise -> report (terminal)
//
// Scheduling outranks feedback deliberately: newly shortlisted and
// next-round candidates must not be starved behind feedback collection.
func Route(interviews []pipeline.CandidateInterview) stage.ID {
	for i := range interviews {
		if interviews[i].Status.SchedulingEligible() {
			return stage.Scheduling
		}
	}
	for i := range interviews {
		if interviews[i].Status == pipeline.StatusWaitingFeedback {
			return stage.Feedback
		}
	}
	return stage.Report
}
