package feedback

import (
	"context"
	"fmt"
	"sync"

	"github.com/kingrea/hireflow/internal/collab"
	"github.com/kingrea/hireflow/internal/pipeline"
	"github.com/kingrea/hireflow/internal/stage"
)

const (
	stageID      = stage.Feedback
	stageVersion = "1.0.0"
)

// Option customizes the feedback stage.
type Option func(*Stage)

// Stage collects interviewer feedback for every candidate waiting on it and
// advances each per the decision policy.
type Stage struct {
	feedback collab.FeedbackProvider
	policy   collab.DecisionPolicy
}

// Register installs the feedback stage factory.
func Register(reg *stage.Registry, provider collab.FeedbackProvider, policy collab.DecisionPolicy) {
	if reg == nil {
		return
	}
	reg.MustRegister(stageID, func() (stage.Stage, error) {
		return New(WithProvider(provider), WithPolicy(policy)), nil
	})
}

// New creates a feedback stage with simulated collaborators by default.
func New(opts ...Option) *Stage {
	s := &Stage{
		feedback: collab.SimFeedback{},
		policy:   collab.KeywordPolicy{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// WithProvider swaps the feedback collaborator.
func WithProvider(provider collab.FeedbackProvider) Option {
	return func(s *Stage) {
		if provider != nil {
			s.feedback = provider
		}
	}
}

// WithPolicy swaps the next-step decision policy.
func WithPolicy(policy collab.DecisionPolicy) Option {
	return func(s *Stage) {
		if policy != nil {
			s.policy = policy
		}
	}
}

// Info implements stage.Stage.
func (s *Stage) Info() stage.Info {
	return stage.Info{
		ID:          stageID,
		Name:        "Collect Feedback",
		Description: "Gathers round feedback and applies the next-step decision policy.",
		Version:     stageVersion,
	}
}

// resolution carries one candidate's collaborator results back to the
// single-threaded write phase.
type resolution struct {
	index    int
	feedback string
	decision pipeline.StepDecision
	failure  *stage.CandidateFailure
}

// Run fans the collaborator calls out across waiting candidates; each
// candidate's record is independently owned, so the only synchronization
// needed is collecting the results. State writes happen after the fan-in so
// a slow collaborator never interleaves with a transition. One candidate's
// failed call defers that candidate alone; the rest progress normally.
func (s *Stage) Run(ctx context.Context, sc *stage.Context, state *pipeline.State) (stage.Result, error) {
	waiting := make([]int, 0, len(state.Interviews))
	for i := range state.Interviews {
		candidate := &state.Interviews[i]
		if candidate.Status != pipeline.StatusWaitingFeedback {
			continue
		}
		if _, ok := candidate.LastRound(); !ok {
			return stage.Result{Status: stage.StatusFailed},
				&pipeline.InvariantError{Detail: fmt.Sprintf("candidate %s: waiting for feedback with empty history", candidate.CandidateID)}
		}
		waiting = append(waiting, i)
	}
	if len(waiting) == 0 {
		return stage.Result{Status: stage.StatusNoOp, Message: "no candidates waiting for feedback"}, nil
	}

	resolutions := make([]resolution, len(waiting))
	var wg sync.WaitGroup
	for slot, idx := range waiting {
		wg.Add(1)
		go func(slot, idx int) {
			defer wg.Done()
			resolutions[slot] = s.resolve(ctx, sc, state, idx)
		}(slot, idx)
	}
	wg.Wait()

	resolved := 0
	var failures []stage.CandidateFailure
	for _, res := range resolutions {
		if res.failure != nil {
			failures = append(failures, *res.failure)
			continue
		}
		candidate := &state.Interviews[res.index]
		if err := candidate.ResolveRound(res.feedback, res.decision); err != nil {
			return stage.Result{Status: stage.StatusFailed}, err
		}
		sc.Logf("feedback: %s round %d -> %s", candidate.CandidateID, candidate.CurrentRound, res.decision)
		resolved++
	}

	status := stage.StatusCompleted
	if len(failures) > 0 {
		status = stage.StatusPartial
	}
	return stage.Result{
		Status:   status,
		Message:  fmt.Sprintf("resolved %d round(s), %d failure(s)", resolved, len(failures)),
		Failures: failures,
	}, nil
}

func (s *Stage) resolve(ctx context.Context, sc *stage.Context, state *pipeline.State, idx int) resolution {
	candidate := &state.Interviews[idx]
	last, _ := candidate.LastRound()
	roundNo := last.RoundNumber

	callCtx, cancel := sc.CallContext(ctx)
	text, err := s.feedback.GenerateFeedback(callCtx, roundNo)
	cancel()
	if err != nil {
		return resolution{index: idx, failure: &stage.CandidateFailure{
			CandidateID: candidate.CandidateID,
			Call:        "generateFeedback",
			Reason:      err.Error(),
		}}
	}

	callCtx, cancel = sc.CallContext(ctx)
	decision, err := s.policy.DecideNextStep(callCtx, text, roundNo)
	cancel()
	if err != nil {
		return resolution{index: idx, failure: &stage.CandidateFailure{
			CandidateID: candidate.CandidateID,
			Call:        "decideNextStep",
			Reason:      err.Error(),
		}}
	}
	return resolution{index: idx, feedback: text, decision: decision}
}
