package screening

import (
	"context"
	"fmt"

	"github.com/kingrea/hireflow/internal/collab"
	"github.com/kingrea/hireflow/internal/pipeline"
	"github.com/kingrea/hireflow/internal/stage"
)

const (
	stageID      = stage.Screening
	stageVersion = "1.0.0"
)

// Option customizes the screening stage.
type Option func(*Stage)

// Stage parses and scores every resume against the job description, emitting
// one ScreeningResult per surviving candidate in resume order.
type Stage struct {
	parser collab.ResumeParser
	scorer collab.Scorer
}

// Register installs the screening stage factory.
func Register(reg *stage.Registry, parser collab.ResumeParser, scorer collab.Scorer) {
	if reg == nil {
		return
	}
	reg.MustRegister(stageID, func() (stage.Stage, error) {
		return New(WithParser(parser), WithScorer(scorer)), nil
	})
}

// New creates a screening stage with simulated collaborators by default.
func New(opts ...Option) *Stage {
	s := &Stage{
		parser: collab.SimParser{},
		scorer: collab.SimScorer{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// WithParser swaps the resume parser collaborator.
func WithParser(parser collab.ResumeParser) Option {
	return func(s *Stage) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// WithScorer swaps the scoring collaborator.
func WithScorer(scorer collab.Scorer) Option {
	return func(s *Stage) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// Info implements stage.Stage.
func (s *Stage) Info() stage.Info {
	return stage.Info{
		ID:          stageID,
		Name:        "Screen Resumes",
		Description: "Parses each resume and scores it against the job description.",
		Version:     stageVersion,
	}
}

// Run screens every resume in input order. Candidate IDs are positional
// (cand-1, cand-2, ...) so they stay stable whatever each screening decides.
// A failed parse or score excludes that one candidate and the batch
// continues; the exclusions are reported as per-candidate failures.
func (s *Stage) Run(ctx context.Context, sc *stage.Context, state *pipeline.State) (stage.Result, error) {
	results := make([]pipeline.ScreeningResult, 0, len(state.Resumes))
	var failures []stage.CandidateFailure
	for idx, resume := range state.Resumes {
		candidateID := pipeline.CandidateID(idx)
		profile, err := s.parse(ctx, sc, resume)
		if err != nil {
			cerr := &pipeline.CollaboratorError{Stage: string(stageID), CandidateID: candidateID, Call: "parse", Err: err}
			sc.Logf("screening: excluding %s: %v", candidateID, cerr)
			failures = append(failures, stage.CandidateFailure{CandidateID: candidateID, Call: "parse", Reason: err.Error()})
			continue
		}
		eval, err := s.score(ctx, sc, state.JobDescription, profile)
		if err != nil {
			cerr := &pipeline.CollaboratorError{Stage: string(stageID), CandidateID: candidateID, Call: "score", Err: err}
			sc.Logf("screening: excluding %s: %v", candidateID, cerr)
			failures = append(failures, stage.CandidateFailure{CandidateID: candidateID, Call: "score", Reason: err.Error()})
			continue
		}
		if !eval.Decision.IsValid() {
			return stage.Result{Status: stage.StatusFailed}, fmt.Errorf("screening: scorer returned unknown decision %q for %s", eval.Decision, candidateID)
		}
		results = append(results, pipeline.ScreeningResult{
			CandidateID: candidateID,
			Score:       eval.Score,
			Decision:    eval.Decision,
			Reasons:     eval.Reasons,
		})
	}
	state.ScreeningResults = results
	status := stage.StatusCompleted
	if len(failures) > 0 {
		status = stage.StatusPartial
	}
	return stage.Result{
		Status:   status,
		Message:  fmt.Sprintf("screened %d of %d resumes", len(results), len(state.Resumes)),
		Failures: failures,
	}, nil
}

func (s *Stage) parse(ctx context.Context, sc *stage.Context, resume string) (collab.Profile, error) {
	callCtx, cancel := sc.CallContext(ctx)
	defer cancel()
	return s.parser.Parse(callCtx, resume)
}

func (s *Stage) score(ctx context.Context, sc *stage.Context, jd string, profile collab.Profile) (collab.Evaluation, error) {
	callCtx, cancel := sc.CallContext(ctx)
	defer cancel()
	return s.scorer.Score(callCtx, jd, profile)
}
