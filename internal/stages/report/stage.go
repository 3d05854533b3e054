package report

import (
	"context"
	"fmt"

	"github.com/kingrea/hireflow/internal/collab"
	"github.com/kingrea/hireflow/internal/pipeline"
	"github.com/kingrea/hireflow/internal/stage"
)

const (
	stageID      = stage.Report
	stageVersion = "1.0.0"
)

// Option customizes the report stage.
type Option func(*Stage)

// Stage renders the final hiring-manager report once the pipeline settles.
type Stage struct {
	renderer collab.ReportRenderer
}

// Register installs the report stage factory.
func Register(reg *stage.Registry, renderer collab.ReportRenderer) {
	if reg == nil {
		return
	}
	reg.MustRegister(stageID, func() (stage.Stage, error) {
		return New(WithRenderer(renderer)), nil
	})
}

// New creates a report stage with the plain-text renderer by default.
func New(opts ...Option) *Stage {
	s := &Stage{renderer: collab.TextReporter{}}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// WithRenderer swaps the report renderer collaborator.
func WithRenderer(renderer collab.ReportRenderer) Option {
	return func(s *Stage) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// Info implements stage.Stage.
func (s *Stage) Info() stage.Info {
	return stage.Info{
		ID:          stageID,
		Name:        "Generate Report",
		Description: "Renders the final pipeline summary for the hiring manager.",
		Version:     stageVersion,
	}
}

// Run invokes the renderer exactly once and stores the result on the
// aggregate. A renderer failure is a stage-level collaborator error.
func (s *Stage) Run(ctx context.Context, sc *stage.Context, state *pipeline.State) (stage.Result, error) {
	callCtx, cancel := sc.CallContext(ctx)
	defer cancel()
	text, err := s.renderer.RenderReport(callCtx, state)
	if err != nil {
		return stage.Result{Status: stage.StatusFailed},
			&pipeline.CollaboratorError{Stage: string(stageID), Call: "renderReport", Err: err}
	}
	state.Report = text
	return stage.Result{
		Status:  stage.StatusCompleted,
		Message: fmt.Sprintf("rendered report for %d candidate(s)", len(state.Interviews)),
	}, nil
}
