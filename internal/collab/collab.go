// Package collab declares the external collaborator contracts the pipeline
// core calls through: resume parsing, scoring, feedback generation, the
// next-step decision policy, and report rendering. The core never assumes
// anything about their internals beyond these shapes; production deployments
// swap in real services, tests and the shipped defaults use the simulated
// implementations in sim.go.
package collab

import (
	"context"

	"github.com/kingrea/hireflow/internal/pipeline"
)

// Profile is the structured view a parser extracts from raw resume text.
type Profile struct {
	Skills          []string `json:"skills"`
	YearsExperience int      `json:"years_experience"`
	Summary         string   `json:"summary"`
}

// Evaluation is a scorer's verdict on one profile.
type Evaluation struct {
	Score    float64                    `json:"score"`
	Decision pipeline.ScreeningDecision `json:"decision"`
	Reasons  string                     `json:"reasons"`
}

// ResumeParser extracts a profile from raw resume text.
type ResumeParser interface {
	Parse(ctx context.Context, resume string) (Profile, error)
}

// Scorer rates a profile against a job description.
type Scorer interface {
	Score(ctx context.Context, jobDescription string, profile Profile) (Evaluation, error)
}

// FeedbackProvider produces interviewer feedback for a completed round.
type FeedbackProvider interface {
	GenerateFeedback(ctx context.Context, roundNumber int) (string, error)
}

// DecisionPolicy turns round feedback into a next step.
type DecisionPolicy interface {
	DecideNextStep(ctx context.Context, feedback string, roundNumber int) (pipeline.StepDecision, error)
}

// ReportRenderer synthesizes the final hiring-manager report from the
// settled aggregate. Invoked exactly once per run.
type ReportRenderer interface {
	RenderReport(ctx context.Context, state *pipeline.State) (string, error)
}

// Set bundles the collaborators one workflow run needs.
type Set struct {
	Parser   ResumeParser
	Scorer   Scorer
	Feedback FeedbackProvider
	Policy   DecisionPolicy
	Reporter ReportRenderer
}
