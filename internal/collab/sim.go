package collab

import (
	"context"
	"fmt"
	"strings"

	"github.com/kingrea/hireflow/internal/pipeline"
)

// DefaultShortlistThreshold is the score at or above which the simulated
// scorer shortlists a candidate.
const DefaultShortlistThreshold = 0.7

// SimSet returns the fully simulated collaborator bundle used by the CLI and
// the test suite.
func SimSet(threshold float64) Set {
	return Set{
		Parser:   SimParser{},
		Scorer:   SimScorer{Threshold: threshold},
		Feedback: SimFeedback{},
		Policy:   KeywordPolicy{},
		Reporter: TextReporter{},
	}
}

// SimParser stands in for an NLP resume parser. It returns a fixed backend
// profile regardless of input, which is enough to exercise the pipeline.
type SimParser struct{}

// Parse implements ResumeParser.
func (SimParser) Parse(ctx context.Context, resume string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	return Profile{
		Skills:          []string{"python", "fastapi", "docker"},
		YearsExperience: 4,
		Summary:         "Software engineer with backend experience",
	}, nil
}

// SimScorer pretends to score a profile against the job description. The
// score is fixed; the shortlist/reject split comes from the threshold.
type SimScorer struct {
	// Threshold is the minimum score that earns a shortlist. Zero means
	// DefaultShortlistThreshold.
	Threshold float64
	// FixedScore overrides the simulated score when non-zero.
	FixedScore float64
}

// Score implements Scorer.
func (s SimScorer) Score(ctx context.Context, jobDescription string, profile Profile) (Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return Evaluation{}, err
	}
	threshold := s.Threshold
	if threshold == 0 {
		threshold = DefaultShortlistThreshold
	}
	score := s.FixedScore
	if score == 0 {
		score = 0.8
	}
	decision := pipeline.DecisionReject
	if score >= threshold {
		decision = pipeline.DecisionShortlist
	}
	return Evaluation{
		Score:    score,
		Decision: decision,
		Reasons:  "Good match for backend skills and years of experience",
	}, nil
}

// SimFeedback fabricates interviewer comments keyed off the round number.
type SimFeedback struct{}

// GenerateFeedback implements FeedbackProvider.
func (SimFeedback) GenerateFeedback(ctx context.Context, roundNumber int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if roundNumber == 1 {
		return "Round 1 feedback: strong python and basic design skills.", nil
	}
	return fmt.Sprintf("Round %d feedback: strong system design and communication.", roundNumber), nil
}

// KeywordPolicy is the default next-step policy. Its decision table:
//
//	feedback contains "weak"                -> reject
//	feedback contains "strong", round >= 2  -> offer
//	feedback contains "strong", round == 1  -> next_round
//	anything else                           -> reject (default-deny)
//
// The default-deny fallback is what guarantees every candidate eventually
// terminates.
type KeywordPolicy struct{}

// DecideNextStep implements DecisionPolicy.
func (KeywordPolicy) DecideNextStep(ctx context.Context, feedback string, roundNumber int) (pipeline.StepDecision, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	lowered := strings.ToLower(feedback)
	switch {
	case strings.Contains(lowered, "weak"):
		return pipeline.StepReject, nil
	case strings.Contains(lowered, "strong") && roundNumber >= 2:
		return pipeline.StepOffer, nil
	case strings.Contains(lowered, "strong") && roundNumber == 1:
		return pipeline.StepNextRound, nil
	default:
		return pipeline.StepReject, nil
	}
}

// TextReporter renders a deterministic plain-text hiring report. It stands in
// for the LLM-backed renderer the production system plugs in; the section
// layout matches what a hiring manager expects: pipeline summary, shortlist
// journeys, rejections with reasons, offer recommendations.
type TextReporter struct{}

// RenderReport implements ReportRenderer.
func (TextReporter) RenderReport(ctx context.Context, state *pipeline.State) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var b strings.Builder
	shortlisted := 0
	for _, r := range state.ScreeningResults {
		if r.Decision == pipeline.DecisionShortlist {
			shortlisted++
		}
	}
	offers, rejectedInInterview := 0, 0
	for i := range state.Interviews {
		switch state.Interviews[i].Status {
		case pipeline.StatusOfferMade:
			offers++
		case pipeline.StatusRejected:
			rejectedInInterview++
		}
	}

	fmt.Fprintf(&b, "# Hiring Pipeline Report\n\n")
	fmt.Fprintf(&b, "## Pipeline summary\n")
	fmt.Fprintf(&b, "- Resumes screened: %d\n", len(state.ScreeningResults))
	fmt.Fprintf(&b, "- Shortlisted: %d\n", shortlisted)
	fmt.Fprintf(&b, "- Rejected in interviews: %d\n", rejectedInInterview)
	fmt.Fprintf(&b, "- Offers recommended: %d\n\n", offers)

	fmt.Fprintf(&b, "## Interview journeys\n")
	for i := range state.Interviews {
		c := &state.Interviews[i]
		fmt.Fprintf(&b, "- %s (%s)\n", c.CandidateID, c.Status)
		for _, round := range c.History {
			fmt.Fprintf(&b, "  - round %d @ %s: %s -> %s\n", round.RoundNumber, round.Slot, round.Feedback, round.Decision)
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Screening rejections\n")
	for _, r := range state.ScreeningResults {
		if r.Decision != pipeline.DecisionReject {
			continue
		}
		fmt.Fprintf(&b, "- %s (score %.2f): %s\n", r.CandidateID, r.Score, r.Reasons)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Offer recommendations\n")
	for i := range state.Interviews {
		c := &state.Interviews[i]
		if c.Status == pipeline.StatusOfferMade {
			fmt.Fprintf(&b, "- %s after %d round(s)\n", c.CandidateID, c.CurrentRound)
		}
	}
	return b.String(), nil
}
