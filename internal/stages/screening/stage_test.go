package screening

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kingrea/hireflow/internal/collab"
	"github.com/kingrea/hireflow/internal/config"
	"github.com/kingrea/hireflow/internal/pipeline"
	"github.com/kingrea/hireflow/internal/stage"
)

func newTestContext() *stage.Context {
	cfg := &config.Config{Pipeline: config.PipelineConfig{
		Role:               "backend_engineer",
		ShortlistThreshold: 0.7,
		IterationCap:       100,
		CallTimeout:        config.Duration(time.Second),
		PanelSlots:         map[string][]string{"backend_engineer": {"slot-a"}},
	}}
	return stage.NewContext(cfg, nil, nil)
}

type flakyParser struct {
	failOn map[string]bool
}

func (p flakyParser) Parse(ctx context.Context, resume string) (collab.Profile, error) {
	if p.failOn[resume] {
		return collab.Profile{}, errors.New("parser exploded")
	}
	return collab.Profile{Summary: "parsed: " + resume}, nil
}

type recordingScorer struct {
	decisions map[string]pipeline.ScreeningDecision
}

func (s recordingScorer) Score(ctx context.Context, jd string, profile collab.Profile) (collab.Evaluation, error) {
	decision, ok := s.decisions[profile.Summary]
	if !ok {
		decision = pipeline.DecisionShortlist
	}
	return collab.Evaluation{Score: 0.8, Decision: decision, Reasons: "test"}, nil
}

func TestRunEmitsResultsInResumeOrder(t *testing.T) {
	st := New()
	state := &pipeline.State{
		JobDescription: "backend engineer",
		Resumes:        []string{"resume one", "resume two", "resume three"},
	}
	result, err := st.Run(context.Background(), newTestContext(), state)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Status != stage.StatusCompleted {
		t.Fatalf("unexpected status: %+v", result)
	}
	if len(state.ScreeningResults) != 3 {
		t.Fatalf("expected 3 results, got %d", len(state.ScreeningResults))
	}
	for i, r := range state.ScreeningResults {
		if want := pipeline.CandidateID(i); r.CandidateID != want {
			t.Fatalf("result %d has id %s, want %s", i, r.CandidateID, want)
		}
		if r.Score < 0 || r.Score > 1 {
			t.Fatalf("score out of range: %+v", r)
		}
	}
}

func TestRunExcludesFailingCandidateAndContinues(t *testing.T) {
	st := New(WithParser(flakyParser{failOn: map[string]bool{"resume two": true}}))
	state := &pipeline.State{
		Resumes: []string{"resume one", "resume two", "resume three"},
	}
	result, err := st.Run(context.Background(), newTestContext(), state)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Status != stage.StatusPartial {
		t.Fatalf("expected partial status, got %+v", result)
	}
	if len(result.Failures) != 1 || result.Failures[0].CandidateID != "cand-2" {
		t.Fatalf("unexpected failures: %+v", result.Failures)
	}
	if len(state.ScreeningResults) != 2 {
		t.Fatalf("expected 2 surviving results, got %+v", state.ScreeningResults)
	}
	// Positional IDs survive the exclusion so cand-3 stays cand-3.
	if state.ScreeningResults[1].CandidateID != "cand-3" {
		t.Fatalf("candidate ids shifted: %+v", state.ScreeningResults)
	}
}

func TestRunRecordsScorerDecisions(t *testing.T) {
	st := New(
		WithParser(flakyParser{}),
		WithScorer(recordingScorer{decisions: map[string]pipeline.ScreeningDecision{
			"parsed: resume two": pipeline.DecisionReject,
		}}),
	)
	state := &pipeline.State{Resumes: []string{"resume one", "resume two"}}
	if _, err := st.Run(context.Background(), newTestContext(), state); err != nil {
		t.Fatalf("run: %v", err)
	}
	if state.ScreeningResults[0].Decision != pipeline.DecisionShortlist {
		t.Fatalf("cand-1 decision: %+v", state.ScreeningResults[0])
	}
	if state.ScreeningResults[1].Decision != pipeline.DecisionReject {
		t.Fatalf("cand-2 decision: %+v", state.ScreeningResults[1])
	}
}
