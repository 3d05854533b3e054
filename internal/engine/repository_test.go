package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/kingrea/hireflow/internal/config"
	"github.com/kingrea/hireflow/internal/pipeline"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	cfg := &config.Config{
		ProjectDir:         t.TempDir(),
		HireflowProjectDir: t.TempDir(),
	}
	return NewRepository(cfg)
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	state := State{
		RunID:     "run-1",
		Role:      "backend_engineer",
		Status:    RunStatusRunning,
		Tick:      3,
		StartedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 3, 1, 9, 5, 0, 0, time.UTC),
		Pipeline: pipeline.State{
			JobDescription: "backend engineer",
			Interviews: []pipeline.CandidateInterview{{
				CandidateID:  "cand-1",
				Status:       pipeline.StatusWaitingFeedback,
				CurrentRound: 1,
				History:      []pipeline.InterviewRound{{RoundNumber: 1, Slot: "2025-12-13 10:00"}},
			}},
		},
	}
	if err := repo.Save(state); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := repo.Load("run-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.RunID != "run-1" || loaded.Tick != 3 {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
	if len(loaded.Pipeline.Interviews) != 1 || loaded.Pipeline.Interviews[0].Status != pipeline.StatusWaitingFeedback {
		t.Fatalf("pipeline state lost: %+v", loaded.Pipeline)
	}
}

func TestRepositoryLoadMissingRun(t *testing.T) {
	repo := newTestRepository(t)
	if _, err := repo.Load("no-such-run"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("expected ErrStateNotFound, got %v", err)
	}
}

func TestRepositorySaveRequiresRunID(t *testing.T) {
	repo := newTestRepository(t)
	if err := repo.Save(State{}); err == nil {
		t.Fatalf("expected error for missing run id")
	}
}
