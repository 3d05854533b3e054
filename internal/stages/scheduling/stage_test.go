package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/kingrea/hireflow/internal/config"
	"github.com/kingrea/hireflow/internal/ledger"
	"github.com/kingrea/hireflow/internal/pipeline"
	"github.com/kingrea/hireflow/internal/stage"
)

func newTestContext(t *testing.T, slots ...string) *stage.Context {
	t.Helper()
	cfg := &config.Config{Pipeline: config.PipelineConfig{
		Role:               "backend_engineer",
		ShortlistThreshold: 0.7,
		IterationCap:       100,
		CallTimeout:        config.Duration(time.Second),
		PanelSlots:         map[string][]string{"backend_engineer": slots},
	}}
	led, err := ledger.New(cfg.PanelSlots())
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	return stage.NewContext(cfg, led, nil)
}

func pending(ids ...string) []pipeline.CandidateInterview {
	out := make([]pipeline.CandidateInterview, len(ids))
	for i, id := range ids {
		out[i] = pipeline.CandidateInterview{CandidateID: id, Status: pipeline.StatusPendingFirstRound, History: []pipeline.InterviewRound{}}
	}
	return out
}

func TestRunBooksEarliestSlotForFirstEligible(t *testing.T) {
	sc := newTestContext(t, "2025-12-13 10:00", "2025-12-13 11:00")
	state := &pipeline.State{Interviews: pending("cand-1")}
	result, err := New().Run(context.Background(), sc, state)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Status != stage.StatusCompleted {
		t.Fatalf("unexpected status: %+v", result)
	}
	c := &state.Interviews[0]
	if c.Status != pipeline.StatusWaitingFeedback || c.CurrentRound != 1 {
		t.Fatalf("candidate not advanced: %+v", c)
	}
	if c.History[0].Slot != "2025-12-13 10:00" {
		t.Fatalf("expected earliest slot, got %s", c.History[0].Slot)
	}
	if holder, ok := sc.Ledger.BookedBy("2025-12-13 10:00"); !ok || holder != "cand-1" {
		t.Fatalf("ledger not updated: %s ok=%v", holder, ok)
	}
}

func TestRunDefersWhenSlotsRunOut(t *testing.T) {
	// Scenario: two eligible candidates, one slot. Exactly one advances.
	sc := newTestContext(t, "2025-12-13 10:00")
	state := &pipeline.State{Interviews: pending("cand-1", "cand-2")}
	result, err := New().Run(context.Background(), sc, state)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Status != stage.StatusCompleted {
		t.Fatalf("unexpected status: %+v", result)
	}
	first, second := &state.Interviews[0], &state.Interviews[1]
	if first.Status != pipeline.StatusWaitingFeedback {
		t.Fatalf("first eligible not served: %+v", first)
	}
	if second.Status != pipeline.StatusPendingFirstRound || second.CurrentRound != 0 {
		t.Fatalf("deferred candidate mutated: %+v", second)
	}
	// Next tick with a fresh slot serves the deferred candidate.
	extra, err := ledger.New(map[string][]string{"backend_engineer": {"2025-12-14 09:00"}})
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	sc.Ledger = extra
	if _, err := New().Run(context.Background(), sc, state); err != nil {
		t.Fatalf("second tick: %v", err)
	}
	if second.Status != pipeline.StatusWaitingFeedback {
		t.Fatalf("deferred candidate not retried: %+v", second)
	}
}

func TestRunSkipsIneligibleStatuses(t *testing.T) {
	sc := newTestContext(t, "a", "b", "c")
	state := &pipeline.State{Interviews: []pipeline.CandidateInterview{
		{CandidateID: "cand-1", Status: pipeline.StatusRejected},
		{CandidateID: "cand-2", Status: pipeline.StatusWaitingFeedback, CurrentRound: 1,
			History: []pipeline.InterviewRound{{RoundNumber: 1, Slot: "x"}}},
		{CandidateID: "cand-3", Status: pipeline.StatusNextRoundPending, CurrentRound: 1,
			History: []pipeline.InterviewRound{{RoundNumber: 1, Slot: "y", Decision: pipeline.StepNextRound}}},
	}}
	if _, err := New().Run(context.Background(), sc, state); err != nil {
		t.Fatalf("run: %v", err)
	}
	if state.Interviews[0].Status != pipeline.StatusRejected {
		t.Fatalf("terminal candidate touched: %+v", state.Interviews[0])
	}
	if state.Interviews[1].CurrentRound != 1 {
		t.Fatalf("waiting candidate scheduled: %+v", state.Interviews[1])
	}
	c := &state.Interviews[2]
	if c.Status != pipeline.StatusWaitingFeedback || c.CurrentRound != 2 {
		t.Fatalf("next-round candidate not scheduled: %+v", c)
	}
	if c.History[1].RoundNumber != 2 || c.History[1].Slot != "a" {
		t.Fatalf("unexpected round record: %+v", c.History[1])
	}
}

func TestRunNoSlotsIsNoOp(t *testing.T) {
	sc := newTestContext(t)
	state := &pipeline.State{Interviews: pending("cand-1")}
	result, err := New().Run(context.Background(), sc, state)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Status != stage.StatusNoOp {
		t.Fatalf("expected no-op, got %+v", result)
	}
	if state.Interviews[0].Status != pipeline.StatusPendingFirstRound {
		t.Fatalf("candidate mutated with no slots: %+v", state.Interviews[0])
	}
}

func TestRunNeverDoubleBooks(t *testing.T) {
	sc := newTestContext(t, "a", "b")
	state := &pipeline.State{Interviews: pending("cand-1", "cand-2", "cand-3")}
	if _, err := New().Run(context.Background(), sc, state); err != nil {
		t.Fatalf("run: %v", err)
	}
	seen := map[string]string{}
	for i := range state.Interviews {
		c := &state.Interviews[i]
		if len(c.History) == 0 {
			continue
		}
		slot := c.History[0].Slot
		if prev, dup := seen[slot]; dup {
			t.Fatalf("slot %s booked by both %s and %s", slot, prev, c.CandidateID)
		}
		seen[slot] = c.CandidateID
	}
	if len(seen) != 2 {
		t.Fatalf("expected both slots consumed, got %v", seen)
	}
}
