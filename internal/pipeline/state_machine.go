package pipeline

import "fmt"

// InitInterviews seeds the interview set from screening output. Every
// shortlisted candidate enters at pending_first_round with an empty history;
// rejected candidates never join the interview set and remain visible only
// through their ScreeningResult. Input order is preserved.
func InitInterviews(results []ScreeningResult) []CandidateInterview {
	interviews := make([]CandidateInterview, 0, len(results))
	for _, result := range results {
		if result.Decision != DecisionShortlist {
			continue
		}
		interviews = append(interviews, CandidateInterview{
			CandidateID:  result.CandidateID,
			Status:       StatusPendingFirstRound,
			CurrentRound: 0,
			History:      []InterviewRound{},
		})
	}
	return interviews
}

// BeginRound records a confirmed slot booking: the round counter advances, an
// unresolved round is appended to the history, and the candidate moves to
// waiting_feedback. Only scheduling-eligible candidates may begin a round.
func (c *CandidateInterview) BeginRound(slot string) error {
	if !c.Status.SchedulingEligible() {
		return newInvariantError("candidate %s: begin round from status %s", c.CandidateID, c.Status)
	}
	c.CurrentRound++
	c.History = append(c.History, InterviewRound{
		RoundNumber: c.CurrentRound,
		Slot:        slot,
	})
	c.Status = StatusWaitingFeedback
	return nil
}

// ResolveRound writes feedback and a step decision into the candidate's most
// recent round and advances the status per the decision. The round record is
// mutated in place; resolving never appends.
func (c *CandidateInterview) ResolveRound(feedback string, decision StepDecision) error {
	if c.Status != StatusWaitingFeedback {
		return newInvariantError("candidate %s: resolve round from status %s", c.CandidateID, c.Status)
	}
	last, ok := c.LastRound()
	if !ok {
		return newInvariantError("candidate %s: waiting for feedback with empty history", c.CandidateID)
	}
	next, err := decision.status()
	if err != nil {
		return err
	}
	last.Feedback = feedback
	last.Decision = decision
	c.Status = next
	return nil
}

// Validate checks the structural invariants of a single interview record.
func (c *CandidateInterview) Validate() error {
	if !c.Status.IsValid() {
		return newInvariantError("candidate %s: unknown status %q", c.CandidateID, c.Status)
	}
	if c.CurrentRound != len(c.History) {
		return newInvariantError("candidate %s: current_round %d does not match %d recorded rounds",
			c.CandidateID, c.CurrentRound, len(c.History))
	}
	for i, round := range c.History {
		if round.RoundNumber != i+1 {
			return newInvariantError("candidate %s: round at index %d numbered %d", c.CandidateID, i, round.RoundNumber)
		}
	}
	if c.Status == StatusWaitingFeedback && len(c.History) == 0 {
		return newInvariantError("candidate %s: waiting for feedback with empty history", c.CandidateID)
	}
	return nil
}

// Validate checks every interview record in the aggregate and rejects
// duplicate candidate IDs.
func (s *State) Validate() error {
	seen := make(map[string]struct{}, len(s.Interviews))
	for i := range s.Interviews {
		c := &s.Interviews[i]
		if _, dup := seen[c.CandidateID]; dup {
			return newInvariantError("candidate %s appears twice in the interview set", c.CandidateID)
		}
		seen[c.CandidateID] = struct{}{}
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Settled reports whether every candidate has reached a terminal status.
func (s *State) Settled() bool {
	for i := range s.Interviews {
		if !s.Interviews[i].Status.Terminal() {
			return false
		}
	}
	return true
}

func newInvariantError(format string, args ...any) error {
	return &InvariantError{Detail: fmt.Sprintf(format, args...)}
}
