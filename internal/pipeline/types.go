package pipeline

import "fmt"

// ScreeningDecision is the outcome of scoring a resume against a job
// description.
type ScreeningDecision string

const (
	DecisionShortlist ScreeningDecision = "shortlist"
	DecisionReject    ScreeningDecision = "reject"
)

// IsValid reports whether the decision is a known screening outcome.
func (d ScreeningDecision) IsValid() bool {
	switch d {
	case DecisionShortlist, DecisionReject:
		return true
	default:
		return false
	}
}

// CandidateStatus tracks where a shortlisted candidate sits in the interview
// lifecycle.
type CandidateStatus string

const (
	StatusPendingFirstRound CandidateStatus = "pending_first_round"
	StatusWaitingFeedback   CandidateStatus = "waiting_feedback"
	StatusNextRoundPending  CandidateStatus = "next_round_pending"
	StatusRejected          CandidateStatus = "rejected"
	StatusOfferMade         CandidateStatus = "offer_made"
)

// IsValid reports whether the status is part of the lifecycle.
func (s CandidateStatus) IsValid() bool {
	switch s {
	case StatusPendingFirstRound, StatusWaitingFeedback, StatusNextRoundPending, StatusRejected, StatusOfferMade:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transitions may occur.
func (s CandidateStatus) Terminal() bool {
	return s == StatusRejected || s == StatusOfferMade
}

// SchedulingEligible reports whether a scheduling tick may book a slot for a
// candidate in this status.
func (s CandidateStatus) SchedulingEligible() bool {
	return s == StatusPendingFirstRound || s == StatusNextRoundPending
}

// StepDecision is the verdict the decision policy returns for a completed
// interview round.
type StepDecision string

const (
	StepNextRound StepDecision = "next_round"
	StepReject    StepDecision = "reject"
	StepOffer     StepDecision = "offer"
)

// IsValid reports whether the decision is one the state machine understands.
func (d StepDecision) IsValid() bool {
	switch d {
	case StepNextRound, StepReject, StepOffer:
		return true
	default:
		return false
	}
}

// status returns the candidate status a step decision transitions into.
func (d StepDecision) status() (CandidateStatus, error) {
	switch d {
	case StepNextRound:
		return StatusNextRoundPending, nil
	case StepReject:
		return StatusRejected, nil
	case StepOffer:
		return StatusOfferMade, nil
	default:
		return "", fmt.Errorf("pipeline: unknown step decision %q", d)
	}
}

// ScreeningResult records one candidate's pass through the screening stage.
// Results are immutable once emitted.
type ScreeningResult struct {
	CandidateID string            `json:"candidate_id"`
	Score       float64           `json:"score"`
	Decision    ScreeningDecision `json:"decision"`
	Reasons     string            `json:"reasons"`
}

// InterviewRound is one scheduling+feedback cycle in a candidate's history.
// Feedback and Decision stay empty until the feedback stage resolves the
// round.
type InterviewRound struct {
	RoundNumber int          `json:"round_number"`
	Slot        string       `json:"slot"`
	Feedback    string       `json:"feedback,omitempty"`
	Decision    StepDecision `json:"decision,omitempty"`
}

// CandidateInterview is the mutable per-candidate record the stages advance.
type CandidateInterview struct {
	CandidateID  string           `json:"candidate_id"`
	Status       CandidateStatus  `json:"status"`
	CurrentRound int              `json:"current_round"`
	History      []InterviewRound `json:"history"`
}

// LastRound returns the most recent round in the candidate's history.
func (c *CandidateInterview) LastRound() (*InterviewRound, bool) {
	if len(c.History) == 0 {
		return nil, false
	}
	return &c.History[len(c.History)-1], true
}

// State is the aggregate a single workflow run owns end to end.
type State struct {
	JobDescription   string               `json:"job_description"`
	Resumes          []string             `json:"resumes"`
	ScreeningResults []ScreeningResult    `json:"screening_results"`
	Interviews       []CandidateInterview `json:"interviews"`
	Report           string               `json:"report,omitempty"`
}

// Interview returns a pointer to the interview record for the given
// candidate, or nil when the candidate never reached the interview set.
func (s *State) Interview(candidateID string) *CandidateInterview {
	for i := range s.Interviews {
		if s.Interviews[i].CandidateID == candidateID {
			return &s.Interviews[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the aggregate. Observers get clones so a
// running stage never races a reader.
func (s *State) Clone() State {
	clone := State{
		JobDescription:   s.JobDescription,
		Report:           s.Report,
		Resumes:          append([]string(nil), s.Resumes...),
		ScreeningResults: append([]ScreeningResult(nil), s.ScreeningResults...),
		Interviews:       make([]CandidateInterview, len(s.Interviews)),
	}
	for i := range s.Interviews {
		c := s.Interviews[i]
		c.History = append([]InterviewRound(nil), c.History...)
		clone.Interviews[i] = c
	}
	return clone
}

// CandidateID derives the deterministic identifier for the resume at the
// given zero-based position.
func CandidateID(position int) string {
	return fmt.Sprintf("cand-%d", position+1)
}
