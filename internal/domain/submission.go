package domain

import "time"

// SubmissionState represents the lifecycle state of a submission.
// Transitions only move forward: in_progress → pending → finished.
type SubmissionState string

const (
	SubmissionInProgress SubmissionState = "in_progress" // Player still writing code
	SubmissionPending    SubmissionState = "pending"     // Submitted, grading in flight
	SubmissionFinished   SubmissionState = "finished"    // Graded, results final
)

// Submission is one player's code/result record for the current round.
// A fresh Submission is created per nickname each round and never reused.
type Submission struct {
	Code        string
	Language    *Language // nil until the first update_code
	Success     []bool    // one entry per secret validator, in validator order
	State       SubmissionState
	SubmittedAt time.Time
}

// NewSubmission creates a submission in the in_progress state
func NewSubmission() *Submission {
	return &Submission{
		Code:    "",
		Success: []bool{},
		State:   SubmissionInProgress,
	}
}

// SetCode stores the player's latest code and language
func (s *Submission) SetCode(code string, language Language) {
	s.Code = code
	s.Language = &language
}

// MarkPending moves the submission from in_progress to pending and stamps
// the submission time. Any other starting state fails with ErrAlreadySubmitted,
// which is what guarantees grading runs at most once per submission.
func (s *Submission) MarkPending(now time.Time) error {
	if s.State != SubmissionInProgress {
		return ErrAlreadySubmitted
	}
	s.State = SubmissionPending
	s.SubmittedAt = now
	return nil
}

// MarkFinished records the grading results and moves pending to finished
func (s *Submission) MarkFinished(results []bool) error {
	if s.State != SubmissionPending {
		return ErrInvalidTransition
	}
	s.Success = results
	s.State = SubmissionFinished
	return nil
}

// SubmissionView is the public view of a submission broadcast to all players.
// It exposes the code length but never the code itself.
type SubmissionView struct {
	CodeLength  int             `json:"code_length"`
	Language    string          `json:"language"`
	Success     []bool          `json:"success"`
	State       SubmissionState `json:"state"`
	SubmittedAt int64           `json:"finished_time"`
}

// View returns the public view of the submission
func (s *Submission) View() SubmissionView {
	language := ""
	if s.Language != nil {
		language = s.Language.Name
	}

	var submittedAt int64
	if !s.SubmittedAt.IsZero() {
		submittedAt = s.SubmittedAt.Unix()
	}

	return SubmissionView{
		CodeLength:  len(s.Code),
		Language:    language,
		Success:     s.Success,
		State:       s.State,
		SubmittedAt: submittedAt,
	}
}
