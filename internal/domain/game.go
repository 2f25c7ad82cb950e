package domain

import "time"

// Game is the singleton aggregate holding all shared mutable state: the
// current phase, round timestamps, the active puzzle, the roster of connected
// players and every nickname's Submission for the current round. It lives for
// the whole server run; rounds replace its submissions but never tear it down.
//
// Game itself is not safe for concurrent use; the owning session serializes
// all access.
type Game struct {
	Phase       Phase
	StartTime   time.Time
	EndTime     time.Time
	Puzzle      *Puzzle
	Players     []string // connected nicknames, in join order
	Submissions map[string]*Submission
}

// NewGame creates a game waiting for its first round
func NewGame() *Game {
	return &Game{
		Phase:       PhaseIntermission,
		Players:     make([]string, 0),
		Submissions: make(map[string]*Submission),
	}
}

// AddPlayer puts a nickname on the active roster. A nickname joining for the
// first time this round gets a fresh Submission; a reconnecting nickname
// keeps its existing one untouched.
func (g *Game) AddPlayer(nickname string) *Submission {
	if !g.isActivePlayer(nickname) {
		g.Players = append(g.Players, nickname)
	}

	submission, ok := g.Submissions[nickname]
	if !ok {
		submission = NewSubmission()
		g.Submissions[nickname] = submission
	}
	return submission
}

// RemovePlayer takes a nickname off the active roster. The Submission stays
// behind so a reconnection resumes where the player left off.
func (g *Game) RemovePlayer(nickname string) {
	for i, n := range g.Players {
		if n == nickname {
			g.Players = append(g.Players[:i], g.Players[i+1:]...)
			return
		}
	}
}

func (g *Game) isActivePlayer(nickname string) bool {
	for _, n := range g.Players {
		if n == nickname {
			return true
		}
	}
	return false
}

// ScheduleRound sets the next round's timestamps during intermission
func (g *Game) ScheduleRound(start, end time.Time) error {
	if g.Phase != PhaseIntermission {
		return ErrInvalidTransition
	}
	g.StartTime = start
	g.EndTime = end
	return nil
}

// StartRound begins a new round: the puzzle is installed and every registered
// nickname gets a fresh Submission, connected or not, so a mid-round
// reconnection always finds a current-round record.
func (g *Game) StartRound(puzzle *Puzzle, registered []string) error {
	if !g.Phase.CanTransitionTo(PhaseActive) {
		return ErrInvalidTransition
	}

	g.Puzzle = puzzle
	g.Submissions = make(map[string]*Submission, len(registered))
	for _, nickname := range registered {
		g.Submissions[nickname] = NewSubmission()
	}
	g.Phase = PhaseActive
	return nil
}

// BeginFinishing closes the round to new code; stragglers get force-submitted
func (g *Game) BeginFinishing() error {
	if !g.Phase.CanTransitionTo(PhaseFinishing) {
		return ErrInvalidTransition
	}
	g.Phase = PhaseFinishing
	return nil
}

// BeginIntermission returns the game to the waiting state between rounds
func (g *Game) BeginIntermission() error {
	if !g.Phase.CanTransitionTo(PhaseIntermission) {
		return ErrInvalidTransition
	}
	g.Phase = PhaseIntermission
	return nil
}

// UpdateCode stores code and language on a player's current Submission.
// Only permitted while a round is active.
func (g *Game) UpdateCode(nickname, code string, language Language) error {
	if g.Phase != PhaseActive {
		return ErrGameNotActive
	}

	submission, ok := g.Submissions[nickname]
	if !ok {
		return ErrNoSuchPlayer
	}

	submission.SetCode(code, language)
	return nil
}

// SubmissionOf returns the current-round Submission for a nickname
func (g *Game) SubmissionOf(nickname string) (*Submission, error) {
	submission, ok := g.Submissions[nickname]
	if !ok {
		return nil, ErrNoSuchPlayer
	}
	return submission, nil
}

// CodeOf returns the target's submitted code. The requester must have
// submitted (or been force-submitted) first; viewing others' code while your
// own submission is still in_progress is refused.
func (g *Game) CodeOf(requester, target string) (string, error) {
	own, ok := g.Submissions[requester]
	if !ok {
		return "", ErrNoSuchPlayer
	}
	if own.State == SubmissionInProgress {
		return "", ErrMustSubmitFirst
	}

	targetSubmission, ok := g.Submissions[target]
	if !ok {
		return "", ErrNoSuchPlayer
	}
	return targetSubmission.Code, nil
}

// InProgress lists every nickname whose submission is still in_progress.
// These are the stragglers force-submitted at round end; pending and finished
// submissions are left alone so grading never runs twice.
func (g *Game) InProgress() []string {
	stragglers := make([]string, 0)
	for nickname, submission := range g.Submissions {
		if submission.State == SubmissionInProgress {
			stragglers = append(stragglers, nickname)
		}
	}
	return stragglers
}

// SubmissionViews returns the public view of every submission keyed by nickname
func (g *Game) SubmissionViews() map[string]SubmissionView {
	views := make(map[string]SubmissionView, len(g.Submissions))
	for nickname, submission := range g.Submissions {
		views[nickname] = submission.View()
	}
	return views
}
