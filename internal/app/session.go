package app

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"gamecodin/internal/domain"
)

// ClientConnection is a live player connection as the session sees it. Send
// must never block: implementations enqueue on a bounded per-connection
// buffer so one stalled peer cannot delay fan-out to the rest.
type ClientConnection interface {
	ID() string
	Send(message any) error
	Close() error
}

// Grader scores one validator run; it never returns an error
type Grader interface {
	Check(ctx context.Context, code string, language domain.Language, validator domain.Validator) (bool, string)
}

// Durations are the fixed phase lengths of the round cycle
type Durations struct {
	Intermission time.Duration
	Round        time.Duration
	Grace        time.Duration
}

// playerRecord is the persistent identity of a nickname: the reconnection
// token and, when connected, the ID of the live connection
type playerRecord struct {
	token  string
	connID string
}

// GameSession owns the singleton Game aggregate. Every read-modify-write of
// shared state happens under mu; grading runs a network call and is never
// performed while holding it. The session also runs the round clock and fans
// state out to connected clients.
type GameSession struct {
	mu        sync.Mutex
	game      *domain.Game
	records   map[string]*playerRecord // nickname -> identity
	puzzles   []domain.Puzzle
	languages *domain.LanguageRegistry

	clientsMu sync.RWMutex
	clients   map[string]ClientConnection // nickname -> active connection

	grader    Grader
	clock     Clock
	durations Durations
	logger    *slog.Logger
}

// NewGameSession creates the session. An initial puzzle is installed so that
// snapshots sent during the first intermission already have content.
func NewGameSession(puzzles []domain.Puzzle, languages *domain.LanguageRegistry, grader Grader, clock Clock, durations Durations, logger *slog.Logger) *GameSession {
	game := domain.NewGame()
	game.Puzzle = &puzzles[rand.Intn(len(puzzles))]

	return &GameSession{
		game:      game,
		records:   make(map[string]*playerRecord),
		puzzles:   puzzles,
		languages: languages,
		clients:   make(map[string]ClientConnection),
		grader:    grader,
		clock:     clock,
		durations: durations,
		logger:    logger,
	}
}

// Run drives the round cycle until ctx is cancelled:
// intermission → active → (grace) → finishing → intermission ...
func (s *GameSession) Run(ctx context.Context) {
	for {
		start := s.ScheduleNextRound()
		if !s.sleep(ctx, start.Sub(s.clock.Now())) {
			return
		}

		s.StartRound()
		if !s.sleep(ctx, s.durations.Round+s.durations.Grace) {
			return
		}

		s.FinishRound(ctx)
	}
}

func (s *GameSession) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-s.clock.After(d):
		return true
	}
}

// ScheduleNextRound computes the next round's timestamps and announces them
// with a game_end broadcast. Returns the round start time.
func (s *GameSession) ScheduleNextRound() time.Time {
	s.mu.Lock()
	start := s.clock.Now().Add(s.durations.Intermission)
	end := start.Add(s.durations.Round)
	if err := s.game.ScheduleRound(start, end); err != nil {
		s.logger.Error("failed to schedule round", "error", err)
	}
	s.mu.Unlock()

	s.broadcast(domain.NewGameEndMessage(start.Unix()))
	return start
}

// StartRound opens a new round: a puzzle is picked uniformly at random
// (repeats across rounds are allowed), every registered nickname gets a fresh
// Submission and the full snapshot is broadcast.
func (s *GameSession) StartRound() {
	s.mu.Lock()
	puzzle := &s.puzzles[rand.Intn(len(s.puzzles))]

	registered := make([]string, 0, len(s.records))
	for nickname := range s.records {
		registered = append(registered, nickname)
	}

	if err := s.game.StartRound(puzzle, registered); err != nil {
		s.mu.Unlock()
		s.logger.Error("failed to start round", "error", err)
		return
	}

	info := s.gameInfoLocked()
	s.mu.Unlock()

	s.logger.Info("round started", "puzzle", puzzle.Title, "players", len(registered))
	s.broadcast(info)
}

// FinishRound closes the round and force-submits every straggler whose
// submission is still in_progress, grading their last saved code exactly as
// an explicit submit would. Already pending or finished submissions are left
// untouched. Returns once all forced submissions completed.
func (s *GameSession) FinishRound(ctx context.Context) {
	s.mu.Lock()
	if err := s.game.BeginFinishing(); err != nil {
		s.mu.Unlock()
		s.logger.Error("failed to finish round", "error", err)
		return
	}
	stragglers := s.game.InProgress()
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, nickname := range stragglers {
		wg.Add(1)
		go func(nickname string) {
			defer wg.Done()
			if err := s.Submit(ctx, nickname); err != nil {
				// Raced with an explicit submit; the explicit one won.
				s.logger.Debug("forced submission skipped", "nickname", nickname, "error", err)
			}
		}(nickname)
	}
	wg.Wait()

	s.mu.Lock()
	if err := s.game.BeginIntermission(); err != nil {
		s.logger.Error("failed to begin intermission", "error", err)
	}
	s.mu.Unlock()

	s.logger.Info("round finished", "forced", len(stragglers))
}

// Authenticate resolves a handshake. A new nickname registers and gets a
// fresh Submission. A known nickname with the right token reconnects and
// adopts its existing Submission; a stale live connection for that nickname
// is evicted first. A known nickname with the wrong token is refused.
// On success the joining connection receives the current game snapshot.
func (s *GameSession) Authenticate(nickname, token string, conn ClientConnection) error {
	s.mu.Lock()
	record, exists := s.records[nickname]

	switch {
	case !exists:
		s.records[nickname] = &playerRecord{token: token, connID: conn.ID()}
		s.game.AddPlayer(nickname)
	case record.token != token:
		s.mu.Unlock()
		return domain.ErrNicknameConflict
	default:
		record.connID = conn.ID()
		s.game.AddPlayer(nickname)
	}

	info := s.gameInfoLocked()
	s.mu.Unlock()

	s.clientsMu.Lock()
	evicted := s.clients[nickname]
	s.clients[nickname] = conn
	s.clientsMu.Unlock()

	if evicted != nil && evicted.ID() != conn.ID() {
		evicted.Send(domain.NewErrorMessage("Nickname connected from another session"))
		evicted.Close()
		s.logger.Info("stale connection evicted", "nickname", nickname, "conn", evicted.ID())
	}

	s.logger.Info("player authenticated", "nickname", nickname, "reconnect", exists)
	return conn.Send(info)
}

// Disconnect removes a connection from the session. The nickname leaves the
// active roster but its record and Submission persist for reconnection. A
// connection that was already evicted by a newer one changes nothing.
func (s *GameSession) Disconnect(nickname string, conn ClientConnection) {
	s.clientsMu.Lock()
	current, ok := s.clients[nickname]
	if !ok || current.ID() != conn.ID() {
		s.clientsMu.Unlock()
		return
	}
	delete(s.clients, nickname)
	s.clientsMu.Unlock()

	s.mu.Lock()
	if record, exists := s.records[nickname]; exists && record.connID == conn.ID() {
		record.connID = ""
	}
	s.game.RemovePlayer(nickname)
	s.mu.Unlock()

	s.logger.Info("player disconnected", "nickname", nickname)
}

// UpdateCode stores a player's latest code and language. Only valid while a
// round is active.
func (s *GameSession) UpdateCode(nickname, code, languageName string) error {
	language, err := s.languages.Lookup(languageName)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.UpdateCode(nickname, code, language)
}

// Submit grades a player's current submission against the puzzle's secret
// validators. The pending transition and its broadcast happen under the
// aggregate lock; the grading calls themselves do not, so a slow engine never
// blocks other players. The in_progress→pending gate guarantees at most one
// grading pass per submission, whoever triggers it.
func (s *GameSession) Submit(ctx context.Context, nickname string) error {
	s.mu.Lock()
	submission, err := s.game.SubmissionOf(nickname)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := submission.MarkPending(s.clock.Now()); err != nil {
		s.mu.Unlock()
		return err
	}

	code := submission.Code
	language := submission.Language
	validators := s.game.Puzzle.Validators
	pendingInfo := domain.NewSubmissionInfoMessage(nickname, submission.View())
	s.mu.Unlock()

	s.broadcast(pendingInfo)

	results := s.grade(ctx, code, language, validators)

	s.mu.Lock()
	if err := submission.MarkFinished(results); err != nil {
		s.mu.Unlock()
		return err
	}
	finishedInfo := domain.NewSubmissionInfoMessage(nickname, submission.View())
	s.mu.Unlock()

	s.broadcast(finishedInfo)
	s.logger.Info("submission graded", "nickname", nickname, "results", results)
	return nil
}

// grade runs the validators sequentially in puzzle order; the result list
// aligns one-to-one with the validator list
func (s *GameSession) grade(ctx context.Context, code string, language *domain.Language, validators []domain.Validator) []bool {
	results := make([]bool, 0, len(validators))
	for _, validator := range validators {
		if language == nil {
			// Never picked a language; nothing runnable to grade.
			results = append(results, false)
			continue
		}
		ok, _ := s.grader.Check(ctx, code, *language, validator)
		results = append(results, ok)
	}
	return results
}

// RunTest is the private dry-run: the given code is executed against the
// puzzle's public testcases only. No phase restriction, no state mutated,
// nothing broadcast; results go back to the requester alone.
func (s *GameSession) RunTest(ctx context.Context, nickname, code, languageName string) ([]bool, error) {
	language, err := s.languages.Lookup(languageName)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if _, err := s.game.SubmissionOf(nickname); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	testcases := s.game.Puzzle.Testcases
	s.mu.Unlock()

	results := s.grade(ctx, code, &language, testcases)
	return results, nil
}

// GetSubmissionCode returns the target player's code, provided the requester
// has already submitted this round
func (s *GameSession) GetSubmissionCode(requester, target string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.CodeOf(requester, target)
}

// gameInfoLocked builds the full snapshot; caller must hold mu
func (s *GameSession) gameInfoLocked() *domain.GameInfoMessage {
	return &domain.GameInfoMessage{
		ID:                 domain.MsgGameInfo,
		State:              s.game.Phase,
		StartTime:          s.game.StartTime.Unix(),
		EndTime:            s.game.EndTime.Unix(),
		DelayBetweenGames:  int(s.durations.Intermission.Seconds()),
		AvailableLanguages: s.languages.All(),
		Submissions:        s.game.SubmissionViews(),
		Puzzle:             s.game.Puzzle.Public(),
	}
}

// broadcast fans a message out to every connected client. Send enqueues on a
// bounded per-connection buffer, so a stalled peer drops messages instead of
// delaying everyone else.
func (s *GameSession) broadcast(message any) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for nickname, client := range s.clients {
		if err := client.Send(message); err != nil {
			s.logger.Debug("failed to send to client", "nickname", nickname, "error", err)
		}
	}
}

// Phase returns the current game phase
func (s *GameSession) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Phase
}

// PlayerCount returns the number of currently connected players
func (s *GameSession) PlayerCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// PuzzleTitle returns the current puzzle's title
func (s *GameSession) PuzzleTitle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Puzzle.Title
}
