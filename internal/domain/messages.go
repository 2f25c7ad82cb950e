package domain

// Outbound message tags. Every server→client message is a flat JSON object
// carrying one of these in its "id" field.
const (
	MsgGameInfo       = "game_info"
	MsgSubmissionInfo = "submission_info"
	MsgSubmissionCode = "submission_code"
	MsgTestResults    = "test_results"
	MsgGameEnd        = "game_end"
	MsgErrorMessage   = "error_message"
)

// GameInfoMessage is the full game snapshot: sent to a player right after
// authentication and broadcast to everyone at round start.
type GameInfoMessage struct {
	ID                 string                    `json:"id"`
	State              Phase                     `json:"state"`
	StartTime          int64                     `json:"start_time"`
	EndTime            int64                     `json:"end_time"`
	DelayBetweenGames  int                       `json:"delay_between_games"`
	AvailableLanguages []Language                `json:"available_languages"`
	Submissions        map[string]SubmissionView `json:"submissions"`
	Puzzle             PuzzleInfo                `json:"puzzle"`
}

// SubmissionInfoMessage carries one player's submission view. It goes out
// twice per submission: once when grading starts, once with final results.
type SubmissionInfoMessage struct {
	ID             string         `json:"id"`
	PlayerNickname string         `json:"player_nickname"`
	Submission     SubmissionView `json:"submission"`
}

// SubmissionCodeMessage is the private reply to a get_submission_code request
type SubmissionCodeMessage struct {
	ID             string `json:"id"`
	PlayerNickname string `json:"player_nickname"`
	Submission     string `json:"submission"`
}

// TestResultsMessage is the private reply to a run_test request
type TestResultsMessage struct {
	ID      string `json:"id"`
	Results []bool `json:"results"`
}

// GameEndMessage announces the end of a round and when the next one starts
type GameEndMessage struct {
	ID                string `json:"id"`
	NextGameStartTime int64  `json:"next_game_start_time"`
}

// ErrorMessage is a private error reply to the offending player
type ErrorMessage struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// NewSubmissionInfoMessage builds a submission_info message
func NewSubmissionInfoMessage(nickname string, view SubmissionView) *SubmissionInfoMessage {
	return &SubmissionInfoMessage{
		ID:             MsgSubmissionInfo,
		PlayerNickname: nickname,
		Submission:     view,
	}
}

// NewGameEndMessage builds a game_end message
func NewGameEndMessage(nextStart int64) *GameEndMessage {
	return &GameEndMessage{
		ID:                MsgGameEnd,
		NextGameStartTime: nextStart,
	}
}

// NewErrorMessage builds an error_message reply
func NewErrorMessage(text string) *ErrorMessage {
	return &ErrorMessage{
		ID:    MsgErrorMessage,
		Error: text,
	}
}
