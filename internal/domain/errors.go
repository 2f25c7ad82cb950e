package domain

import "errors"

// Domain errors
var (
	ErrNicknameConflict  = errors.New("nickname is already taken")
	ErrAlreadySubmitted  = errors.New("already submitted this round")
	ErrGameNotActive     = errors.New("no round is currently active")
	ErrNoSuchPlayer      = errors.New("no player with such nickname")
	ErrMustSubmitFirst   = errors.New("you need to submit first")
	ErrUnknownLanguage   = errors.New("unknown language")
	ErrInvalidTransition = errors.New("invalid phase transition")
	ErrNoPuzzles         = errors.New("puzzle set is empty")
)
