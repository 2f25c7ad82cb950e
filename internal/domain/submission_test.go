package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmission_StartsInProgress(t *testing.T) {
	s := NewSubmission()

	assert.Equal(t, SubmissionInProgress, s.State)
	assert.Empty(t, s.Code)
	assert.Nil(t, s.Language)
	assert.Empty(t, s.Success)
}

func TestSubmission_ForwardTransitions(t *testing.T) {
	s := NewSubmission()
	now := time.Now()

	require.NoError(t, s.MarkPending(now))
	assert.Equal(t, SubmissionPending, s.State)
	assert.Equal(t, now, s.SubmittedAt)

	require.NoError(t, s.MarkFinished([]bool{true, false}))
	assert.Equal(t, SubmissionFinished, s.State)
	assert.Equal(t, []bool{true, false}, s.Success)
}

func TestSubmission_NoRegression(t *testing.T) {
	s := NewSubmission()
	now := time.Now()

	require.NoError(t, s.MarkPending(now))
	assert.ErrorIs(t, s.MarkPending(now), ErrAlreadySubmitted)

	require.NoError(t, s.MarkFinished([]bool{true}))
	assert.ErrorIs(t, s.MarkPending(now), ErrAlreadySubmitted)
	assert.ErrorIs(t, s.MarkFinished([]bool{false}), ErrInvalidTransition)

	// Results from the first grading pass survive
	assert.Equal(t, []bool{true}, s.Success)
}

func TestSubmission_MarkFinishedRequiresPending(t *testing.T) {
	s := NewSubmission()
	assert.ErrorIs(t, s.MarkFinished([]bool{true}), ErrInvalidTransition)
}

func TestSubmission_ViewHidesCode(t *testing.T) {
	s := NewSubmission()
	s.SetCode("print(1)", Language{Name: "python", Version: "3.12"})

	view := s.View()

	assert.Equal(t, len("print(1)"), view.CodeLength)
	assert.Equal(t, "python", view.Language)
	assert.Equal(t, SubmissionInProgress, view.State)
	assert.Zero(t, view.SubmittedAt)
}

func TestSubmission_ViewWithoutLanguage(t *testing.T) {
	s := NewSubmission()

	view := s.View()

	assert.Empty(t, view.Language)
	assert.Zero(t, view.CodeLength)
}
