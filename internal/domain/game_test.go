package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPuzzle() *Puzzle {
	return &Puzzle{
		Title:     "Echo",
		Statement: "Print the input.",
		Validators: []Validator{
			{Input: "1", Output: "1"},
		},
		Testcases: []Validator{
			{Input: "2", Output: "2"},
		},
	}
}

func activeGame(t *testing.T, nicknames ...string) *Game {
	t.Helper()
	g := NewGame()
	for _, n := range nicknames {
		g.AddPlayer(n)
	}
	require.NoError(t, g.StartRound(testPuzzle(), nicknames))
	return g
}

func TestGame_AddPlayerCreatesSubmissionOnce(t *testing.T) {
	g := NewGame()

	first := g.AddPlayer("alice")
	again := g.AddPlayer("alice")

	assert.Same(t, first, again)
	assert.Equal(t, []string{"alice"}, g.Players)
}

func TestGame_RemovePlayerKeepsSubmission(t *testing.T) {
	g := activeGame(t, "alice", "bob")

	g.RemovePlayer("alice")

	assert.Equal(t, []string{"bob"}, g.Players)
	_, err := g.SubmissionOf("alice")
	assert.NoError(t, err)
}

func TestGame_StartRoundReplacesSubmissions(t *testing.T) {
	g := activeGame(t, "alice")
	old, err := g.SubmissionOf("alice")
	require.NoError(t, err)
	require.NoError(t, old.MarkPending(time.Now()))

	require.NoError(t, g.BeginFinishing())
	require.NoError(t, g.BeginIntermission())
	require.NoError(t, g.StartRound(testPuzzle(), []string{"alice", "bob"}))

	fresh, err := g.SubmissionOf("alice")
	require.NoError(t, err)
	assert.NotSame(t, old, fresh)
	assert.Equal(t, SubmissionInProgress, fresh.State)

	// Registered but disconnected nicknames get a record too
	_, err = g.SubmissionOf("bob")
	assert.NoError(t, err)
}

func TestGame_PhaseTransitionsLoop(t *testing.T) {
	g := NewGame()
	require.NoError(t, g.ScheduleRound(time.Now(), time.Now().Add(time.Hour)))
	require.NoError(t, g.StartRound(testPuzzle(), nil))
	assert.ErrorIs(t, g.StartRound(testPuzzle(), nil), ErrInvalidTransition)

	require.NoError(t, g.BeginFinishing())
	assert.ErrorIs(t, g.BeginFinishing(), ErrInvalidTransition)

	require.NoError(t, g.BeginIntermission())
	assert.Equal(t, PhaseIntermission, g.Phase)
}

func TestGame_UpdateCodeRequiresActivePhase(t *testing.T) {
	g := NewGame()
	g.AddPlayer("alice")

	err := g.UpdateCode("alice", "code", Language{Name: "python"})
	assert.ErrorIs(t, err, ErrGameNotActive)

	require.NoError(t, g.StartRound(testPuzzle(), []string{"alice"}))
	require.NoError(t, g.UpdateCode("alice", "code", Language{Name: "python"}))

	sub, err := g.SubmissionOf("alice")
	require.NoError(t, err)
	assert.Equal(t, "code", sub.Code)
	assert.Equal(t, "python", sub.Language.Name)
}

func TestGame_UpdateCodeUnknownPlayer(t *testing.T) {
	g := activeGame(t, "alice")

	err := g.UpdateCode("ghost", "code", Language{Name: "python"})
	assert.ErrorIs(t, err, ErrNoSuchPlayer)
}

func TestGame_CodeOfRequiresOwnSubmissionFirst(t *testing.T) {
	g := activeGame(t, "alice", "bob")

	_, err := g.CodeOf("alice", "bob")
	assert.ErrorIs(t, err, ErrMustSubmitFirst)

	// The gate applies regardless of target validity
	_, err = g.CodeOf("alice", "ghost")
	assert.ErrorIs(t, err, ErrMustSubmitFirst)
}

func TestGame_CodeOfAfterSubmitting(t *testing.T) {
	g := activeGame(t, "alice", "bob")
	require.NoError(t, g.UpdateCode("bob", "print(1)", Language{Name: "python"}))

	own, err := g.SubmissionOf("alice")
	require.NoError(t, err)
	require.NoError(t, own.MarkPending(time.Now()))

	code, err := g.CodeOf("alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, "print(1)", code)

	_, err = g.CodeOf("alice", "ghost")
	assert.ErrorIs(t, err, ErrNoSuchPlayer)
}

func TestGame_InProgressListsOnlyStragglers(t *testing.T) {
	g := activeGame(t, "alice", "bob", "carol")

	bob, err := g.SubmissionOf("bob")
	require.NoError(t, err)
	require.NoError(t, bob.MarkPending(time.Now()))
	require.NoError(t, bob.MarkFinished([]bool{true}))

	carol, err := g.SubmissionOf("carol")
	require.NoError(t, err)
	require.NoError(t, carol.MarkPending(time.Now()))

	assert.ElementsMatch(t, []string{"alice"}, g.InProgress())
}

func TestGame_SubmissionViews(t *testing.T) {
	g := activeGame(t, "alice", "bob")

	views := g.SubmissionViews()

	assert.Len(t, views, 2)
	assert.Contains(t, views, "alice")
	assert.Contains(t, views, "bob")
}
