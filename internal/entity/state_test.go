package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState() *State {
	state := NewState(Settings{Rounds: 3, DrawTime: 60})
	state.Players = []*Player{
		NewPlayer("host", "Alice", "", true),
		NewPlayer("p2", "Bob", "", false),
		NewPlayer("p3", "Carol", "", false),
	}

	return state
}

func TestState_Redact(t *testing.T) {
	t.Run("masks word and choices from guessers during a live turn", func(t *testing.T) {
		// Given: a drawing turn with a secret word
		state := newTestState()
		state.Phase = PhaseDrawing
		state.Drawer = "p2"
		state.Word = "elephant"
		state.Hint = MaskWord("elephant")
		state.WordChoices = []string{"elephant", "pizza", "rainbow"}

		// When: a guesser's view is produced
		view := state.Redact("p3")

		// Then: the secret is gone but the hint stays
		assert.Empty(t, view.Word)
		assert.Nil(t, view.WordChoices)
		assert.Equal(t, "________", view.Hint)
	})

	t.Run("drawer and host see everything", func(t *testing.T) {
		// Given: a drawing turn
		state := newTestState()
		state.Phase = PhaseDrawing
		state.Drawer = "p2"
		state.Word = "elephant"
		state.WordChoices = []string{"elephant", "pizza", "rainbow"}

		// Then: both privileged views carry the true values
		for _, viewer := range []string{"p2", "host"} {
			view := state.Redact(viewer)
			assert.Equal(t, "elephant", view.Word)
			assert.Equal(t, state.WordChoices, view.WordChoices)
		}
	})

	t.Run("word is revealed to everyone in turn results", func(t *testing.T) {
		// Given: a finished turn
		state := newTestState()
		state.Phase = PhaseTurnResults
		state.Drawer = "p2"
		state.Word = "elephant"

		// When: a guesser's view is produced
		view := state.Redact("p3")

		// Then: the word is visible
		assert.Equal(t, "elephant", view.Word)
	})

	t.Run("does not mutate the original state", func(t *testing.T) {
		// Given: a live turn
		state := newTestState()
		state.Phase = PhaseDrawing
		state.Drawer = "p2"
		state.Word = "elephant"
		state.WordChoices = []string{"elephant"}

		// When: a masked view is produced
		_ = state.Redact("p3")

		// Then: the canonical state is untouched
		assert.Equal(t, "elephant", state.Word)
		assert.Len(t, state.WordChoices, 1)
	})
}

func TestState_Clone(t *testing.T) {
	// Given: a state with players and chat
	state := newTestState()
	state.Chat = append(state.Chat, NewSystemMessage("hello"))

	// When: cloned and the clone is mutated
	clone := state.Clone()
	clone.Players[0].Score = 500
	clone.Chat = append(clone.Chat, NewSystemMessage("more"))

	// Then: the original is unaffected
	assert.Zero(t, state.Players[0].Score)
	assert.Len(t, state.Chat, 1)
}

func TestState_AllNonDrawersGuessed(t *testing.T) {
	t.Run("false while someone is still guessing", func(t *testing.T) {
		state := newTestState()
		state.Drawer = "p2"
		state.Players[0].HasGuessed = true

		assert.False(t, state.AllNonDrawersGuessed())
	})

	t.Run("true when every connected non-drawer guessed", func(t *testing.T) {
		state := newTestState()
		state.Drawer = "p2"
		state.Players[0].HasGuessed = true
		state.Players[2].HasGuessed = true

		assert.True(t, state.AllNonDrawersGuessed())
	})

	t.Run("disconnected players do not block the early end", func(t *testing.T) {
		state := newTestState()
		state.Drawer = "p2"
		state.Players[0].HasGuessed = true
		state.Players[2].IsConnected = false

		assert.True(t, state.AllNonDrawersGuessed())
	})

	t.Run("false with no eligible guessers at all", func(t *testing.T) {
		state := NewState(Settings{Rounds: 1, DrawTime: 60})
		state.Players = []*Player{NewPlayer("p1", "Solo", "", true)}
		state.Drawer = "p1"

		require.False(t, state.AllNonDrawersGuessed())
	})
}
