package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskWord(t *testing.T) {
	t.Run("masks every letter", func(t *testing.T) {
		assert.Equal(t, "________", MaskWord("elephant"))
	})

	t.Run("preserves spaces", func(t *testing.T) {
		assert.Equal(t, "___ _____", MaskWord("ice cream"))
	})
}

func TestRevealHintRune(t *testing.T) {
	t.Run("reveals exactly one matching character per call", func(t *testing.T) {
		// Given: a fully masked word
		word := "pizza"
		hint := MaskWord(word)

		// When: characters are revealed one at a time
		for i := 1; i <= len(word); i++ {
			hint = RevealHintRune(hint, word)

			// Then: the count grows by one and revealed runes match the word
			require.Equal(t, i, RevealedCount(hint))
			for j, r := range hint {
				if r != hintRune {
					assert.Equal(t, rune(word[j]), r)
				}
			}
		}
	})

	t.Run("fully revealed hint stays unchanged", func(t *testing.T) {
		assert.Equal(t, "cat", RevealHintRune("cat", "cat"))
	})

	t.Run("length mismatch is a no-op", func(t *testing.T) {
		assert.Equal(t, "___", RevealHintRune("___", "elephant"))
	})
}
