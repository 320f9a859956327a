package entity

import "math/rand"

const hintRune = '_'

// MaskWord - replaces every non-space character with an underscore,
// preserving spaces, so the hint always matches the word's shape.
func MaskWord(word string) string {
	masked := []rune(word)
	for i, r := range masked {
		if r != ' ' {
			masked[i] = hintRune
		}
	}

	return string(masked)
}

// RevealHintRune - reveals one random still-hidden character of the hint.
// Returns the hint unchanged when nothing is left to reveal.
func RevealHintRune(hint, word string) string {
	hintRunes := []rune(hint)
	wordRunes := []rune(word)
	if len(hintRunes) != len(wordRunes) {
		return hint
	}

	var hidden []int
	for i, r := range hintRunes {
		if r == hintRune {
			hidden = append(hidden, i)
		}
	}

	if len(hidden) == 0 {
		return hint
	}

	pick := hidden[rand.Intn(len(hidden))] //nolint: gosec // it's ok
	hintRunes[pick] = wordRunes[pick]

	return string(hintRunes)
}

// RevealedCount - how many characters of the hint are visible, spaces excluded.
func RevealedCount(hint string) int {
	count := 0
	for _, r := range hint {
		if r != hintRune && r != ' ' {
			count++
		}
	}

	return count
}
