// Package validation checks gameplay input. Clients validate locally as
// a courtesy before transmitting; the host re-checks authoritatively for
// anything that touches shared state.
package validation

import (
	"fmt"
	"strings"

	"github.com/Chaitanyahoon/DeceptionDoodle/internal/apperror"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/entity"
)

const (
	maxNameLength  = 20
	maxWordLength  = 49
	maxGuessLength = 99

	minRounds   = 1
	maxRounds   = 20
	minDrawTime = 10
	maxDrawTime = 300

	// rough floor: anything shorter cannot be a real canvas export
	minDrawingDataLength = 100
)

func ValidPlayerName(name string) bool {
	trimmed := strings.TrimSpace(name)
	return trimmed != "" && len(trimmed) <= maxNameLength
}

func ValidWordSelection(word string) bool {
	trimmed := strings.TrimSpace(word)
	return trimmed != "" && len(trimmed) <= maxWordLength
}

func ValidGuess(guess string) bool {
	trimmed := strings.TrimSpace(guess)
	return trimmed != "" && len(trimmed) <= maxGuessLength
}

func SanitizeName(name string) string {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) > maxNameLength {
		trimmed = trimmed[:maxNameLength]
	}

	return trimmed
}

func SanitizeMessage(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) > maxGuessLength {
		trimmed = trimmed[:maxGuessLength]
	}

	return trimmed
}

// IsDuplicateGuess reports whether the sender already sent the same
// guess, compared case-insensitively against the chat log.
func IsDuplicateGuess(guess, sender string, history []entity.ChatMessage) bool {
	normalized := strings.ToLower(strings.TrimSpace(guess))
	for _, msg := range history {
		if msg.Sender == sender && strings.ToLower(strings.TrimSpace(msg.Text)) == normalized {
			return true
		}
	}

	return false
}

// ValidateDrawingData - rejects non-image payloads and blank exports.
func ValidateDrawingData(data string) error {
	if !strings.HasPrefix(data, "data:image") {
		return apperror.ErrInvalidDrawing
	}

	if len(data) < minDrawingDataLength {
		return fmt.Errorf("%w: drawing appears to be blank", apperror.ErrInvalidDrawing)
	}

	return nil
}

func ValidateSettings(rounds, drawTime int) error {
	if rounds < minRounds || rounds > maxRounds {
		return fmt.Errorf("%w: rounds must be between %d and %d", apperror.ErrInvalidSettings, minRounds, maxRounds)
	}

	if drawTime < minDrawTime || drawTime > maxDrawTime {
		return fmt.Errorf("%w: draw time must be between %ds and %ds", apperror.ErrInvalidSettings, minDrawTime, maxDrawTime)
	}

	return nil
}
