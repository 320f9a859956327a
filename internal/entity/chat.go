package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChatKindChat   = "CHAT"
	ChatKindGuess  = "GUESS"
	ChatKindSystem = "SYSTEM"
)

type ChatMessage struct {
	ID         string `json:"id"`
	Sender     string `json:"sender"`
	SenderName string `json:"sender_name"`
	Text       string `json:"text"`
	Kind       string `json:"kind"`
	Correct    bool   `json:"correct,omitempty"`
	SentAt     int64  `json:"sent_at"`
}

func NewChatMessage(sender, senderName, text, kind string) ChatMessage {
	return ChatMessage{
		ID:         uuid.NewString(),
		Sender:     sender,
		SenderName: senderName,
		Text:       text,
		Kind:       kind,
		SentAt:     time.Now().UnixMilli(),
	}
}

// NewSystemMessage - host-synthesized narration (joins, turn starts, correct guesses).
func NewSystemMessage(text string) ChatMessage {
	return ChatMessage{
		ID:     uuid.NewString(),
		Text:   text,
		Kind:   ChatKindSystem,
		SentAt: time.Now().UnixMilli(),
	}
}
