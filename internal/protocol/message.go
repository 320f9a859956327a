// Package protocol defines the closed set of messages exchanged between
// host and clients. Every message is self-contained; receivers treat
// unknown or malformed messages as no-ops.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/Chaitanyahoon/DeceptionDoodle/internal/entity"
)

const (
	KindJoinRequest     = "JOIN_REQUEST"
	KindGameStateUpdate = "GAME_STATE_UPDATE"
	KindSubmitDrawing   = "SUBMIT_DRAWING"
	KindSelectWord      = "SELECT_WORD"
	KindChatMessage     = "CHAT_MESSAGE"
	KindDrawStroke      = "DRAW_STROKE"
	KindStrokeBatch     = "STROKE_BATCH"
	KindStrokeStart     = "STROKE_START"
	KindUndoStroke      = "UNDO_STROKE"
	KindAvatarUpdate    = "AVATAR_UPDATE"
	KindPing            = "PING"
	KindPong            = "PONG"
)

type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type JoinRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

type SelectWord struct {
	Word string `json:"word"`
}

type SubmitDrawing struct {
	Data string `json:"data"`
}

type AvatarUpdate struct {
	Avatar string `json:"avatar"`
}

// Decode - unmarshals the payload into v. A decode failure is a protocol
// error: callers log and drop the message, they never crash on it.
func (that Message) Decode(v any) error {
	if err := json.Unmarshal(that.Payload, v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", that.Type, err)
	}

	return nil
}

func New(kind string, payload any) Message {
	if payload == nil {
		return Message{Type: kind}
	}

	return Message{Type: kind, Payload: mustMarshal(payload)}
}

func NewJoinRequest(name, avatar string) Message {
	return New(KindJoinRequest, JoinRequest{Name: name, Avatar: avatar})
}

func NewGameStateUpdate(state *entity.State) Message {
	return New(KindGameStateUpdate, state)
}

func NewSubmitDrawing(data string) Message {
	return New(KindSubmitDrawing, SubmitDrawing{Data: data})
}

func NewSelectWord(word string) Message {
	return New(KindSelectWord, SelectWord{Word: word})
}

func NewChatMessage(chat entity.ChatMessage) Message {
	return New(KindChatMessage, chat)
}

func NewDrawStroke(stroke entity.Stroke) Message {
	return New(KindDrawStroke, stroke)
}

func NewStrokeBatch(batch entity.StrokeBatch) Message {
	return New(KindStrokeBatch, batch)
}

func NewStrokeStart() Message {
	return New(KindStrokeStart, nil)
}

func NewUndoStroke() Message {
	return New(KindUndoStroke, nil)
}

func NewAvatarUpdate(avatar string) Message {
	return New(KindAvatarUpdate, AvatarUpdate{Avatar: avatar})
}

func NewPing() Message {
	return New(KindPing, nil)
}

func NewPong() Message {
	return New(KindPong, nil)
}

// IsDrawEvent reports whether the message is part of the drawing relay
// stream, which the host only honors from the current drawer.
func IsDrawEvent(kind string) bool {
	switch kind {
	case KindDrawStroke, KindStrokeBatch, KindStrokeStart, KindUndoStroke:
		return true
	default:
		return false
	}
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	return b
}
