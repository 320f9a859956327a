package apperror

import "errors"

var (
	ErrGameInProgress   = errors.New("game is already in progress")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrNotTheDrawer     = errors.New("sender is not the current drawer")
	ErrWrongPhase       = errors.New("operation is not allowed in the current phase")
	ErrWordNotOffered   = errors.New("word was not offered to the drawer")
	ErrInvalidName      = errors.New("player name is invalid")
	ErrInvalidDrawing   = errors.New("drawing payload is not an image")
	ErrInvalidSettings  = errors.New("game settings are out of range")
	ErrPeerUnreachable  = errors.New("peer is unreachable")
	ErrAddressTaken     = errors.New("address is already claimed")
	ErrNotConnected     = errors.New("not connected to a peer")
	ErrRetriesExhausted = errors.New("retries exhausted")
)
