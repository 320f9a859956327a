// Package relay implements the transport adapter over a WebSocket relay
// broker. The broker only forwards frames between claimed addresses; it
// holds no game state and never inspects payloads.
package relay

import "encoding/json"

const (
	kindClaim    = "claim"
	kindClaimed  = "claimed"
	kindConnect  = "connect"
	kindPeerUp   = "peer-connected"
	kindPeerDown = "peer-disconnected"
	kindData     = "data"
	kindError    = "error"
)

type envelope struct {
	Kind      string          `json:"kind"`
	From      string          `json:"from,omitempty"`
	To        string          `json:"to,omitempty"`
	Broadcast bool            `json:"broadcast,omitempty"`
	Error     string          `json:"error,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}
