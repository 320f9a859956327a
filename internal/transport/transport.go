// Package transport defines the peer transport contract the game runs
// over: claim a short shareable address, connect to a remote address,
// and exchange best-effort fire-and-forget messages. NAT traversal and
// signaling belong to the concrete implementation, not to the callers.
package transport

import (
	"context"
	"math/rand"
	"strings"

	"github.com/Chaitanyahoon/DeceptionDoodle/internal/protocol"
)

// Events are the delivery callbacks a participant subscribes before
// initializing its adapter. Per-peer message ordering is preserved by
// implementations; no ordering holds across different peers.
type Events struct {
	PeerConnected    func(addr string)
	PeerDisconnected func(addr string)
	Message          func(addr string, msg protocol.Message)
}

type Adapter interface {
	// Initialize claims an address. An empty desired address yields a
	// generated short shareable code; the host's address doubles as the
	// room code.
	Initialize(ctx context.Context, desired string) (string, error)

	// Connect establishes a channel to a remote address. Fails with
	// apperror.ErrPeerUnreachable when the peer cannot be reached.
	Connect(ctx context.Context, addr string) error

	Send(addr string, msg protocol.Message) error
	Broadcast(msg protocol.Message) error

	Subscribe(events Events)
	Addr() string
	Close() error
}

// addressAlphabet omits I, O, 0 and 1 so codes stay readable aloud.
const (
	addressAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	addressLength   = 5
)

// ShortAddress generates a 5-character human-shareable room code.
func ShortAddress() string {
	var b strings.Builder
	for i := 0; i < addressLength; i++ {
		b.WriteByte(addressAlphabet[rand.Intn(len(addressAlphabet))]) //nolint: gosec // it's ok
	}

	return b.String()
}
