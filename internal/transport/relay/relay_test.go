package relay

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chaitanyahoon/DeceptionDoodle/internal/apperror"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/protocol"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/transport"
)

// inbox collects adapter callbacks for assertions.
type inbox struct {
	mu        sync.Mutex
	messages  []protocol.Message
	froms     []string
	connected []string
	dropped   []string
}

func (that *inbox) events() transport.Events {
	return transport.Events{
		PeerConnected: func(addr string) {
			that.mu.Lock()
			defer that.mu.Unlock()

			that.connected = append(that.connected, addr)
		},
		PeerDisconnected: func(addr string) {
			that.mu.Lock()
			defer that.mu.Unlock()

			that.dropped = append(that.dropped, addr)
		},
		Message: func(addr string, msg protocol.Message) {
			that.mu.Lock()
			defer that.mu.Unlock()

			that.froms = append(that.froms, addr)
			that.messages = append(that.messages, msg)
		},
	}
}

func (that *inbox) messageCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.messages)
}

func (that *inbox) droppedPeers() []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]string(nil), that.dropped...)
}

// newBroker runs the broker on an ephemeral port and returns its ws URL.
func newBroker(t *testing.T) string {
	t.Helper()

	srv := httptest.NewServer(NewServer(slog.Default()).Handler())
	t.Cleanup(srv.Close)

	return "ws://" + strings.TrimPrefix(srv.URL, "http://") + "/ws"
}

func newPeer(t *testing.T, url, desired string) (*Adapter, *inbox, string) {
	t.Helper()

	box := &inbox{}
	adapter := NewAdapter(slog.Default(), url)
	adapter.Subscribe(box.events())
	t.Cleanup(func() { _ = adapter.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	addr, err := adapter.Initialize(ctx, desired)
	require.NoError(t, err)

	return adapter, box, addr
}

func TestRelay(t *testing.T) {
	t.Run("claims desired and generated addresses", func(t *testing.T) {
		url := newBroker(t)

		_, _, hostAddr := newPeer(t, url, "ROOM1")
		assert.Equal(t, "ROOM1", hostAddr)

		_, _, guestAddr := newPeer(t, url, "")
		assert.Len(t, guestAddr, 5)
	})

	t.Run("duplicate claim is rejected", func(t *testing.T) {
		url := newBroker(t)
		newPeer(t, url, "ROOM1")

		adapter := NewAdapter(slog.Default(), url)
		defer adapter.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_, err := adapter.Initialize(ctx, "ROOM1")
		require.ErrorIs(t, err, apperror.ErrAddressTaken)
	})

	t.Run("connect links both peers and data flows", func(t *testing.T) {
		// Given: a host and a guest on the same broker
		url := newBroker(t)
		host, hostBox, hostAddr := newPeer(t, url, "ROOM1")
		guest, guestBox, guestAddr := newPeer(t, url, "")

		// When: the guest connects to the room code
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, guest.Connect(ctx, hostAddr))

		// When: both sides send one message
		require.NoError(t, guest.Send(hostAddr, protocol.NewJoinRequest("Bob", "")))
		require.Eventually(t, func() bool {
			return hostBox.messageCount() == 1
		}, 5*time.Second, 10*time.Millisecond)

		require.NoError(t, host.Send(guestAddr, protocol.NewPing()))

		// Then: both arrive with the true sender address
		require.Eventually(t, func() bool {
			return guestBox.messageCount() == 1
		}, 5*time.Second, 10*time.Millisecond)

		hostBox.mu.Lock()
		assert.Equal(t, guestAddr, hostBox.froms[0])
		assert.Equal(t, protocol.KindJoinRequest, hostBox.messages[0].Type)
		hostBox.mu.Unlock()
	})

	t.Run("connecting to an unknown address fails", func(t *testing.T) {
		url := newBroker(t)
		guest, _, _ := newPeer(t, url, "")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		require.ErrorIs(t, guest.Connect(ctx, "NOONE"), apperror.ErrPeerUnreachable)
	})

	t.Run("broadcast reaches every linked peer", func(t *testing.T) {
		// Given: two guests linked to one host
		url := newBroker(t)
		host, _, hostAddr := newPeer(t, url, "ROOM1")

		boxes := make([]*inbox, 2)
		for i := range boxes {
			guest, box, _ := newPeer(t, url, "")
			boxes[i] = box

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			require.NoError(t, guest.Connect(ctx, hostAddr))
			cancel()
		}

		// When: the host broadcasts
		require.NoError(t, host.Broadcast(protocol.NewPing()))

		// Then: both guests hear it
		require.Eventually(t, func() bool {
			return boxes[0].messageCount() == 1 && boxes[1].messageCount() == 1
		}, 5*time.Second, 10*time.Millisecond)
	})

	t.Run("a closing peer is reported as down to its links", func(t *testing.T) {
		// Given: a linked pair
		url := newBroker(t)
		_, hostBox, hostAddr := newPeer(t, url, "ROOM1")

		guest := NewAdapter(slog.Default(), url)
		guest.Subscribe((&inbox{}).events())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		guestAddr, err := guest.Initialize(ctx, "")
		require.NoError(t, err)
		require.NoError(t, guest.Connect(ctx, hostAddr))

		// When: the guest closes its socket
		require.NoError(t, guest.Close())

		// Then: the host hears about it
		require.Eventually(t, func() bool {
			for _, addr := range hostBox.droppedPeers() {
				if addr == guestAddr {
					return true
				}
			}
			return false
		}, 5*time.Second, 10*time.Millisecond)
	})

	t.Run("send before initialize fails cleanly", func(t *testing.T) {
		adapter := NewAdapter(slog.Default(), "ws://127.0.0.1:1/ws")

		err := adapter.Send("ANY", protocol.NewPing())
		require.ErrorIs(t, err, apperror.ErrNotConnected)
	})
}
