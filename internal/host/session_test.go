package host

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chaitanyahoon/DeceptionDoodle/internal/client"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/entity"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/protocol"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/transport"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/words"
)

// TestSession_Loopback runs a real host and a real client against each
// other over the in-process network.
func TestSession_Loopback(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.Default()
	network := transport.NewLoopback()

	// Given: a hosted room
	hostAdapter := network.NewAdapter()
	hostController, err := New(logger, hostAdapter, words.DefaultBank(), Config{
		Name:     "Alice",
		Rounds:   1,
		DrawTime: 60,
	})
	require.NoError(t, err)

	hostAdapter.Subscribe(transport.Events{
		PeerConnected:    hostController.HandlePeerConnected,
		PeerDisconnected: hostController.HandlePeerDisconnected,
		Message:          hostController.HandleMessage,
	})

	room, err := hostAdapter.Initialize(ctx, "ROOM1")
	require.NoError(t, err)
	require.Equal(t, "ROOM1", room)

	hostController.Start(ctx)
	defer hostController.Stop()

	// Given: a guest joining that room
	guestAdapter := network.NewAdapter()
	guestController, err := client.New(logger, guestAdapter, client.Config{
		Name:         "Bob",
		HostAddr:     room,
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	})
	require.NoError(t, err)

	guestAdapter.Subscribe(transport.Events{
		PeerDisconnected: guestController.HandlePeerDisconnected,
		Message:          guestController.HandleMessage,
	})

	guestAddr, err := guestAdapter.Initialize(ctx, "")
	require.NoError(t, err)

	// When: the guest session starts
	require.NoError(t, guestController.Start(ctx))
	defer guestController.Stop()

	// Then: the guest receives a lobby snapshot listing both players
	require.Eventually(t, func() bool {
		state := guestController.State()
		return state != nil && len(state.Players) == 2
	}, time.Second, 5*time.Millisecond)

	// When: the host starts the game
	require.NoError(t, hostController.StartGame())

	// Then: the guest sees word selection without the choices (host draws first)
	require.Eventually(t, func() bool {
		state := guestController.State()
		return state != nil && state.Phase == entity.PhaseWordSelection
	}, time.Second, 5*time.Millisecond)

	guestView := guestController.State()
	assert.Equal(t, room, guestView.Drawer)
	assert.Nil(t, guestView.WordChoices)

	// When: the host picks a word
	hostView := hostController.State()
	require.Len(t, hostView.WordChoices, wordChoiceCount)
	word := hostView.WordChoices[0]
	hostController.HandleMessage(room, protocol.NewSelectWord(word))

	// Then: the guest sees a masked drawing turn
	require.Eventually(t, func() bool {
		state := guestController.State()
		return state != nil && state.Phase == entity.PhaseDrawing
	}, time.Second, 5*time.Millisecond)

	guestView = guestController.State()
	assert.Empty(t, guestView.Word)
	assert.Equal(t, entity.MaskWord(word), guestView.Hint)

	// When: the guest guesses the word through chat
	require.NoError(t, guestController.SendChat(word))

	// Then: the guest's own snapshot shows the points landing
	require.Eventually(t, func() bool {
		state := guestController.State()
		if state == nil {
			return false
		}

		player := state.FindPlayer(guestAddr)

		return player != nil && player.HasGuessed && player.Score > 0
	}, time.Second, 5*time.Millisecond)

	// Then: the drawer earned the drip and the guess text stayed private
	hostView = hostController.State()
	assert.Positive(t, hostView.FindPlayer(room).Score)
	for _, msg := range hostView.Chat {
		if msg.Kind != entity.ChatKindSystem {
			assert.NotEqual(t, word, msg.Text)
		}
	}
}
