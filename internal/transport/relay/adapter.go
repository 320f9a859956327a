package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Chaitanyahoon/DeceptionDoodle/internal/apperror"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/protocol"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/transport"
)

// Adapter implements transport.Adapter over a relay broker connection.
type Adapter struct {
	logger *slog.Logger
	url    string

	mu      sync.Mutex
	conn    *websocket.Conn
	addr    string
	events  transport.Events
	claimed chan envelope
	pending map[string]chan error
	closed  bool
	writeMu sync.Mutex
}

func NewAdapter(logger *slog.Logger, url string) *Adapter {
	return &Adapter{
		logger:  logger.With("component", "relay-adapter"),
		url:     url,
		claimed: make(chan envelope, 1),
		pending: make(map[string]chan error),
	}
}

func (that *Adapter) Subscribe(events transport.Events) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = events
}

// Initialize dials the broker and claims an address.
func (that *Adapter) Initialize(ctx context.Context, desired string) (string, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, that.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to dial relay: %w", apperror.ErrPeerUnreachable, err)
	}

	that.mu.Lock()
	that.conn = conn
	that.mu.Unlock()

	go that.readPump(conn)

	if err = that.write(envelope{Kind: kindClaim, To: desired}); err != nil {
		return "", err
	}

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("claim canceled: %w", ctx.Err())
	case env := <-that.claimed:
		if env.Kind == kindError {
			return "", fmt.Errorf("%w: %s", apperror.ErrAddressTaken, env.Error)
		}

		that.mu.Lock()
		that.addr = env.To
		that.mu.Unlock()

		return env.To, nil
	}
}

func (that *Adapter) Addr() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.addr
}

// Connect asks the broker to link this adapter to a remote address and
// waits for the acknowledgement.
func (that *Adapter) Connect(ctx context.Context, addr string) error {
	result := make(chan error, 1)

	that.mu.Lock()
	that.pending[addr] = result
	that.mu.Unlock()

	defer func() {
		that.mu.Lock()
		delete(that.pending, addr)
		that.mu.Unlock()
	}()

	if err := that.write(envelope{Kind: kindConnect, To: addr}); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("connect canceled: %w", ctx.Err())
	case err := <-result:
		return err
	}
}

func (that *Adapter) readPump(conn *websocket.Conn) {
	log := that.logger.With("method", "readPump")

	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			that.handleBrokerLost()
			return
		}

		switch env.Kind {
		case kindClaimed:
			that.claimed <- env
		case kindError:
			that.resolveConnect(env.To, fmt.Errorf("%w: %s", apperror.ErrPeerUnreachable, env.Error))

			select {
			case that.claimed <- env:
			default:
			}
		case kindPeerUp:
			that.resolveConnect(env.From, nil)

			if connected := that.callbacks().PeerConnected; connected != nil {
				connected(env.From)
			}
		case kindPeerDown:
			if disconnected := that.callbacks().PeerDisconnected; disconnected != nil {
				disconnected(env.From)
			}
		case kindData:
			var msg protocol.Message
			if err := json.Unmarshal(env.Data, &msg); err != nil {
				log.Debug("dropping malformed message", "from", env.From, "error", err)
				continue
			}

			if deliver := that.callbacks().Message; deliver != nil {
				deliver(env.From, msg)
			}
		default:
			log.Debug("ignoring unknown envelope", "kind", env.Kind)
		}
	}
}

// handleBrokerLost reports every known link as disconnected when the
// broker socket itself dies, so controllers see it as peer silence.
func (that *Adapter) handleBrokerLost() {
	that.mu.Lock()
	if that.closed {
		that.mu.Unlock()
		return
	}
	pending := that.pending
	that.pending = make(map[string]chan error)
	that.mu.Unlock()

	for _, result := range pending {
		select {
		case result <- fmt.Errorf("%w: relay connection lost", apperror.ErrPeerUnreachable):
		default:
		}
	}
}

func (that *Adapter) resolveConnect(addr string, err error) {
	that.mu.Lock()
	result, ok := that.pending[addr]
	that.mu.Unlock()

	if ok {
		select {
		case result <- err:
		default:
		}
	}
}

func (that *Adapter) callbacks() transport.Events {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.events
}

func (that *Adapter) Send(addr string, msg protocol.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return that.write(envelope{Kind: kindData, To: addr, Data: data})
}

func (that *Adapter) Broadcast(msg protocol.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return that.write(envelope{Kind: kindData, Broadcast: true, Data: data})
}

func (that *Adapter) write(env envelope) error {
	that.mu.Lock()
	conn := that.conn
	that.mu.Unlock()

	if conn == nil {
		return apperror.ErrNotConnected
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err := conn.WriteJSON(env); err != nil {
		return fmt.Errorf("failed to write envelope: %w", err)
	}

	return nil
}

func (that *Adapter) Close() error {
	that.mu.Lock()
	if that.closed {
		that.mu.Unlock()
		return nil
	}
	that.closed = true
	conn := that.conn
	that.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}

	return nil
}
