package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Chaitanyahoon/DeceptionDoodle/internal/transport"
)

const (
	sendQueueSize   = 256
	shutdownTimeout = 5 * time.Second
)

type peerConn struct {
	addr  string
	send  chan envelope
	links map[string]struct{}
}

// Server is the relay broker. It maps claimed addresses to live sockets
// and forwards envelopes between linked peers; nothing is persisted.
type Server struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	peers map[string]*peerConn
}

func NewServer(logger *slog.Logger) *Server {
	return &Server{
		logger: logger.With("component", "relay"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		peers: make(map[string]*peerConn),
	}
}

// Handler exposes the broker endpoint for embedding in an existing mux.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.handleSocket)

	return mux
}

// Start - runs the broker until the context is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  0, // long-lived sockets
		WriteTimeout: 0,
		IdleTimeout:  0,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start relay server: %w", err)
	}

	return nil
}

func (that *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleSocket")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	peer := &peerConn{
		send:  make(chan envelope, sendQueueSize),
		links: make(map[string]struct{}),
	}

	go writePump(conn, peer.send)

	defer that.unregister(peer)

	for {
		var env envelope
		if err = conn.ReadJSON(&env); err != nil {
			return
		}

		switch env.Kind {
		case kindClaim:
			that.handleClaim(peer, env)
		case kindConnect:
			that.handleConnect(peer, env)
		case kindData:
			that.handleData(peer, env)
		default:
			log.Debug("ignoring unknown envelope", "kind", env.Kind)
		}
	}
}

func writePump(conn *websocket.Conn, send <-chan envelope) {
	for env := range send {
		if err := conn.WriteJSON(env); err != nil {
			return
		}
	}
}

func (that *Server) handleClaim(peer *peerConn, env envelope) {
	that.mu.Lock()

	addr := env.To
	if addr == "" {
		addr = transport.ShortAddress()
		for _, taken := that.peers[addr]; taken; _, taken = that.peers[addr] {
			addr = transport.ShortAddress()
		}
	}

	if _, taken := that.peers[addr]; taken {
		that.mu.Unlock()
		peer.trySend(envelope{Kind: kindError, To: addr, Error: "address is already claimed"})
		return
	}

	peer.addr = addr
	that.peers[addr] = peer
	that.mu.Unlock()

	that.logger.Info("address claimed", "addr", addr)
	peer.trySend(envelope{Kind: kindClaimed, To: addr})
}

func (that *Server) handleConnect(peer *peerConn, env envelope) {
	that.mu.Lock()
	target, ok := that.peers[env.To]
	if !ok || peer.addr == "" {
		that.mu.Unlock()
		peer.trySend(envelope{Kind: kindError, To: env.To, Error: "peer is unreachable"})
		return
	}

	peer.links[target.addr] = struct{}{}
	target.links[peer.addr] = struct{}{}
	that.mu.Unlock()

	peer.trySend(envelope{Kind: kindPeerUp, From: target.addr})
	target.trySend(envelope{Kind: kindPeerUp, From: peer.addr})
}

func (that *Server) handleData(peer *peerConn, env envelope) {
	env.From = peer.addr

	that.mu.Lock()
	recipients := make([]*peerConn, 0, len(peer.links))
	if env.Broadcast {
		for addr := range peer.links {
			if target, ok := that.peers[addr]; ok {
				recipients = append(recipients, target)
			}
		}
	} else if _, linked := peer.links[env.To]; linked {
		if target, ok := that.peers[env.To]; ok {
			recipients = append(recipients, target)
		}
	}
	that.mu.Unlock()

	for _, target := range recipients {
		target.trySend(env)
	}
}

func (that *Server) unregister(peer *peerConn) {
	that.mu.Lock()
	if peer.addr != "" {
		delete(that.peers, peer.addr)
	}

	linked := make([]*peerConn, 0, len(peer.links))
	for addr := range peer.links {
		if target, ok := that.peers[addr]; ok {
			delete(target.links, peer.addr)
			linked = append(linked, target)
		}
	}
	that.mu.Unlock()

	close(peer.send)

	for _, target := range linked {
		target.trySend(envelope{Kind: kindPeerDown, From: peer.addr})
	}

	if peer.addr != "" {
		that.logger.Info("address released", "addr", peer.addr)
	}
}

// trySend - best-effort: a slow consumer drops frames instead of
// blocking the broker.
func (that *peerConn) trySend(env envelope) {
	defer func() {
		// the send channel may already be closed by unregister
		_ = recover()
	}()

	select {
	case that.send <- env:
	default:
	}
}
