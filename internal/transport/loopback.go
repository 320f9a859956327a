package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/Chaitanyahoon/DeceptionDoodle/internal/apperror"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/protocol"
)

const linkQueueSize = 256

// Loopback is an in-process network of adapters. It preserves per-link
// FIFO delivery through one queue goroutine per directed link, matching
// the ordering contract of a real transport, and is used for tests and
// single-machine play.
type Loopback struct {
	mu    sync.Mutex
	peers map[string]*LoopbackAdapter
}

func NewLoopback() *Loopback {
	return &Loopback{peers: make(map[string]*LoopbackAdapter)}
}

// NewAdapter creates an unregistered adapter on this network. Callers
// Subscribe first, then Initialize.
func (that *Loopback) NewAdapter() *LoopbackAdapter {
	return &LoopbackAdapter{
		network: that,
		links:   make(map[string]*loopbackLink),
	}
}

func (that *Loopback) claim(desired string, adapter *LoopbackAdapter) (string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	addr := desired
	if addr == "" {
		addr = ShortAddress()
		for _, taken := that.peers[addr]; taken; _, taken = that.peers[addr] {
			addr = ShortAddress()
		}
	}

	if _, taken := that.peers[addr]; taken {
		return "", fmt.Errorf("%w: %s", apperror.ErrAddressTaken, addr)
	}

	that.peers[addr] = adapter

	return addr, nil
}

func (that *Loopback) lookup(addr string) *LoopbackAdapter {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.peers[addr]
}

func (that *Loopback) release(addr string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.peers, addr)
}

// loopbackLink is one directed delivery queue toward a peer.
type loopbackLink struct {
	queue chan protocol.Message
	done  chan struct{}
}

type LoopbackAdapter struct {
	network *Loopback

	mu     sync.Mutex
	addr   string
	events Events
	links  map[string]*loopbackLink
	closed bool
}

func (that *LoopbackAdapter) Subscribe(events Events) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = events
}

func (that *LoopbackAdapter) Initialize(_ context.Context, desired string) (string, error) {
	addr, err := that.network.claim(desired, that)
	if err != nil {
		return "", err
	}

	that.mu.Lock()
	that.addr = addr
	that.mu.Unlock()

	return addr, nil
}

func (that *LoopbackAdapter) Addr() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.addr
}

func (that *LoopbackAdapter) Connect(_ context.Context, addr string) error {
	remote := that.network.lookup(addr)
	if remote == nil {
		return fmt.Errorf("%w: %s", apperror.ErrPeerUnreachable, addr)
	}

	that.attach(remote)
	remote.attach(that)

	return nil
}

// attach opens the directed queue toward remote and fires peer-connected.
func (that *LoopbackAdapter) attach(remote *LoopbackAdapter) {
	remoteAddr := remote.Addr()

	that.mu.Lock()
	if that.closed {
		that.mu.Unlock()
		return
	}

	if _, exists := that.links[remoteAddr]; exists {
		that.mu.Unlock()
		return
	}

	link := &loopbackLink{
		queue: make(chan protocol.Message, linkQueueSize),
		done:  make(chan struct{}),
	}
	that.links[remoteAddr] = link
	connected := that.events.PeerConnected
	localAddr := that.addr
	that.mu.Unlock()

	go remote.pump(localAddr, link)

	if connected != nil {
		connected(remoteAddr)
	}
}

// pump delivers queued messages from one peer in order.
func (that *LoopbackAdapter) pump(from string, link *loopbackLink) {
	for {
		select {
		case <-link.done:
			return
		case msg := <-link.queue:
			that.mu.Lock()
			deliver := that.events.Message
			that.mu.Unlock()

			if deliver != nil {
				deliver(from, msg)
			}
		}
	}
}

func (that *LoopbackAdapter) Send(addr string, msg protocol.Message) error {
	that.mu.Lock()
	link, ok := that.links[addr]
	that.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrNotConnected, addr)
	}

	// best-effort: a full queue drops the message rather than blocking
	select {
	case link.queue <- msg:
	default:
	}

	return nil
}

func (that *LoopbackAdapter) Broadcast(msg protocol.Message) error {
	that.mu.Lock()
	addrs := make([]string, 0, len(that.links))
	for addr := range that.links {
		addrs = append(addrs, addr)
	}
	that.mu.Unlock()

	for _, addr := range addrs {
		_ = that.Send(addr, msg)
	}

	return nil
}

// Disconnect severs the channel to one peer on both ends, simulating a
// dropped connection.
func (that *LoopbackAdapter) Disconnect(addr string) {
	remote := that.network.lookup(addr)

	that.detach(addr)
	if remote != nil {
		remote.detach(that.Addr())
	}
}

func (that *LoopbackAdapter) detach(addr string) {
	that.mu.Lock()
	link, ok := that.links[addr]
	if ok {
		delete(that.links, addr)
		close(link.done)
	}
	disconnected := that.events.PeerDisconnected
	that.mu.Unlock()

	if ok && disconnected != nil {
		disconnected(addr)
	}
}

func (that *LoopbackAdapter) Close() error {
	that.mu.Lock()
	if that.closed {
		that.mu.Unlock()
		return nil
	}
	that.closed = true
	addr := that.addr
	peers := make([]string, 0, len(that.links))
	for peerAddr := range that.links {
		peers = append(peers, peerAddr)
	}
	that.mu.Unlock()

	for _, peerAddr := range peers {
		remote := that.network.lookup(peerAddr)
		that.detach(peerAddr)
		if remote != nil {
			remote.detach(addr)
		}
	}

	that.network.release(addr)

	return nil
}
