// Package client implements the guest side of a session: it connects to
// a host address, replaces its local snapshot wholesale on every state
// update, and sends gameplay intents without waiting for acknowledgement.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Chaitanyahoon/DeceptionDoodle/internal/apperror"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/drawing"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/entity"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/protocol"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/resilience"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/validation"
)

// Connection status values. Status describes the link right now;
// whether the session was ever live is tracked separately so the UI can
// distinguish "never got in" from "got in and dropped".
const (
	StatusConnecting   = "connecting"
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
	StatusError        = "error"
)

type Config struct {
	Name   string
	Avatar string

	HostAddr string

	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration

	HeartbeatInterval time.Duration
	HeartbeatTimeout  time.Duration
}

func (that *Config) applyDefaults() {
	if that.Avatar == "" {
		that.Avatar = entity.DefaultAvatar
	}
	if that.MaxRetries <= 0 {
		that.MaxRetries = resilience.DefaultMaxRetries
	}
	if that.InitialDelay <= 0 {
		that.InitialDelay = resilience.DefaultInitialDelay
	}
	if that.MaxDelay <= 0 {
		that.MaxDelay = resilience.DefaultMaxDelay
	}
	if that.HeartbeatInterval <= 0 {
		that.HeartbeatInterval = resilience.DefaultHeartbeatInterval
	}
	if that.HeartbeatTimeout <= 0 {
		that.HeartbeatTimeout = resilience.DefaultHeartbeatTimeout
	}
}

// transportAdapter is the slice of the transport a client needs.
type transportAdapter interface {
	Connect(ctx context.Context, addr string) error
	Send(addr string, msg protocol.Message) error
	Addr() string
}

// Controller runs one guest session against a host. All gameplay sends
// are fire-and-forget; correctness comes from the next snapshot, not
// from acknowledgements.
type Controller struct {
	logger    *slog.Logger
	transport transportAdapter
	cfg       Config

	monitor *resilience.Monitor
	backoff *resilience.Backoff
	limiter *validation.RateLimiter
	batcher *drawing.Batcher

	mu            sync.Mutex
	state         *entity.State
	status        string
	everConnected bool
	reconnecting  bool
	surface       *drawing.Replayer
	ctx           context.Context
	cancel        context.CancelFunc
}

func New(logger *slog.Logger, adapter transportAdapter, cfg Config) (*Controller, error) {
	cfg.applyDefaults()

	if !validation.ValidPlayerName(cfg.Name) {
		return nil, apperror.ErrInvalidName
	}

	if cfg.HostAddr == "" {
		return nil, fmt.Errorf("%w: no host address", apperror.ErrPeerUnreachable)
	}

	that := &Controller{
		logger:    logger.With("component", "client"),
		transport: adapter,
		cfg:       cfg,
		monitor:   resilience.NewMonitor(cfg.HeartbeatInterval, cfg.HeartbeatTimeout),
		backoff:   resilience.NewBackoff(cfg.MaxRetries, cfg.InitialDelay, cfg.MaxDelay),
		limiter:   validation.NewRateLimiter(validation.DefaultRateLimit, validation.DefaultRateWindow),
		status:    StatusConnecting,
	}

	that.batcher = drawing.NewBatcher(drawing.DefaultBatchSize, func(batch entity.StrokeBatch) {
		that.sendToHost(protocol.NewStrokeBatch(batch))
	})

	return that, nil
}

// AttachSurface wires a rendering surface so relayed drawing events get
// replayed locally. Headless sessions (tests, bots) skip this.
func (that *Controller) AttachSurface(surface drawing.Surface) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.surface = drawing.NewReplayer(that.logger, surface)
}

// Start connects to the host, retrying with backoff, then joins and
// begins heartbeating. Exhausting the retry budget is a hard failure.
func (that *Controller) Start(ctx context.Context) error {
	log := that.logger.With("method", "Start")

	runCtx, cancel := context.WithCancel(ctx)

	that.mu.Lock()
	that.ctx = runCtx
	that.cancel = cancel
	that.status = StatusConnecting
	that.mu.Unlock()

	err := resilience.Retry(runCtx, that.backoff, func(ctx context.Context) error {
		return that.transport.Connect(ctx, that.cfg.HostAddr)
	})
	if err != nil {
		that.setStatus(StatusError)
		cancel()

		return fmt.Errorf("failed to reach host %s: %w", that.cfg.HostAddr, err)
	}

	that.mu.Lock()
	that.status = StatusConnected
	that.everConnected = true
	that.mu.Unlock()

	that.sendToHost(that.joinRequest())

	that.monitor.Start(
		func() { that.sendToHost(protocol.NewPing()) },
		that.onHostSilent,
	)

	log.Info("joined session", "host", that.cfg.HostAddr, "name", that.cfg.Name)

	return nil
}

// HandleMessage processes one inbound message. Any traffic from the
// host counts as a heartbeat; unknown kinds are ignored.
func (that *Controller) HandleMessage(addr string, msg protocol.Message) {
	log := that.logger.With("method", "HandleMessage")

	if addr == that.cfg.HostAddr {
		that.monitor.Beat()
		that.setStatus(StatusConnected)
	}

	switch msg.Type {
	case protocol.KindGameStateUpdate:
		var state entity.State
		if err := msg.Decode(&state); err != nil {
			log.Debug("dropping malformed snapshot", "error", err)
			return
		}

		that.mu.Lock()
		that.state = &state
		that.mu.Unlock()
	case protocol.KindPing:
		that.sendToHost(protocol.NewPong())
	case protocol.KindPong:
		// beat already recorded above
	default:
		if protocol.IsDrawEvent(msg.Type) {
			that.mu.Lock()
			surface := that.surface
			that.mu.Unlock()

			if surface != nil {
				surface.Apply(msg)
			}

			return
		}

		log.Debug("ignoring unknown message", "type", msg.Type)
	}
}

// HandlePeerDisconnected treats an explicit host disconnect the same as
// heartbeat silence.
func (that *Controller) HandlePeerDisconnected(addr string) {
	if addr == that.cfg.HostAddr {
		that.onHostSilent()
	}
}

// onHostSilent marks the session dropped and tries to get back in. Only
// one reconnect loop runs at a time; further silence while it runs is
// ignored.
func (that *Controller) onHostSilent() {
	that.mu.Lock()
	if that.reconnecting {
		that.mu.Unlock()
		return
	}
	that.reconnecting = true
	that.status = StatusDisconnected
	ctx := that.ctx
	that.mu.Unlock()

	that.logger.Warn("lost contact with host", "host", that.cfg.HostAddr)

	go that.reconnect(ctx)
}

func (that *Controller) reconnect(ctx context.Context) {
	log := that.logger.With("method", "reconnect")

	defer func() {
		that.mu.Lock()
		that.reconnecting = false
		that.mu.Unlock()
	}()

	that.setStatus(StatusConnecting)

	that.backoff.Reset()
	err := resilience.Retry(ctx, that.backoff, func(ctx context.Context) error {
		return that.transport.Connect(ctx, that.cfg.HostAddr)
	})
	if err != nil {
		that.setStatus(StatusError)
		log.Error("failed to rejoin session", "error", err)

		return
	}

	that.mu.Lock()
	that.status = StatusConnected
	that.mu.Unlock()

	// rejoining under the same address restores the existing seat
	that.sendToHost(that.joinRequest())
	that.monitor.Beat()

	log.Info("rejoined session", "host", that.cfg.HostAddr)
}

// SelectWord - drawer intent; the host validates authoritatively.
func (that *Controller) SelectWord(word string) error {
	if !validation.ValidWordSelection(word) {
		return apperror.ErrWordNotOffered
	}

	return that.sendToHost(protocol.NewSelectWord(word))
}

// SendChat sends a chat line or guess. Local validation and rate
// limiting are a courtesy; the host enforces both again.
func (that *Controller) SendChat(text string) error {
	text = validation.SanitizeMessage(text)
	if !validation.ValidGuess(text) {
		return nil // nothing worth sending
	}

	if !that.limiter.Allow() {
		return nil // silently dropped, same as the host would
	}

	chat := entity.NewChatMessage(that.transport.Addr(), that.cfg.Name, text, entity.ChatKindChat)

	return that.sendToHost(protocol.NewChatMessage(chat))
}

func (that *Controller) UpdateAvatar(avatar string) error {
	that.mu.Lock()
	that.cfg.Avatar = avatar
	that.mu.Unlock()

	return that.sendToHost(protocol.NewAvatarUpdate(avatar))
}

func (that *Controller) SubmitDrawing(data string) error {
	if err := validation.ValidateDrawingData(data); err != nil {
		return err
	}

	return that.sendToHost(protocol.NewSubmitDrawing(data))
}

// StrokeStart marks the beginning of a stroke so every peer snapshots
// its canvas for undo before any samples arrive.
func (that *Controller) StrokeStart() error {
	return that.sendToHost(protocol.NewStrokeStart())
}

// AddStrokeSample buffers one sample; batches go out when full.
func (that *Controller) AddStrokeSample(stroke entity.Stroke) {
	that.batcher.Add(stroke)
}

// StopStroke flushes the partial batch on pointer release.
func (that *Controller) StopStroke() {
	that.batcher.Flush()
}

// Fill sends the flood-fill sentinel immediately, bypassing the batcher;
// a fill is a single atomic operation, not a sample stream.
func (that *Controller) Fill(x, y int, color string) error {
	return that.sendToHost(protocol.NewDrawStroke(entity.NewFillStroke(x, y, color)))
}

func (that *Controller) Undo() error {
	return that.sendToHost(protocol.NewUndoStroke())
}

// State returns the latest snapshot, or nil before the first update.
func (that *Controller) State() *entity.State {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.state == nil {
		return nil
	}

	return that.state.Clone()
}

func (that *Controller) Status() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.status
}

// EverConnected reports whether the session was live at least once.
func (that *Controller) EverConnected() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.everConnected
}

func (that *Controller) Stop() {
	that.monitor.Stop()

	that.mu.Lock()
	cancel := that.cancel
	that.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// joinRequest snapshots the avatar under the lock; UpdateAvatar may race
// a reconnect.
func (that *Controller) joinRequest() protocol.Message {
	that.mu.Lock()
	avatar := that.cfg.Avatar
	that.mu.Unlock()

	return protocol.NewJoinRequest(validation.SanitizeName(that.cfg.Name), avatar)
}

func (that *Controller) sendToHost(msg protocol.Message) error {
	if err := that.transport.Send(that.cfg.HostAddr, msg); err != nil {
		that.logger.Debug("send failed", "type", msg.Type, "error", err)
		return err
	}

	return nil
}

func (that *Controller) setStatus(status string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.status = status
}
