// Package host owns the canonical session state and the turn state
// machine. All mutation happens inside message and tick handlers under a
// single lock; clients only ever receive redacted snapshots.
package host

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/Chaitanyahoon/DeceptionDoodle/internal/apperror"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/entity"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/protocol"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/validation"
)

const wordChoiceCount = 3

// hintThresholds are fractions of remaining time; crossing one reveals a
// single additional hint character.
var hintThresholds = []float64{0.75, 0.5, 0.25}

type transportAdapter interface {
	Addr() string
	Send(addr string, msg protocol.Message) error
	Broadcast(msg protocol.Message) error
}

type wordBank interface {
	RandomWords(category string, count int, used map[string]struct{}) []string
}

type Config struct {
	Name   string
	Avatar string

	Category         string
	Rounds           int
	DrawTime         int
	SelectTime       int
	ResultsTime      int
	EarlyEndDelay    int
	AllowDrawerGuess bool

	// AutoStartPlayers > 0 starts the game once that many players joined.
	AutoStartPlayers int

	HeartbeatInterval time.Duration
	HeartbeatTimeout  time.Duration
}

func (that *Config) applyDefaults() {
	if that.Category == "" {
		that.Category = "Mix"
	}
	if that.SelectTime <= 0 {
		that.SelectTime = 30
	}
	if that.ResultsTime <= 0 {
		that.ResultsTime = 5
	}
	if that.EarlyEndDelay <= 0 {
		that.EarlyEndDelay = 2
	}
	if that.HeartbeatInterval <= 0 {
		that.HeartbeatInterval = 3 * time.Second
	}
	if that.HeartbeatTimeout <= 0 {
		that.HeartbeatTimeout = 8 * time.Second
	}
}

type Controller struct {
	logger    *slog.Logger
	transport transportAdapter
	words     wordBank
	conf      Config

	mu              sync.Mutex
	state           *entity.State
	queue           []string
	used            map[string]struct{}
	hintsRevealed   int
	correctGuessers int
	endingEarly     bool
	lastSeen        map[string]time.Time
	limiters        map[string]*validation.RateLimiter
	onDraw          func(msg protocol.Message)
	stop            chan struct{}
	running         bool
}

func New(logger *slog.Logger, adapter transportAdapter, bank wordBank, conf Config) (*Controller, error) {
	conf.applyDefaults()

	if err := validation.ValidateSettings(conf.Rounds, conf.DrawTime); err != nil {
		return nil, fmt.Errorf("failed to create host controller: %w", err)
	}

	if !validation.ValidPlayerName(conf.Name) {
		return nil, fmt.Errorf("failed to create host controller: %w", apperror.ErrInvalidName)
	}

	return &Controller{
		logger:    logger.With("component", "host"),
		transport: adapter,
		words:     bank,
		conf:      conf,
		state: entity.NewState(entity.Settings{
			Rounds:   conf.Rounds,
			DrawTime: conf.DrawTime,
		}),
		used:     make(map[string]struct{}),
		lastSeen: make(map[string]time.Time),
		limiters: make(map[string]*validation.RateLimiter),
	}, nil
}

// Start registers the host's own player record and arms the per-second
// tick and the heartbeat broadcast. It does not block.
func (that *Controller) Start(ctx context.Context) {
	that.mu.Lock()
	if that.running {
		that.mu.Unlock()
		return
	}
	that.running = true
	that.stop = make(chan struct{})
	stop := that.stop

	hostPlayer := entity.NewPlayer(that.transport.Addr(), validation.SanitizeName(that.conf.Name), that.conf.Avatar, true)
	that.state.Players = append(that.state.Players, hostPlayer)
	that.state.Chat = append(that.state.Chat, entity.NewSystemMessage(hostPlayer.Name+" created the room"))
	that.mu.Unlock()

	go that.tickLoop(ctx, stop)
	go that.pingLoop(ctx, stop)
}

func (that *Controller) Stop() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.running {
		close(that.stop)
		that.running = false
	}
}

// SetDrawHook attaches the host's own rendering sink for relayed drawing
// events. Optional; the presentation layer is a collaborator.
func (that *Controller) SetDrawHook(fn func(msg protocol.Message)) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.onDraw = fn
}

func (that *Controller) tickLoop(ctx context.Context, stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			that.tick()
		}
	}
}

func (that *Controller) pingLoop(ctx context.Context, stop chan struct{}) {
	ticker := time.NewTicker(that.conf.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			_ = that.transport.Broadcast(protocol.NewPing())
		}
	}
}

// State - a deep copy of the unmasked session state for the host's own
// presentation layer.
func (that *Controller) State() *entity.State {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.state.Clone()
}

// StartGame seeds the drawer queue and advances to the first turn.
func (that *Controller) StartGame() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.startGameLocked()
}

func (that *Controller) startGameLocked() error {
	if that.state.Phase != entity.PhaseLobby {
		return apperror.ErrGameInProgress
	}

	if len(that.state.Players) < 2 {
		return apperror.ErrNotEnoughPlayers
	}

	that.state.Round = 1
	that.queue = that.drawerQueueLocked()
	that.appendSystemLocked("The game is starting!")
	that.startTurnLocked()

	return nil
}

// drawerQueueLocked - every player address in join order, disconnected
// included: records are flagged, never removed.
func (that *Controller) drawerQueueLocked() []string {
	queue := make([]string, 0, len(that.state.Players))
	for _, player := range that.state.Players {
		queue = append(queue, player.Address)
	}

	return queue
}

// startTurnLocked pops the next drawer, refilling the queue on a new
// round or ending the game when rounds are exhausted.
func (that *Controller) startTurnLocked() {
	if len(that.queue) == 0 {
		if that.state.Round >= that.state.Settings.Rounds {
			that.finishGameLocked()
			return
		}

		that.state.Round++
		that.queue = that.drawerQueueLocked()
	}

	drawer := that.queue[0]
	that.queue = that.queue[1:]

	that.state.Drawer = drawer
	that.state.Phase = entity.PhaseWordSelection
	that.state.Timer = that.conf.SelectTime
	that.state.WordChoices = that.words.RandomWords(that.conf.Category, wordChoiceCount, that.used)
	that.state.Word = ""
	that.state.Hint = ""
	that.state.Drawings = nil
	that.state.ResetGuesses()
	that.hintsRevealed = 0
	that.correctGuessers = 0
	that.endingEarly = false

	if player := that.state.FindPlayer(drawer); player != nil {
		that.appendSystemLocked("It's " + player.Name + "'s turn to draw!")
	}

	that.pushLocked()
}

func (that *Controller) beginDrawingLocked(word string) {
	that.used[word] = struct{}{}

	that.state.Word = word
	that.state.Hint = entity.MaskWord(word)
	that.state.WordChoices = nil
	that.state.Phase = entity.PhaseDrawing
	that.state.Timer = that.state.Settings.DrawTime
	that.state.ResetGuesses()
	that.hintsRevealed = 0
	that.correctGuessers = 0
	that.endingEarly = false

	if player := that.state.FindPlayer(that.state.Drawer); player != nil {
		that.appendSystemLocked(player.Name + " is drawing now!")
	}

	that.pushLocked()
}

func (that *Controller) endTurnLocked() {
	that.state.Phase = entity.PhaseTurnResults
	that.state.Timer = that.conf.ResultsTime
	that.appendSystemLocked("The word was '" + that.state.Word + "'!")
	that.pushLocked()
}

func (that *Controller) finishGameLocked() {
	that.state.Phase = entity.PhaseResults
	that.state.Timer = 0
	that.state.Drawer = ""
	that.appendSystemLocked("Game over!")
	that.pushLocked()
}

// tick - the single per-second heartbeat of the state machine. Every
// phase countdown rides this tick, so a phase transition implicitly
// cancels the previous countdown.
func (that *Controller) tick() {
	that.mu.Lock()
	defer that.mu.Unlock()

	dropped := that.checkHeartbeatsLocked()

	switch that.state.Phase {
	case entity.PhaseWordSelection:
		that.state.Timer--
		if that.state.Timer <= 0 {
			// never stall the game on an idle drawer
			if choices := that.state.WordChoices; len(choices) > 0 {
				that.beginDrawingLocked(choices[rand.Intn(len(choices))]) //nolint: gosec // it's ok
			} else {
				that.endTurnLocked()
			}
			return
		}

		that.pushLocked()
	case entity.PhaseDrawing, entity.PhaseGuessing:
		that.state.Timer--
		that.revealHintLocked()
		if that.state.Timer <= 0 {
			that.endTurnLocked()
			return
		}

		that.pushLocked()
	case entity.PhaseTurnResults:
		that.state.Timer--
		if that.state.Timer <= 0 {
			that.startTurnLocked()
			return
		}

		that.pushLocked()
	default:
		// lobby and results have no countdown, but a heartbeat-detected
		// drop still has to reach the room
		if dropped {
			that.pushLocked()
		}
	}
}

func (that *Controller) checkHeartbeatsLocked() bool {
	dropped := false

	now := time.Now()
	for _, player := range that.state.Players {
		if player.IsHost || !player.IsConnected {
			continue
		}

		seen, ok := that.lastSeen[player.Address]
		if !ok || now.Sub(seen) <= that.conf.HeartbeatTimeout {
			continue
		}

		player.IsConnected = false
		that.appendSystemLocked(player.Name + " lost connection")
		dropped = true
	}

	return dropped
}

func (that *Controller) revealHintLocked() {
	if that.state.Phase != entity.PhaseDrawing || that.state.Word == "" {
		return
	}

	ratio := timeRatio(that.state.Timer, that.state.Settings.DrawTime)
	for that.hintsRevealed < len(hintThresholds) && ratio <= hintThresholds[that.hintsRevealed] {
		that.state.Hint = entity.RevealHintRune(that.state.Hint, that.state.Word)
		that.hintsRevealed++
	}
}

// HandlePeerConnected - transport event; players only exist once they join.
func (that *Controller) HandlePeerConnected(addr string) {
	that.logger.Debug("peer connected", "addr", addr)
}

// HandlePeerDisconnected marks the player in place. Scores, drawer queue
// membership and round totals are untouched: a dead drawer's turn times
// out like any other.
func (that *Controller) HandlePeerDisconnected(addr string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	player := that.state.FindPlayer(addr)
	if player == nil || !player.IsConnected {
		return
	}

	player.IsConnected = false
	that.appendSystemLocked(player.Name + " left the room")
	that.pushLocked()
}

// HandleMessage is the host-side dispatch table. Unknown or malformed
// messages are dropped, never fatal.
func (that *Controller) HandleMessage(addr string, msg protocol.Message) {
	log := that.logger.With("method", "HandleMessage")

	that.touch(addr)

	switch msg.Type {
	case protocol.KindJoinRequest:
		var req protocol.JoinRequest
		if err := msg.Decode(&req); err != nil {
			log.Debug("dropping malformed join request", "addr", addr, "error", err)
			return
		}

		that.handleJoin(addr, req)
	case protocol.KindSelectWord:
		var req protocol.SelectWord
		if err := msg.Decode(&req); err != nil {
			log.Debug("dropping malformed word selection", "addr", addr, "error", err)
			return
		}

		that.handleSelectWord(addr, req.Word)
	case protocol.KindChatMessage:
		var chat entity.ChatMessage
		if err := msg.Decode(&chat); err != nil {
			log.Debug("dropping malformed chat message", "addr", addr, "error", err)
			return
		}

		that.handleChat(addr, chat.Text)
	case protocol.KindAvatarUpdate:
		var req protocol.AvatarUpdate
		if err := msg.Decode(&req); err != nil {
			log.Debug("dropping malformed avatar update", "addr", addr, "error", err)
			return
		}

		that.handleAvatarUpdate(addr, req.Avatar)
	case protocol.KindSubmitDrawing:
		var req protocol.SubmitDrawing
		if err := msg.Decode(&req); err != nil {
			log.Debug("dropping malformed drawing submission", "addr", addr, "error", err)
			return
		}

		that.handleSubmitDrawing(addr, req.Data)
	case protocol.KindPing:
		_ = that.transport.Send(addr, protocol.NewPong())
	case protocol.KindPong:
		// touch above already recorded the heartbeat
	default:
		if protocol.IsDrawEvent(msg.Type) {
			that.relayDrawing(addr, msg)
			return
		}

		log.Debug("ignoring unknown message", "addr", addr, "type", msg.Type)
	}
}

func (that *Controller) touch(addr string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.lastSeen[addr] = time.Now()
}

func (that *Controller) handleJoin(addr string, req protocol.JoinRequest) {
	log := that.logger.With("method", "handleJoin")

	name := validation.SanitizeName(req.Name)
	if !validation.ValidPlayerName(name) {
		log.Debug("rejecting join with invalid name", "addr", addr)
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if existing := that.state.FindPlayer(addr); existing != nil {
		existing.IsConnected = true
		existing.Name = name
		if req.Avatar != "" {
			existing.Avatar = req.Avatar
		}

		that.appendSystemLocked(name + " reconnected")
		that.pushLocked()
		that.sendSnapshotLocked(addr)
		return
	}

	player := entity.NewPlayer(addr, name, req.Avatar, false)
	that.state.Players = append(that.state.Players, player)
	that.appendSystemLocked(name + " joined the room")
	that.pushLocked()

	// the broadcast can race the transport registering the new peer, so
	// the joiner also gets a direct snapshot
	that.sendSnapshotLocked(addr)

	if that.conf.AutoStartPlayers > 0 &&
		that.state.Phase == entity.PhaseLobby &&
		len(that.state.Players) >= that.conf.AutoStartPlayers {
		if err := that.startGameLocked(); err != nil {
			log.Debug("auto start skipped", "error", err)
		}
	}
}

func (that *Controller) handleSelectWord(addr, word string) {
	log := that.logger.With("method", "handleSelectWord")

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.state.Phase != entity.PhaseWordSelection {
		log.Debug("ignoring word selection", "addr", addr, "error", apperror.ErrWrongPhase)
		return
	}

	if !that.state.IsDrawer(addr) {
		log.Debug("ignoring word selection", "addr", addr, "error", apperror.ErrNotTheDrawer)
		return
	}

	offered := false
	for _, choice := range that.state.WordChoices {
		if choice == word {
			offered = true
			break
		}
	}
	if !offered {
		log.Debug("ignoring word selection", "addr", addr, "error", apperror.ErrWordNotOffered)
		return
	}

	that.beginDrawingLocked(word)
}

func (that *Controller) handleChat(addr, text string) {
	log := that.logger.With("method", "handleChat")

	text = validation.SanitizeMessage(text)
	if !validation.ValidGuess(text) {
		return
	}

	if !that.limiter(addr).Allow() {
		log.Debug("rate limit exceeded", "addr", addr)
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	player := that.state.FindPlayer(addr)
	if player == nil {
		return
	}

	if that.state.Phase == entity.PhaseDrawing && that.isCorrectGuessLocked(text) {
		that.handleCorrectGuessLocked(player)
		return
	}

	kind := entity.ChatKindChat
	if that.state.Phase == entity.PhaseDrawing {
		kind = entity.ChatKindGuess
		if validation.IsDuplicateGuess(text, addr, that.state.Chat) {
			return
		}
	}

	that.state.Chat = append(that.state.Chat, entity.NewChatMessage(addr, player.Name, text, kind))
	that.pushLocked()
}

func (that *Controller) isCorrectGuessLocked(text string) bool {
	return that.state.Word != "" &&
		strings.EqualFold(strings.TrimSpace(text), that.state.Word)
}

// handleCorrectGuessLocked awards points exactly once per player per
// turn; the correct text itself is never echoed to the room.
func (that *Controller) handleCorrectGuessLocked(player *entity.Player) {
	if that.state.IsDrawer(player.Address) {
		if !that.conf.AllowDrawerGuess || player.HasGuessed {
			return
		}

		player.HasGuessed = true
		that.appendSystemLocked(player.Name + " ended the turn early")

		// the drawer's flag is invisible to AllNonDrawersGuessed, so the
		// clock collapses right here
		if !that.endingEarly {
			that.endingEarly = true
			that.state.Timer = that.conf.EarlyEndDelay
		}
	} else {
		if player.HasGuessed {
			return
		}

		points := GuesserPoints(that.state.Timer, that.state.Settings.DrawTime, that.correctGuessers)
		player.Score += points
		player.HasGuessed = true
		that.correctGuessers++

		if drawer := that.state.FindPlayer(that.state.Drawer); drawer != nil {
			drawer.Score += DrawerDrip(that.state.Timer, that.state.Settings.DrawTime)
		}

		that.appendSystemLocked(player.Name + " guessed the word!")
	}

	// let the success message land in the UI before the results screen
	if that.state.AllNonDrawersGuessed() && !that.endingEarly {
		that.endingEarly = true
		that.state.Timer = that.conf.EarlyEndDelay
	}

	that.pushLocked()
}

func (that *Controller) handleAvatarUpdate(addr, avatar string) {
	if avatar == "" {
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	player := that.state.FindPlayer(addr)
	if player == nil {
		return
	}

	player.Avatar = avatar
	that.pushLocked()
}

// handleSubmitDrawing stores a validated drawing image (legacy vote-mode
// artifact; the guess flow is the normative loop).
func (that *Controller) handleSubmitDrawing(addr, data string) {
	log := that.logger.With("method", "handleSubmitDrawing")

	if err := validation.ValidateDrawingData(data); err != nil {
		log.Debug("rejecting drawing submission", "addr", addr, "error", err)
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.state.FindPlayer(addr) == nil {
		return
	}

	that.state.Drawings = append(that.state.Drawings, entity.Drawing{Player: addr, Data: data})
	that.pushLocked()
}

// relayDrawing fans a drawing event out verbatim to every other
// connected player, but only when it comes from the current drawer.
func (that *Controller) relayDrawing(addr string, msg protocol.Message) {
	log := that.logger.With("method", "relayDrawing")

	that.mu.Lock()
	if that.state.Phase != entity.PhaseDrawing {
		that.mu.Unlock()
		log.Debug("dropping drawing event", "addr", addr, "error", apperror.ErrWrongPhase)
		return
	}

	if !that.state.IsDrawer(addr) {
		that.mu.Unlock()
		log.Debug("dropping drawing event", "addr", addr, "error", apperror.ErrNotTheDrawer)
		return
	}

	selfAddr := that.transport.Addr()
	recipients := make([]string, 0, len(that.state.Players))
	for _, player := range that.state.Players {
		if !player.IsConnected || player.Address == addr || player.Address == selfAddr {
			continue
		}

		recipients = append(recipients, player.Address)
	}
	onDraw := that.onDraw
	that.mu.Unlock()

	for _, recipient := range recipients {
		if err := that.transport.Send(recipient, msg); err != nil {
			log.Debug("failed to relay drawing event", "addr", recipient, "error", err)
		}
	}

	if onDraw != nil && addr != selfAddr {
		onDraw(msg)
	}
}

func (that *Controller) limiter(addr string) *validation.RateLimiter {
	that.mu.Lock()
	defer that.mu.Unlock()

	limiter, ok := that.limiters[addr]
	if !ok {
		limiter = validation.NewRateLimiter(validation.DefaultRateLimit, validation.DefaultRateWindow)
		that.limiters[addr] = limiter
	}

	return limiter
}

func (that *Controller) appendSystemLocked(text string) {
	that.state.Chat = append(that.state.Chat, entity.NewSystemMessage(text))
}

// pushLocked sends each connected client its own redacted snapshot.
func (that *Controller) pushLocked() {
	selfAddr := that.transport.Addr()
	for _, player := range that.state.Players {
		if !player.IsConnected || player.Address == selfAddr {
			continue
		}

		that.sendSnapshotLocked(player.Address)
	}
}

func (that *Controller) sendSnapshotLocked(addr string) {
	msg := protocol.NewGameStateUpdate(that.state.Redact(addr))
	if err := that.transport.Send(addr, msg); err != nil {
		that.logger.Debug("failed to push state", "addr", addr, "error", err)
	}
}
