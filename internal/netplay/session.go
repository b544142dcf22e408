package netplay

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/qballcreative/plunder/internal/game"
	"github.com/qballcreative/plunder/internal/roomcode"
	"github.com/qballcreative/plunder/internal/sanitize"
)

// ConnState is the connection lifecycle of a Session.
type ConnState string

const (
	StateIdle         ConnState = "idle"
	StateHosting      ConnState = "hosting"
	StateJoining      ConnState = "joining"
	StateConnected    ConnState = "connected"
	StateDisconnected ConnState = "disconnected"
	StateError        ConnState = "error"
)

// Role is which side of the table a Session plays.
type Role string

const (
	RoleNone  Role = ""
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

const (
	DefaultPingInterval   = 2 * time.Second
	DefaultMaxMissedPings = 3

	hostSeat  = 0
	guestSeat = 1
)

var (
	ErrNotConnected = errors.New("not connected to a peer")
	ErrBusy         = errors.New("session already in use")
	ErrNotHost      = errors.New("only the host can do that")
	ErrNoSession    = errors.New("no session to reconnect")
)

// ChatLine is one line of chat shown to the local player.
type ChatLine struct {
	From string
	Text string
}

// Status is a point-in-time view of a Session's connection.
type Status struct {
	State         ConnState
	Role          Role
	Code          string
	Name          string
	OpponentName  string
	OpponentReady bool
	Latency       time.Duration
	HasLatency    bool
	Quality       Quality
	Err           string
}

// Session synchronizes one game with a remote peer. The host runs the
// authoritative game and broadcasts a snapshot after every change; the
// guest only applies snapshots and forwards its intents to the host.
//
// Session is safe for concurrent use. Its game must not be used directly
// once it has been handed to the session.
type Session struct {
	transport    Transport
	clock        quartz.Clock
	logger       *log.Logger
	pingInterval time.Duration
	maxMissed    int

	mu            sync.Mutex
	game          *game.Game
	role          Role
	name          string
	code          string
	state         ConnState
	opponent      string
	opponentReady bool
	latency       time.Duration
	hasLatency    bool
	errText       string
	missed        int
	ch            Channel
	connCtx       context.Context
	stop          context.CancelFunc
	chat          []ChatLine
	broadcasting  bool
	changed       chan struct{}
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock driving the heartbeat.
func WithClock(clock quartz.Clock) Option {
	return func(s *Session) { s.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithHeartbeat sets the ping interval and how many unanswered pings are
// tolerated before the peer is considered gone.
func WithHeartbeat(interval time.Duration, maxMissed int) Option {
	return func(s *Session) {
		if interval > 0 {
			s.pingInterval = interval
		}
		if maxMissed > 0 {
			s.maxMissed = maxMissed
		}
	}
}

// NewSession creates an idle session that plays g over transport. A nil g
// gets a fresh game.
func NewSession(transport Transport, g *game.Game, opts ...Option) *Session {
	s := &Session{
		transport:    transport,
		pingInterval: DefaultPingInterval,
		maxMissed:    DefaultMaxMissedPings,
		state:        StateIdle,
		changed:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = quartz.NewReal()
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s.logger = s.logger.WithPrefix("netplay")
	if g == nil {
		g = game.New(game.WithLogger(s.logger))
	}
	s.game = g
	return s
}

// Changed receives a value whenever the connection or game state changes.
// Notifications are coalesced.
func (s *Session) Changed() <-chan struct{} {
	return s.changed
}

func (s *Session) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

// Status returns the current connection status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		State:         s.state,
		Role:          s.role,
		Code:          s.code,
		Name:          s.name,
		OpponentName:  s.opponent,
		OpponentReady: s.opponentReady,
		Latency:       s.latency,
		HasLatency:    s.hasLatency,
		Quality:       ConnectionQuality(s.state, s.latency, s.hasLatency),
		Err:           s.errText,
	}
}

// GameState returns a copy of the local game state. On the guest the local
// player is always at index 0.
func (s *Session) GameState() game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.State()
}

// Chat returns the chat log.
func (s *Session) Chat() []ChatLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatLine, len(s.chat))
	copy(out, s.chat)
	return out
}

// Host waits for a guest on code, generating one if code is empty. The
// code is visible through Status while Host blocks.
func (s *Session) Host(ctx context.Context, name, code string) error {
	if code == "" {
		code = roomcode.Generate()
	}
	if err := s.begin(RoleHost, StateHosting, name, code); err != nil {
		return err
	}
	s.logger.Info("Hosting game", "code", s.Status().Code)
	ch, err := s.transport.Host(ctx, s.Status().Code)
	if err != nil {
		s.fail(err)
		return err
	}
	s.attach(ch)
	return nil
}

// Join connects to the host waiting on code.
func (s *Session) Join(ctx context.Context, name, code string) error {
	if err := s.begin(RoleGuest, StateJoining, name, code); err != nil {
		return err
	}
	s.logger.Info("Joining game", "code", s.Status().Code)
	ch, err := s.transport.Join(ctx, s.Status().Code)
	if err != nil {
		s.fail(err)
		return err
	}
	s.attach(ch)
	return nil
}

func (s *Session) begin(role Role, state ConnState, name, code string) error {
	code = roomcode.Normalize(code)
	if err := roomcode.Validate(code); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch != nil || s.state == StateHosting || s.state == StateJoining {
		return ErrBusy
	}
	s.role = role
	s.name = sanitize.PlayerName(name)
	s.code = code
	s.errText = ""
	s.state = state
	s.notify()
	return nil
}

// Reconnect re-establishes the channel on the same code: the host hosts
// again and the guest dials again. The host sends rejoin-sync when a game
// is in progress.
func (s *Session) Reconnect(ctx context.Context) error {
	s.mu.Lock()
	role, code := s.role, s.code
	if role == RoleNone {
		s.mu.Unlock()
		return ErrNoSession
	}
	if s.ch != nil {
		s.dropLocked(StateDisconnected, "")
	}
	if role == RoleHost {
		s.state = StateHosting
	} else {
		s.state = StateJoining
	}
	s.errText = ""
	s.notify()
	s.mu.Unlock()

	s.logger.Info("Reconnecting", "role", role, "code", code)
	var ch Channel
	var err error
	if role == RoleHost {
		ch, err = s.transport.Host(ctx, code)
	} else {
		ch, err = s.transport.Join(ctx, code)
	}
	if err != nil {
		s.fail(err)
		return err
	}
	s.attach(ch)
	return nil
}

// Disconnect closes the channel and returns the session to idle.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch != nil {
		s.dropLocked(StateIdle, "")
	}
	if s.broadcasting {
		s.game.Events().Unsubscribe(broadcaster{s})
		s.broadcasting = false
	}
	s.state = StateIdle
	s.role = RoleNone
	s.code = ""
	s.opponent = ""
	s.opponentReady = false
	s.errText = ""
	s.chat = nil
	s.notify()
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Error("Connection failed", "error", err)
	s.state = StateError
	s.errText = err.Error()
	s.notify()
}

// attach takes ownership of a freshly connected channel.
func (s *Session) attach(ch Channel) {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	s.ch = ch
	s.connCtx = ctx
	s.stop = cancel
	s.missed = 0
	s.latency = 0
	s.hasLatency = false
	s.errText = ""
	s.state = StateConnected
	s.logger.Info("Connected", "role", s.role, "code", s.code)

	s.sendLocked(TypeChat, ChatPayload{Name: s.name})
	if s.role == RoleHost && s.game.Phase() != game.PhaseLobby {
		s.sendSyncLocked(TypeRejoinSync)
	}
	s.notify()
	s.mu.Unlock()

	s.clock.TickerFunc(ctx, s.pingInterval, func() error { return s.heartbeat(ctx) }, "heartbeat")
	go s.readLoop(ctx, ch)
}

// dropLocked tears down the channel and heartbeat. s.mu must be held.
func (s *Session) dropLocked(state ConnState, errText string) {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	if s.ch != nil {
		_ = s.ch.Close()
		s.ch = nil
	}
	s.state = state
	s.errText = errText
	s.latency = 0
	s.hasLatency = false
	s.missed = 0
	s.notify()
}

func (s *Session) readLoop(ctx context.Context, ch Channel) {
	for {
		msg, err := ch.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.mu.Lock()
			if s.ch == ch {
				if errors.Is(err, ErrClosed) {
					s.logger.Warn("Peer disconnected", "code", s.code)
					s.dropLocked(StateDisconnected, "")
				} else {
					s.logger.Error("Connection error", "error", err)
					s.dropLocked(StateError, err.Error())
				}
			}
			s.mu.Unlock()
			return
		}
		s.handle(ch, msg)
	}
}

// sendLocked sends a message on the current channel. Failures are logged;
// the read loop notices a dead channel. s.mu must be held.
func (s *Session) sendLocked(t MessageType, payload any) {
	if s.ch == nil {
		return
	}
	msg, err := NewMessage(t, payload)
	if err != nil {
		s.logger.Error("Failed to create message", "type", t, "error", err)
		return
	}
	if err := s.ch.Send(s.connCtx, msg); err != nil {
		s.logger.Warn("Failed to send message", "type", t, "error", err)
	}
}

// sendSyncLocked sends the full host state. s.mu must be held.
func (s *Session) sendSyncLocked(t MessageType) {
	state := s.game.Snapshot()
	s.sendLocked(t, SyncPayload{OptionalRules: state.OptionalRules, GameState: &state})
}

// broadcaster sends a game-state snapshot to the guest after each change
// to the host's game. Game events are delivered while s.mu is held.
type broadcaster struct {
	s *Session
}

func (b broadcaster) OnEvent(e game.GameEvent) {
	switch e.EventType() {
	case game.EventTypeAction, game.EventTypeRoundStart, game.EventTypeGameEnd:
		b.s.sendSyncLocked(TypeGameState)
	}
}

// StartGame deals a new game on the host and sends it to the guest.
func (s *Session) StartGame(rules game.OptionalRules) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.role != RoleHost {
		return ErrNotHost
	}
	if s.ch == nil {
		return ErrNotConnected
	}
	opponent := s.opponent
	if opponent == "" {
		opponent = "Opponent"
	}
	s.game.StartMultiplayer(s.name, opponent, rules)
	if !s.broadcasting {
		s.game.Events().Subscribe(broadcaster{s})
		s.broadcasting = true
	}
	s.sendSyncLocked(TypeStart)
	s.notify()
	return nil
}

// Act plays an action for the local player. The host executes it; the
// guest checks it against its copy of the state and forwards it.
func (s *Session) Act(a game.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.role {
	case RoleHost:
		if err := s.game.ApplyFor(hostSeat, a); err != nil {
			return err
		}
	case RoleGuest:
		if s.ch == nil {
			return ErrNotConnected
		}
		// The guest sees itself at index 0.
		if err := s.game.CheckFor(0, a); err != nil {
			return err
		}
		s.sendLocked(TypeAction, ActionPayload{Action: a})
	default:
		return ErrNotConnected
	}
	s.notify()
	return nil
}

// NextRound deals the next round on the host, or asks the host to.
func (s *Session) NextRound() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.role {
	case RoleHost:
		if err := s.game.NextRound(); err != nil {
			return err
		}
	case RoleGuest:
		if s.ch == nil {
			return ErrNotConnected
		}
		if s.game.Phase() != game.PhaseRoundEnd {
			return game.ErrNotRoundEnd
		}
		s.sendLocked(TypeNextRound, nil)
	default:
		return ErrNotConnected
	}
	s.notify()
	return nil
}

// SendChat sends a chat line to the peer.
func (s *Session) SendChat(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch == nil {
		return ErrNotConnected
	}
	text = sanitize.ChatMessage(text)
	if text == "" {
		return nil
	}
	s.chat = append(s.chat, ChatLine{From: s.name, Text: text})
	s.sendLocked(TypeChat, ChatPayload{Text: text})
	s.notify()
	return nil
}

// SetReady tells the host the guest is ready to start.
func (s *Session) SetReady() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch == nil {
		return ErrNotConnected
	}
	s.sendLocked(TypeReady, ReadyPayload{Ready: true})
	return nil
}
