package netplay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qballcreative/plunder/internal/game"
	"github.com/qballcreative/plunder/internal/sanitize"
)

var (
	errWrongRole        = errors.New("message not expected by this role")
	errHeartbeatStopped = errors.New("heartbeat stopped")
)

// handle dispatches one message read from ch. Messages from a channel that
// is no longer current are dropped; malformed or unexpected messages are
// logged and ignored.
func (s *Session) handle(ch Channel, msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch != ch {
		s.logger.Debug("Dropping message from stale channel", "type", msg.Type)
		return
	}

	s.logger.Debug("Received message", "type", msg.Type, "role", s.role)
	var err error
	switch msg.Type {
	case TypeChat:
		err = s.onChat(msg)
	case TypePing:
		err = s.onPing(msg)
	case TypePong:
		err = s.onPong(msg)
	case TypeStart, TypeRejoinSync, TypeGameState:
		err = s.onSync(msg)
	case TypeReady:
		err = s.onReady(msg)
	case TypeAction:
		err = s.onAction(msg)
	case TypeNextRound:
		err = s.onNextRound()
	default:
		err = fmt.Errorf("%w: unknown type %q", ErrMalformed, msg.Type)
	}
	if err != nil {
		s.logger.Warn("Ignoring message", "type", msg.Type, "error", err)
		return
	}
	s.notify()
}

func (s *Session) onChat(msg Message) error {
	var p ChatPayload
	if err := msg.Decode(&p); err != nil {
		return err
	}
	if p.Name == "" && p.Text == "" {
		return fmt.Errorf("%w: empty chat", ErrMalformed)
	}
	if p.Name != "" {
		s.opponent = sanitize.PlayerName(p.Name)
		s.logger.Info("Opponent identified", "name", s.opponent)
	}
	if p.Text != "" {
		if text := sanitize.ChatMessage(p.Text); text != "" {
			s.chat = append(s.chat, ChatLine{From: s.opponent, Text: text})
		}
	}
	return nil
}

func (s *Session) onPing(msg Message) error {
	var ts int64
	if err := msg.Decode(&ts); err != nil {
		return err
	}
	s.sendLocked(TypePong, ts)
	return nil
}

func (s *Session) onPong(msg Message) error {
	var ts int64
	if err := msg.Decode(&ts); err != nil {
		return err
	}
	s.latency = max(0, s.clock.Now().Sub(time.UnixMilli(ts)))
	s.hasLatency = true
	s.missed = 0
	return nil
}

func (s *Session) onSync(msg Message) error {
	if s.role != RoleGuest {
		return errWrongRole
	}
	var p SyncPayload
	if err := msg.Decode(&p); err != nil {
		return err
	}
	if p.GameState == nil {
		return fmt.Errorf("%w: %s without gameState", ErrMalformed, msg.Type)
	}
	s.game.ApplySnapshot(*p.GameState, true)
	s.logger.Debug("Applied host state", "type", msg.Type, "phase", p.GameState.Phase, "turn", p.GameState.TurnCount)
	return nil
}

func (s *Session) onReady(msg Message) error {
	var p ReadyPayload
	if err := msg.Decode(&p); err != nil {
		return err
	}
	s.opponentReady = p.Ready
	return nil
}

func (s *Session) onAction(msg Message) error {
	if s.role != RoleHost {
		return errWrongRole
	}
	var p ActionPayload
	if err := msg.Decode(&p); err != nil {
		return err
	}
	if err := s.game.ApplyFor(guestSeat, p.Action); err != nil {
		// Resync so the guest drops whatever it expected to happen.
		s.sendSyncLocked(TypeGameState)
		return fmt.Errorf("guest action %s rejected: %w", p.Action, err)
	}
	s.logger.Debug("Applied guest action", "action", p.Action)
	return nil
}

func (s *Session) onNextRound() error {
	if s.role != RoleHost {
		return errWrongRole
	}
	if s.game.Phase() != game.PhaseRoundEnd {
		return game.ErrNotRoundEnd
	}
	return s.game.NextRound()
}

// heartbeat runs every ping interval while connected. Once maxMissed pings
// have gone unanswered the peer is considered gone.
func (s *Session) heartbeat(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Err() != nil || s.state != StateConnected || s.ch == nil {
		return errHeartbeatStopped
	}
	if s.missed >= s.maxMissed {
		s.logger.Warn("Peer stopped answering pings", "missed", s.missed, "code", s.code)
		s.dropLocked(StateDisconnected, "")
		return errHeartbeatStopped
	}
	s.missed++
	s.sendLocked(TypePing, s.clock.Now().UnixMilli())
	return nil
}
