package relay

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a frame to a peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from a peer
	pongWait = 60 * time.Second

	// Send pings with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Largest frame accepted; full game snapshots fit comfortably
	maxMessageSize = 256 << 10

	sendBuffer = 64
)

// peer is one websocket connection attached to a room.
type peer struct {
	conn   *websocket.Conn
	code   string
	role   Role
	logger *log.Logger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	partner *peer
}

func newPeer(conn *websocket.Conn, code string, role Role, logger *log.Logger) *peer {
	return &peer{
		conn:   conn,
		code:   code,
		role:   role,
		logger: logger.With("code", code, "role", role),
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
}

func (p *peer) setPartner(other *peer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.partner = other
}

func (p *peer) getPartner() *peer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.partner
}

// enqueue queues a frame for the write pump. A peer that cannot keep up is
// disconnected.
func (p *peer) enqueue(frame []byte) {
	select {
	case p.send <- frame:
	case <-p.done:
	default:
		p.logger.Warn("Peer send buffer full, closing connection")
		p.close()
	}
}

func (p *peer) close() {
	p.closeOnce.Do(func() {
		close(p.done)
		_ = p.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		_ = p.conn.Close()
	})
}

// readPump forwards every text frame from p to its partner. Frames that
// arrive before pairing are dropped.
func (s *Server) readPump(p *peer) error {
	defer p.close()

	p.conn.SetReadLimit(maxMessageSize)
	_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, frame, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				return fmt.Errorf("read: %w", err)
			}
			return nil
		}
		if kind != websocket.TextMessage {
			continue
		}

		partner := p.getPartner()
		if partner == nil {
			p.logger.Debug("Dropping frame from unpaired peer", "bytes", len(frame))
			continue
		}
		partner.enqueue(frame)
	}
}

// writePump writes queued frames to p and keeps the connection alive.
func (s *Server) writePump(p *peer) error {
	ticker := s.clock.NewTicker(pingPeriod, "relay", "ping")
	defer ticker.Stop()
	defer p.close()

	for {
		select {
		case frame := <-p.send:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return fmt.Errorf("write: %w", err)
			}

		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return fmt.Errorf("ping: %w", err)
			}

		case <-p.done:
			return nil
		}
	}
}
