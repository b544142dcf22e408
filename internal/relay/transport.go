package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/qballcreative/plunder/internal/netplay"
)

// typePaired is the only frame the relay itself originates. It tells a
// waiting peer that the other side has arrived.
const typePaired netplay.MessageType = "relay-paired"

var pairedFrame = []byte(`{"type":"` + string(typePaired) + `"}`)

// Transport implements netplay.Transport over a relay server.
type Transport struct {
	url    string
	clock  quartz.Clock
	logger *log.Logger
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithClock sets the clock used for keepalive pings.
func WithClock(clock quartz.Clock) TransportOption {
	return func(t *Transport) { t.clock = clock }
}

// NewTransport creates a transport that dials the relay at relayURL. http
// and https URLs are converted to ws and wss.
func NewTransport(relayURL string, logger *log.Logger, opts ...TransportOption) *Transport {
	t := &Transport{
		url:    relayURL,
		clock:  quartz.NewReal(),
		logger: logger.WithPrefix("relay"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Host implements netplay.Transport. It blocks until a guest joins code.
func (t *Transport) Host(ctx context.Context, code string) (netplay.Channel, error) {
	return t.dial(ctx, code, RoleHost)
}

// Join implements netplay.Transport. It blocks until a host is on code.
func (t *Transport) Join(ctx context.Context, code string) (netplay.Channel, error) {
	return t.dial(ctx, code, RoleGuest)
}

func (t *Transport) endpoint(code string, role Role) (string, error) {
	u, err := url.Parse(t.url)
	if err != nil {
		return "", fmt.Errorf("invalid relay URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid relay URL scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	q := u.Query()
	q.Set("code", code)
	q.Set("role", string(role))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (t *Transport) dial(ctx context.Context, code string, role Role) (netplay.Channel, error) {
	endpoint, err := t.endpoint(code, role)
	if err != nil {
		return nil, err
	}

	t.logger.Debug("Connecting to relay", "url", endpoint)
	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("relay refused connection (%s): %w", resp.Status, err)
		}
		return nil, fmt.Errorf("failed to connect to relay: %w", err)
	}

	if err := awaitPartner(ctx, ws); err != nil {
		_ = ws.Close()
		return nil, err
	}
	t.logger.Info("Paired through relay", "code", code, "role", role)

	c := &Conn{
		conn:   ws,
		logger: t.logger,
		in:     make(chan netplay.Message, sendBuffer),
		out:    make(chan netplay.Message, sendBuffer),
		done:   make(chan struct{}),
	}
	go c.readPump()
	go c.writePump(t.clock)
	return c, nil
}

// awaitPartner blocks until the relay reports the other side has arrived.
func awaitPartner(ctx context.Context, ws *websocket.Conn) error {
	stop := context.AfterFunc(ctx, func() { _ = ws.Close() })
	var msg netplay.Message
	err := ws.ReadJSON(&msg)
	if !stop() {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("relay closed before a peer arrived: %w", err)
	}
	if msg.Type != typePaired {
		return fmt.Errorf("unexpected relay frame %q", msg.Type)
	}
	return nil
}

// Conn is a netplay.Channel over a relay websocket.
type Conn struct {
	conn      *websocket.Conn
	logger    *log.Logger
	in        chan netplay.Message
	out       chan netplay.Message
	done      chan struct{}
	closeOnce sync.Once
}

// Send implements netplay.Channel.
func (c *Conn) Send(ctx context.Context, msg netplay.Message) error {
	select {
	case <-c.done:
		return netplay.ErrClosed
	default:
	}
	select {
	case c.out <- msg:
		return nil
	case <-c.done:
		return netplay.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive implements netplay.Channel. Messages read before the connection
// dropped are still delivered.
func (c *Conn) Receive(ctx context.Context) (netplay.Message, error) {
	select {
	case msg := <-c.in:
		return msg, nil
	case <-c.done:
		select {
		case msg := <-c.in:
			return msg, nil
		default:
			return netplay.Message{}, netplay.ErrClosed
		}
	case <-ctx.Done():
		return netplay.Message{}, ctx.Err()
	}
}

// Close implements netplay.Channel.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		err = c.conn.Close()
	})
	return err
}

func (c *Conn) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		var msg netplay.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn("Ignoring malformed frame", "error", err)
			continue
		}
		if msg.Type == typePaired {
			continue
		}

		select {
		case c.in <- msg:
		case <-c.done:
			return
		}
	}
}

func (c *Conn) writePump(clock quartz.Clock) {
	ticker := clock.NewTicker(pingPeriod, "relay", "ping")
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case msg := <-c.out:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Error("Failed to write message", "type", msg.Type, "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}
