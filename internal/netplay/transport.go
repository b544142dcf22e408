package netplay

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by a Channel once either end has closed it.
var ErrClosed = errors.New("channel closed")

// Channel is a reliable, ordered, bidirectional message channel to the peer.
type Channel interface {
	Send(ctx context.Context, msg Message) error
	// Receive blocks until a message arrives. It returns ErrClosed once the
	// channel is closed and drained.
	Receive(ctx context.Context) (Message, error)
	Close() error
}

// Transport establishes channels between two peers that share a room code.
type Transport interface {
	// Host waits for a guest to join code.
	Host(ctx context.Context, code string) (Channel, error)
	// Join connects to the host waiting on code.
	Join(ctx context.Context, code string) (Channel, error)
}

const pipeBuffer = 64

// MemoryTransport pairs peers in process. Host and Join each block until
// the other side arrives.
type MemoryTransport struct {
	mu    sync.Mutex
	slots map[string]chan Channel
	live  map[string]*pipe
}

// NewMemoryTransport returns an empty in-process transport.
func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{
		slots: make(map[string]chan Channel),
		live:  make(map[string]*pipe),
	}
}

func (t *MemoryTransport) slot(code string) chan Channel {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.slots[code]
	if !ok {
		s = make(chan Channel)
		t.slots[code] = s
	}
	return s
}

// Host implements Transport.
func (t *MemoryTransport) Host(ctx context.Context, code string) (Channel, error) {
	host, guest := Pipe()
	select {
	case t.slot(code) <- guest:
		t.mu.Lock()
		t.live[code] = host.p
		t.mu.Unlock()
		return host, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Join implements Transport.
func (t *MemoryTransport) Join(ctx context.Context, code string) (Channel, error) {
	select {
	case ch := <-t.slot(code):
		return ch, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Sever closes the most recent channel on code, as if the network dropped.
func (t *MemoryTransport) Sever(code string) {
	t.mu.Lock()
	p := t.live[code]
	delete(t.live, code)
	t.mu.Unlock()
	if p != nil {
		p.close()
	}
}

type pipe struct {
	done chan struct{}
	once sync.Once
}

func (p *pipe) close() {
	p.once.Do(func() { close(p.done) })
}

// PipeEnd is one end of an in-memory channel.
type PipeEnd struct {
	p   *pipe
	in  <-chan Message
	out chan<- Message
}

// Pipe returns two connected channel ends.
func Pipe() (*PipeEnd, *PipeEnd) {
	p := &pipe{done: make(chan struct{})}
	ab := make(chan Message, pipeBuffer)
	ba := make(chan Message, pipeBuffer)
	return &PipeEnd{p: p, in: ba, out: ab}, &PipeEnd{p: p, in: ab, out: ba}
}

// Send implements Channel.
func (e *PipeEnd) Send(ctx context.Context, msg Message) error {
	select {
	case <-e.p.done:
		return ErrClosed
	default:
	}
	select {
	case e.out <- msg:
		return nil
	case <-e.p.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive implements Channel.
func (e *PipeEnd) Receive(ctx context.Context) (Message, error) {
	select {
	case msg := <-e.in:
		return msg, nil
	case <-e.p.done:
		select {
		case msg := <-e.in:
			return msg, nil
		default:
			return Message{}, ErrClosed
		}
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

// Close implements Channel. Closing either end closes both.
func (e *PipeEnd) Close() error {
	e.p.close()
	return nil
}
