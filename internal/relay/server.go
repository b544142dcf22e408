package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/qballcreative/plunder/internal/roomcode"
	"golang.org/x/sync/errgroup"
)

// Role is the side a peer takes when it connects to the relay.
type Role string

const (
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

// room pairs at most one host with one guest on a code.
type room struct {
	host  *peer
	guest *peer
}

func (r *room) slot(role Role) **peer {
	if role == RoleHost {
		return &r.host
	}
	return &r.guest
}

// Server is a websocket rendezvous that pairs a host and a guest by room
// code and forwards frames between them untouched.
type Server struct {
	addr     string
	upgrader websocket.Upgrader
	logger   *log.Logger
	clock    quartz.Clock

	mu    sync.Mutex
	rooms map[string]*room
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerClock sets the clock used for keepalive pings.
func WithServerClock(clock quartz.Clock) ServerOption {
	return func(s *Server) { s.clock = clock }
}

// NewServer creates a relay server that will listen on addr.
func NewServer(addr string, logger *log.Logger, opts ...ServerOption) *Server {
	s := &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			// Peers are native clients, not browsers.
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.WithPrefix("relay"),
		clock:  quartz.NewReal(),
		rooms:  make(map[string]*room),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler serving /ws and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down and closes
// every peer.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		s.logger.Info("Starting relay server", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("relay server: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down relay server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.closeAll()
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}

// Rooms returns the number of codes with at least one peer attached.
func (s *Server) Rooms() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

func (s *Server) closeAll() {
	s.mu.Lock()
	var peers []*peer
	for _, r := range s.rooms {
		for _, p := range []*peer{r.host, r.guest} {
			if p != nil {
				peers = append(peers, p)
			}
		}
	}
	s.rooms = make(map[string]*room)
	s.mu.Unlock()

	for _, p := range peers {
		p.close()
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	code := roomcode.Normalize(r.URL.Query().Get("code"))
	if err := roomcode.Validate(code); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	role := Role(r.URL.Query().Get("role"))
	if role != RoleHost && role != RoleGuest {
		http.Error(w, "role must be host or guest", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	p := newPeer(conn, code, role, s.logger)
	s.register(p)

	eg := new(errgroup.Group)
	eg.Go(func() error { return s.readPump(p) })
	eg.Go(func() error { return s.writePump(p) })
	if err := eg.Wait(); err != nil {
		s.logger.Debug("Peer connection ended", "code", code, "role", role, "error", err)
	}
	s.unregister(p)
}

// register attaches p to its room. A newer peer in the same seat replaces
// the stale one. If the stale peer was paired its partner is dropped too so
// both sides reconnect and the host resyncs.
func (s *Server) register(p *peer) {
	s.mu.Lock()
	r, ok := s.rooms[p.code]
	if !ok {
		r = &room{}
		s.rooms[p.code] = r
	}

	var stale []*peer
	seat := r.slot(p.role)
	if old := *seat; old != nil {
		stale = append(stale, old)
		if partner := old.getPartner(); partner != nil {
			stale = append(stale, partner)
			*r.slot(partner.role) = nil
		}
	}
	*seat = p

	if r.host != nil && r.guest != nil {
		r.host.setPartner(r.guest)
		r.guest.setPartner(r.host)
		r.host.enqueue(pairedFrame)
		r.guest.enqueue(pairedFrame)
		s.logger.Info("Paired peers", "code", p.code)
	} else {
		s.logger.Info("Peer waiting", "code", p.code, "role", p.role)
	}
	s.mu.Unlock()

	for _, old := range stale {
		s.logger.Info("Dropping stale peer", "code", old.code, "role", old.role)
		old.close()
	}
}

// unregister detaches p and closes its partner, which then sees the
// connection drop exactly as if the network had failed.
func (s *Server) unregister(p *peer) {
	p.close()

	s.mu.Lock()
	var partner *peer
	if r, ok := s.rooms[p.code]; ok {
		if seat := r.slot(p.role); *seat == p {
			*seat = nil
			if partner = p.getPartner(); partner != nil {
				if other := r.slot(partner.role); *other == partner {
					*other = nil
				}
			}
		}
		if r.host == nil && r.guest == nil {
			delete(s.rooms, p.code)
		}
	}
	s.mu.Unlock()

	if partner != nil {
		partner.close()
	}
	s.logger.Info("Peer left", "code", p.code, "role", p.role)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}
