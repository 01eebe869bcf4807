package linesrv

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultAddr is the listen address used when Config.Addr is empty.
const DefaultAddr = ":10497"

// Store is the read-only corpus the server serves lines from. Both
// implementations in the store package satisfy it. Implementations must
// be safe for concurrent reads; the server never writes.
type Store interface {
	LineCount() int
	Line(n int) (string, error)
}

// Config holds server configuration. The zero value is usable.
type Config struct {
	// Addr is the TCP listen address for ListenAndServe.
	// Defaults to DefaultAddr.
	Addr string

	// ReadTimeout bounds how long a connection may sit idle between
	// frames. Zero disables it; the wire protocol itself defines no
	// timeouts.
	ReadTimeout time.Duration

	// Logger receives connection lifecycle and command events.
	// Nil means no logging.
	Logger *zerolog.Logger
}

// shutdownState is the process-wide shutting-down flag: a single
// false→true transition with many readers. It is owned by the Server
// and passed explicitly to everything that reads it; nothing lives in
// package state.
type shutdownState struct {
	once sync.Once
	done chan struct{}
}

func newShutdownState() *shutdownState {
	return &shutdownState{done: make(chan struct{})}
}

// Trigger transitions to shutting-down. Idempotent.
func (s *shutdownState) Trigger() {
	s.once.Do(func() { close(s.done) })
}

func (s *shutdownState) Triggered() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed once shutdown has been triggered.
func (s *shutdownState) Done() <-chan struct{} {
	return s.done
}

// Server accepts connections and serves the line-retrieval protocol
// against a Store.
type Server struct {
	store Store
	cfg   Config
	log   zerolog.Logger

	shutdown *shutdownState
	stats    *statsCollector

	mu       sync.Mutex
	listener net.Listener
	conns    map[uint64]*conn
	nextID   uint64

	wg sync.WaitGroup
}

// NewServer creates a server for the given store. The store must be
// fully loaded: the server treats it as immutable.
func NewServer(store Store, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Server{
		store:    store,
		cfg:      cfg,
		log:      logger,
		shutdown: newShutdownState(),
		stats:    newStatsCollector(),
		conns:    make(map[uint64]*conn),
	}
}

// ListenAndServe listens on Config.Addr and serves until shutdown.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("linesrv: listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(l)
}

// Serve runs the accept loop on l until a shutdown command arrives or
// Shutdown is called, then waits for all connections to finish. It
// closes l before returning. A nil return means an orderly shutdown.
func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()

	go func() {
		<-s.shutdown.Done()
		l.Close()
		s.closeConns()
	}()

	s.log.Info().Str("addr", l.Addr().String()).Int("lines", s.store.LineCount()).Msg("serving")

	for {
		netConn, err := l.Accept()
		if err != nil {
			if s.shutdown.Triggered() {
				s.wg.Wait()
				s.log.Info().Msg("server stopped")
				return nil
			}
			return fmt.Errorf("linesrv: accept: %w", err)
		}

		c := s.register(netConn)
		s.stats.recordConnection()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			c.serve()
		}()
	}
}

// Addr returns the listener address, or nil before Serve. Handy with
// ":0" listeners in tests.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops the server exactly as the shutdown command does: the
// listener closes, all active connections are torn down, and Serve
// returns once they have drained. Safe to call more than once.
func (s *Server) Shutdown() {
	s.shutdown.Trigger()
}

// ShuttingDown reports whether the shutdown transition has happened.
func (s *Server) ShuttingDown() bool {
	return s.shutdown.Triggered()
}

// Stats returns a snapshot of the server counters.
func (s *Server) Stats() Stats {
	return s.stats.snapshot()
}

func (s *Server) register(netConn net.Conn) *conn {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	c := newConn(s.nextID, netConn, s)
	s.conns[c.id] = c

	// A connection accepted in the window between the shutdown
	// transition and this registration would miss the closeConns
	// sweep. Both paths hold s.mu, so either the sweep sees this entry
	// or the flag is visible here; closing under the lock covers the
	// latter.
	if s.shutdown.Triggered() {
		netConn.Close()
	}
	return c
}

func (s *Server) unregister(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, id)
}

// closeConns force-closes every active connection. Their goroutines see
// a read error and wind down through the Closed state.
func (s *Server) closeConns() {
	s.mu.Lock()
	conns := make([]*conn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.nc.Close()
	}
}
