// Package server implements the TCP game server: connection handling,
// session routing, and match coordination.
package server

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/ndachevski/networks/internal/account"
	"github.com/ndachevski/networks/internal/game"
	"github.com/ndachevski/networks/pkg/logger"
)

// Server owns every live session and running game. Each accepted
// connection gets its own goroutine; the shared routing tables live
// behind mu.
type Server struct {
	address  string
	listener net.Listener

	accounts *account.Registry
	presence *Presence

	mu sync.RWMutex
	// sessions holds every accepted connection; clients only the
	// authenticated ones, keyed by username.
	sessions          map[*Client]struct{}
	clients           map[string]*Client
	games             map[string]*game.Session
	pendingChallenges map[string]string
	pendingRematches  map[string]string
	lastOpponents     map[string]string

	running atomic.Bool
	logger  *logger.Logger
}

// NewServer creates a server for the given address backed by the
// account registry. Call Start, or Listen plus Serve, to run it.
func NewServer(address string, accounts *account.Registry) *Server {
	return &Server{
		address:           address,
		accounts:          accounts,
		presence:          NewPresence(),
		sessions:          make(map[*Client]struct{}),
		clients:           make(map[string]*Client),
		games:             make(map[string]*game.Session),
		pendingChallenges: make(map[string]string),
		pendingRematches:  make(map[string]string),
		lastOpponents:     make(map[string]string),
		logger:            logger.Server,
	}
}

// Listen binds the TCP listener without accepting connections yet.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = listener
	s.running.Store(true)
	s.logger.Info("Server listening on %s", listener.Addr())
	return nil
}

// Serve accepts connections until Stop is called.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.running.Load() {
				return nil
			}
			s.logger.Error("Failed to accept connection: %v", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

// Start binds the listener and serves until Stop is called.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Addr returns the bound listener address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes the listener and every live connection. Safe to call
// more than once.
func (s *Server) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	s.listener.Close()

	s.mu.RLock()
	sessions := make([]*Client, 0, len(s.sessions))
	for c := range s.sessions {
		sessions = append(sessions, c)
	}
	s.mu.RUnlock()

	for _, c := range sessions {
		c.Conn.Close()
	}
	s.logger.Info("Server stopped")
}

func (s *Server) handleConnection(conn net.Conn) {
	client := newClient(conn, s)
	s.logger.Info("New connection %s from %s", client.ID, conn.RemoteAddr())

	s.mu.Lock()
	s.sessions[client] = struct{}{}
	s.mu.Unlock()

	client.run()
}

// forgetSession drops a connection from the session set once its
// teardown has run.
func (s *Server) forgetSession(c *Client) {
	s.mu.Lock()
	delete(s.sessions, c)
	s.mu.Unlock()
}
