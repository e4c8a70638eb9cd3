// Package telnetserver serves consoles to raw telnet clients, for terminals
// and BBS-era programs that do not speak SSH.
package telnetserver

import (
	"errors"
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/google/uuid"
)

// ErrServerClosed is returned by Serve and ListenAndServe after Close.
var ErrServerClosed = errors.New("telnetserver: server closed")

// SessionHandler runs one client session. The connection is closed when it
// returns.
type SessionHandler func(id string, conn *Conn)

// Config is the listen address and the per-session handler.
type Config struct {
	Port           int
	Host           string
	SessionHandler SessionHandler
}

// Server accepts TCP clients and hands each a negotiated Conn.
type Server struct {
	addr    string
	handler SessionHandler

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool
}

// NewServer validates cfg. Host defaults to all interfaces.
func NewServer(cfg Config) (*Server, error) {
	if cfg.SessionHandler == nil {
		return nil, errors.New("telnetserver: session handler is required")
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("telnetserver: invalid port %d", cfg.Port)
	}
	host := cfg.Host
	if host == "" {
		host = "0.0.0.0"
	}
	return &Server{
		addr:    net.JoinHostPort(host, fmt.Sprint(cfg.Port)),
		handler: cfg.SessionHandler,
		conns:   make(map[net.Conn]struct{}),
	}, nil
}

// ListenAndServe listens on the configured address and serves until Close.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(l)
}

// Serve accepts clients on l until Close, then returns ErrServerClosed.
func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		l.Close()
		return ErrServerClosed
	}
	s.listener = l
	s.mu.Unlock()
	log.Printf("INFO: Telnet server listening on %s", l.Addr())

	for {
		conn, err := l.Accept()
		if err != nil {
			if s.isClosed() {
				return ErrServerClosed
			}
			log.Printf("ERROR: Telnet accept: %v", err)
			continue
		}
		if !s.track(conn) {
			conn.Close()
			return ErrServerClosed
		}
		go s.serveConn(conn)
	}
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// track registers conn unless the server is shutting down.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) serveConn(conn net.Conn) {
	id := uuid.NewString()
	remote := conn.RemoteAddr()
	log.Printf("INFO: Telnet session %s from %s", id, remote)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: Telnet session %s panicked: %v", id, r)
		}
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
		log.Printf("INFO: Telnet session %s closed", id)
	}()

	tc := NewConn(conn)
	if err := tc.Negotiate(); err != nil {
		log.Printf("WARN: Telnet session %s: %v", id, err)
		return
	}
	s.handler(id, tc)
}

// Close stops accepting and disconnects every open session.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for c := range s.conns {
		c.Close()
	}
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}
