// Package session represents a single connection lifecycle: the
// accepted connection, the user index it was assigned, and the
// per-connection protocol counters.
//
// Sessions are never shared.  The listener creates one per accepted
// connection and the capability that serves it is the only writer.
package session

import (
	"fmt"
	"net"

	"echosrv/internal/metrics"
	"echosrv/util"
)

// State is a step of the echo protocol.
type State int

const (
	StateGreeting State = iota
	StateReceiving
	StateEchoing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateGreeting:
		return "GREETING"
	case StateReceiving:
		return "RECEIVING"
	case StateEchoing:
		return "ECHOING"
	case StateClosed:
		return "CLOSED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// validNext lists the transitions the protocol allows.  Any state may
// move to CLOSED.
var validNext = map[State][]State{
	StateGreeting:  {StateReceiving},
	StateReceiving: {StateEchoing},
	StateEchoing:   {StateReceiving},
}

// Session encapsulates the runtime context for a single connection.
type Session struct {
	UserIndex int
	Conn      net.Conn
	Peer      string
	Logger    *util.Logger
	Metrics   *metrics.Collector

	state        State
	chunksInLine int
	transmission int
	closer       *util.OnceCloser
}

// New creates a Session in the GREETING state bound to conn.
func New(conn net.Conn, userIndex int, logger *util.Logger, m *metrics.Collector) *Session {
	return &Session{
		UserIndex:    userIndex,
		Conn:         conn,
		Peer:         util.PeerAddr(conn),
		Logger:       logger,
		Metrics:      m,
		state:        StateGreeting,
		transmission: 1,
		closer:       util.NewOnceCloser(conn),
	}
}

// State returns the current protocol state.
func (s *Session) State() State { return s.state }

// Transition moves the session to next.  Illegal transitions are a
// programming error and panic.
func (s *Session) Transition(next State) {
	if next == StateClosed {
		s.state = StateClosed
		return
	}
	for _, ok := range validNext[s.state] {
		if ok == next {
			s.state = next
			return
		}
	}
	panic(fmt.Sprintf("session: illegal transition %s -> %s", s.state, next))
}

// ChunkReceived counts one read toward the current line and reports
// whether it is the first chunk of that line.
func (s *Session) ChunkReceived() (first bool) {
	s.chunksInLine++
	return s.chunksInLine == 1
}

// ChunksInLine is the number of reads since the last line boundary.
func (s *Session) ChunksInLine() int { return s.chunksInLine }

// Transmission is the number the next completed line will be logged
// with.  It starts at 1.
func (s *Session) Transmission() int { return s.transmission }

// CompleteLine closes the current line: it returns the transmission
// number just completed, advances the counter and resets the chunk
// count.
func (s *Session) CompleteLine() int {
	done := s.transmission
	s.transmission++
	s.chunksInLine = 0
	return done
}

// Close closes the connection exactly once.  It is safe to call from
// any goroutine and on a connection that has already failed; it does
// not touch the protocol state, which belongs to the serving goroutine.
func (s *Session) Close() error { return s.closer.Close() }
