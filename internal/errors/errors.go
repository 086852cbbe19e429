// Package errors provides domain-specific error types for echosrv.
//
// The types follow the failure scopes of the service: setup failures are
// fatal to the process, network failures end one connection (or are
// logged and skipped in the accept loop), and configuration failures are
// reported before anything is opened.
package errors

import (
	"errors"
	"fmt"
	"io"
	"net"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	// ErrQuit is returned by a session whose client sent the quit
	// sentinel as the first chunk of a line.
	ErrQuit           = errors.New("quit sentinel received")
	ErrNotConnected   = errors.New("not connected")
	ErrListenerClosed = errors.New("listener closed")
	ErrUsage          = errors.New("usage")
)

// ── Structured error types ───────────────────────────────────────────

// SetupError is a failure while bringing the service up: socket
// creation, bind, listen, or tunnel establishment.  Always fatal.
type SetupError struct {
	Op   string // "socket", "bind", "listen", "tunnel"
	Addr string
	Err  error
}

func (e *SetupError) Error() string {
	if e.Addr == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// NetworkError represents a failure on an established listener or
// connection.
type NetworkError struct {
	Op   string // "accept", "greet", "read", "write"
	Addr string // peer or listener address
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// SSHError represents an SSH-specific failure with gateway context.
type SSHError struct {
	Op   string // "handshake", "auth", "hostkey", "forward"
	Host string
	Port int
	Err  error
}

func (e *SSHError) Error() string {
	return fmt.Sprintf("ssh %s %s:%d: %v", e.Op, e.Host, e.Port, e.Err)
}

func (e *SSHError) Unwrap() error { return e.Err }

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string      // config field name
	Value   interface{} // the invalid value (nil if missing)
	Message string      // human-readable explanation
	Hint    string      // suggestion for the user (optional)
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: --%s", e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

// ── Constructors ─────────────────────────────────────────────────────

// Wrap creates a NetworkError.
func Wrap(op, addr string, err error) *NetworkError {
	return &NetworkError{Op: op, Addr: addr, Err: err}
}

// Setup creates a SetupError.
func Setup(op, addr string, err error) *SetupError {
	return &SetupError{Op: op, Addr: addr, Err: err}
}

// WrapSSH creates an SSHError.
func WrapSSH(op, host string, port int, err error) *SSHError {
	return &SSHError{Op: op, Host: host, Port: port, Err: err}
}

// ── Classification helpers ───────────────────────────────────────────

// IsSetup reports whether err stems from bringing the service up.
func IsSetup(err error) bool {
	var se *SetupError
	return errors.As(err, &se)
}

// IsPeerClosed reports whether err only says the peer hung up.  That is
// the normal end of a session, not a failure.
func IsPeerClosed(err error) bool {
	return errors.Is(err, io.EOF)
}

// IsTimeout reports whether err is a deadline expiry.
func IsTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
