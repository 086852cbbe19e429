// Package config defines the runtime configuration for echosrv and
// provides helpers for parsing ports and tunnel specifications.
package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	ncerr "echosrv/internal/errors"
)

// QuitMode selects what the quit sentinel shuts down.
type QuitMode string

const (
	// QuitSession ends only the session that sent the sentinel.
	QuitSession QuitMode = "session"
	// QuitServer closes the listener and every session, then exits 0.
	QuitServer QuitMode = "server"
)

// ParseQuitMode accepts "session" or "server" (case-insensitive).
func ParseQuitMode(s string) (QuitMode, error) {
	switch m := QuitMode(strings.ToLower(strings.TrimSpace(s))); m {
	case QuitSession, QuitServer:
		return m, nil
	default:
		return "", fmt.Errorf("unknown quit mode %q", s)
	}
}

// Config holds every tuneable for one echosrv process.  It is not
// modified once the listener has started.
type Config struct {
	// ── Listener ─────────────────────────────────────────────────────
	Port       int
	ChunkSize  int
	Backlog    int
	Sequential bool
	QuitMode   QuitMode
	Timeout    time.Duration // per read/write; 0 blocks forever

	// ── SSH reverse tunnel ───────────────────────────────────────────
	TunnelSpec        string // raw user@host[:port] from -R
	TunnelEnabled     bool
	TunnelUser        string
	TunnelHost        string
	TunnelPort        int
	RemotePort        int // 0 → same as Port
	RemoteBindAddress string
	SSHKeyPath        string
	SSHPassword       bool // true → prompt interactively
	UseSSHAgent       bool
	StrictHostKey     bool
	KnownHostsPath    string

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
}

// EffectiveRemotePort is the gateway port the tunnel asks for.
func (c *Config) EffectiveRemotePort() int {
	if c.RemotePort == 0 {
		return c.Port
	}
	return c.RemotePort
}

// ── Port helpers ─────────────────────────────────────────────────────

// ParsePort parses a single numeric TCP port.
func ParsePort(spec string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(spec))
	if err != nil {
		return 0, &ncerr.ConfigError{
			Field:   "port",
			Value:   spec,
			Message: "not a number",
			Hint:    "pass the listening port as a single integer, e.g. echosrv 56789",
		}
	}
	if port < 1 || port > 65535 {
		return 0, portRangeError("port", port)
	}
	return port, nil
}

func portRangeError(field string, port int) error {
	return &ncerr.ConfigError{
		Field:   field,
		Value:   port,
		Message: "out of range 1-65535",
		Hint:    "use a port between 1 and 65535",
	}
}

// ── Tunnel-spec parser ───────────────────────────────────────────────

// tunnelRe matches [user@]host[:port].
var tunnelRe = regexp.MustCompile(`^(?:([^@]+)@)?([^:]+)(?::(\d+))?$`)

// ParseTunnelSpec extracts user, host, and port from a string such as
// "admin@bastion.example.com:2222".  Port defaults to 22.
func ParseTunnelSpec(spec string) (user, host string, port int, err error) {
	m := tunnelRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid tunnel spec %q – expected [user@]host[:port]", spec)
	}
	user = m[1]
	host = m[2]
	port = DefaultSSHPort
	if m[3] != "" {
		port, err = strconv.Atoi(m[3])
		if err != nil || port < 1 || port > 65535 {
			return "", "", 0, fmt.Errorf("invalid tunnel port %q", m[3])
		}
	}
	return user, host, port, nil
}

// ApplyTunnelSpec parses TunnelSpec (if set) into the tunnel fields.
func (c *Config) ApplyTunnelSpec() error {
	if c.TunnelSpec == "" {
		return nil
	}
	user, host, port, err := ParseTunnelSpec(c.TunnelSpec)
	if err != nil {
		return &ncerr.ConfigError{Field: "tunnel", Value: c.TunnelSpec, Message: err.Error()}
	}
	c.TunnelEnabled = true
	c.TunnelUser = user
	c.TunnelHost = host
	c.TunnelPort = port
	return nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return portRangeError("port", c.Port)
	}
	if c.ChunkSize < 1 {
		return &ncerr.ConfigError{
			Field:   "chunk-size",
			Value:   c.ChunkSize,
			Message: "must be at least 1 byte",
			Hint:    fmt.Sprintf("the classic value is %d", DefaultChunkSize),
		}
	}
	if c.Backlog < 1 {
		return &ncerr.ConfigError{
			Field:   "backlog",
			Value:   c.Backlog,
			Message: "must be at least 1",
		}
	}
	if c.Timeout < 0 {
		return &ncerr.ConfigError{
			Field:   "timeout",
			Value:   c.Timeout,
			Message: "must not be negative",
			Hint:    "use 0 to wait forever",
		}
	}
	if _, err := ParseQuitMode(string(c.QuitMode)); err != nil {
		return &ncerr.ConfigError{
			Field:   "quit-mode",
			Value:   string(c.QuitMode),
			Message: "must be \"session\" or \"server\"",
			Hint:    "\"server\" reproduces the classic behaviour of stopping the whole listener",
		}
	}

	if c.TunnelEnabled {
		if c.TunnelHost == "" {
			return &ncerr.ConfigError{
				Field:   "tunnel",
				Message: "gateway host is required",
				Hint:    "use -R user@gateway[:port]",
			}
		}
		if c.RemotePort < 0 || c.RemotePort > 65535 {
			return portRangeError("remote-port", c.RemotePort)
		}
	} else if c.RemotePort != 0 {
		return &ncerr.ConfigError{
			Field:   "remote-port",
			Value:   c.RemotePort,
			Message: "only meaningful with a reverse tunnel",
			Hint:    "add -R user@gateway to publish the port through SSH",
		}
	}

	return nil
}
