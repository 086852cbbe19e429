package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, config file parsing, and environment variable
// loading.

const (
	// DefaultPort is the echo service port used when none is given.
	DefaultPort = 56789

	// DefaultChunkSize is the receive size per read.  It is kept
	// artificially small so that ordinary lines span several chunks.
	DefaultChunkSize = 11

	// DefaultBacklog is the pending-connection queue passed to listen(2).
	DefaultBacklog = 10

	// Greeting is sent to every client right after accept.
	Greeting = "Networks Practical Echo Server\n"

	// DefaultVerbosity shows connects, disconnects and completed
	// transmissions.
	DefaultVerbosity = 1

	// DefaultSSHPort is the standard SSH port.
	DefaultSSHPort = 22

	// DefaultRemoteBindAddress is the gateway-side bind address for the
	// reverse tunnel; empty lets the gateway choose.
	DefaultRemoteBindAddress = ""

	// DefaultSSHKeepAlive is how often the gateway is probed while the
	// reverse tunnel is up.
	DefaultSSHKeepAlive = 30 * time.Second
)

// Defaults returns a Config populated with every default value.
func Defaults() *Config {
	return &Config{
		Port:              DefaultPort,
		ChunkSize:         DefaultChunkSize,
		Backlog:           DefaultBacklog,
		QuitMode:          QuitSession,
		Verbose:           DefaultVerbosity,
		RemoteBindAddress: DefaultRemoteBindAddress,
	}
}
