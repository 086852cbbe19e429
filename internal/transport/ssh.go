package transport

import (
	"context"
	"net"
	"sync"

	ncerr "echosrv/internal/errors"
	"echosrv/tunnel"
	"echosrv/util"
)

// SSHListener accepts connections that an SSH gateway forwards back to
// us from RemoteBind:RemotePort on its side.
type SSHListener struct {
	RemoteBind string
	RemotePort int

	tunnel tunnel.Tunnel
	logger *util.Logger
	mu     sync.Mutex
	ln     net.Listener
}

// NewSSHListener creates a listener backed by tun.  The tunnel is
// connected by Listen, not here.
func NewSSHListener(tun tunnel.Tunnel, remoteBind string, remotePort int, logger *util.Logger) *SSHListener {
	return &SSHListener{
		RemoteBind: remoteBind,
		RemotePort: remotePort,
		tunnel:     tun,
		logger:     logger,
	}
}

// Listen connects to the gateway and requests the remote forward.
func (l *SSHListener) Listen(ctx context.Context) (net.Listener, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.tunnel.IsAlive() {
		l.logger.Verbose("establishing SSH tunnel to %v", l.tunnel)
		if err := l.tunnel.Connect(ctx); err != nil {
			return nil, ncerr.Setup("tunnel", "", err)
		}
	}

	addr := l.Addr()
	ln, err := l.tunnel.Listen("tcp", addr)
	if err != nil {
		l.tunnel.Close()
		return nil, ncerr.Setup("tunnel", addr, err)
	}
	l.ln = ln
	l.logger.Info("gateway forwarding %s to this server", addr)
	return ln, nil
}

// Close stops the remote forward and tears down the SSH session.
func (l *SSHListener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	if l.ln != nil {
		if err := l.ln.Close(); err != nil && !util.IsHarmless(err) {
			errs = append(errs, err)
		}
		l.ln = nil
	}
	if err := l.tunnel.Close(); err != nil && !util.IsHarmless(err) {
		errs = append(errs, err)
	}
	return ncerr.Join(errs...)
}

// Addr is the gateway-side address being forwarded.  An empty or "*"
// bind address asks for every interface.  It must be a literal IP:
// ssh.Client.Listen resolves it, and the gateway echoes the resolved
// form back in each forwarded-tcpip open, where it has to parse as one.
func (l *SSHListener) Addr() string {
	bind := l.RemoteBind
	if bind == "" || bind == "*" {
		bind = "0.0.0.0"
	}
	return util.FormatAddr(bind, l.RemotePort)
}
