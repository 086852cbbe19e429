package transport

import (
	"context"
	"net"

	"echosrv/util"
)

// TCPListener binds a stream socket on all local interfaces.
type TCPListener struct {
	Port    int
	Backlog int // pending-connection queue passed to listen(2)
}

// Listen binds Port and starts listening with the configured backlog.
func (l *TCPListener) Listen(ctx context.Context) (net.Listener, error) {
	return listenTCP(ctx, l.Port, l.Backlog)
}

// Close is a no-op; the returned net.Listener owns the socket.
func (l *TCPListener) Close() error { return nil }

// Addr is the address the listener binds.
func (l *TCPListener) Addr() string { return util.FormatAddr("", l.Port) }
