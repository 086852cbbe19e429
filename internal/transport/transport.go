// Package transport provides the passive side of the echo service:
// where accepted connections come from.  A plain TCP socket is the
// usual source; an SSH gateway forwarding a remote port back to us is
// the other.  What happens over each connection is the capability
// layer's job.
package transport

import (
	"context"
	"net"
)

// Listener opens the endpoint that clients connect to.
type Listener interface {
	// Listen creates and returns the accepting socket.  Failures are
	// *errors.SetupError values and are fatal to the service.
	Listen(ctx context.Context) (net.Listener, error)

	// Close releases any long-lived resources behind the listener
	// (e.g. an SSH session).  Stateless listeners return nil.
	Close() error
}
