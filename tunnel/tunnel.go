// Package tunnel connects to an SSH gateway with golang.org/x/crypto/ssh
// and asks it to forward a port on the gateway back to this process, so
// the echo service can be reached from the gateway's network.
package tunnel

import (
	"context"
	"net"
)

// Tunnel abstracts an encrypted session to a gateway that can accept
// connections on our behalf.
type Tunnel interface {
	// Connect establishes the session to the gateway.
	Connect(ctx context.Context) error

	// Listen asks the gateway to accept connections on address and
	// hand them to us.
	Listen(network, address string) (net.Listener, error)

	// Close tears down the session and every forward it carries.
	Close() error

	// IsAlive reports whether the underlying connection is still up.
	IsAlive() bool
}
