// Package capability defines what happens over an accepted
// connection.  A Capability encapsulates one protocol and operates on a
// Session rather than a raw net.Conn, which keeps it testable and
// decoupled from how the connection was accepted (local socket or SSH
// forwarded channel).
package capability

import (
	"context"

	"echosrv/internal/session"
)

// Capability serves a single connection.  The only implementation in
// this module is Echo.
type Capability interface {
	// Handle runs the protocol against the given session.  It blocks
	// until the connection is done, and always leaves the session's
	// connection closed.
	Handle(ctx context.Context, sess *session.Session) error
}
