// Package core is the orchestration layer.  It composes a transport
// listener and the echo capability into the running service and
// provides a builder that assembles it from a Config.
//
// Architecture layers (bottom → top):
//
//	transport  →  capability  →  session  →  core  →  cmd (CLI)
package core

import "context"

// Mode is a runnable service.  It owns its full lifecycle from opening
// the listener to closing the last session.
type Mode interface {
	Run(ctx context.Context) error
}
