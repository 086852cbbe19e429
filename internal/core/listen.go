package core

import (
	"context"
	"errors"
	"fmt"
	"net"

	"golang.org/x/sync/errgroup"

	"echosrv/config"
	"echosrv/internal/backoff"
	"echosrv/internal/capability"
	ncerr "echosrv/internal/errors"
	"echosrv/internal/metrics"
	"echosrv/internal/session"
	"echosrv/internal/transport"
	"echosrv/util"
)

// ListenMode accepts connections forever and runs the capability on
// each one, numbering users in accept order from 0.
//
// Sessions run concurrently unless Sequential is set, in which case
// the next connection waits in the backlog until the current session
// ends.  A session error never stops the listener; the quit sentinel
// does only when QuitMode is [config.QuitServer].
type ListenMode struct {
	Listener   transport.Listener
	Capability capability.Capability
	Sequential bool
	QuitMode   config.QuitMode
	Logger     *util.Logger
	Metrics    *metrics.Collector // optional
	Backoff    *backoff.Backoff   // nil → backoff.Accept()
}

// Run opens the listener and serves until ctx is cancelled, a session
// quits the whole server, or the listener can no longer accept.  The
// first two return nil.  A listener that cannot be opened returns its
// *errors.SetupError.
func (m *ListenMode) Run(ctx context.Context) error {
	ln, err := m.Listener.Listen(ctx)
	if err != nil {
		return err
	}
	defer m.Listener.Close()

	m.Logger.Info("listening on %s", ln.Addr())

	g, gctx := errgroup.WithContext(ctx)
	stop := context.AfterFunc(gctx, func() { ln.Close() })
	defer stop()

	g.Go(func() error { return m.acceptLoop(gctx, g, ln) })
	err = g.Wait()
	ln.Close()

	m.Logger.Verbose("metrics: %s", m.Metrics.JSON())

	if errors.Is(err, ncerr.ErrQuit) {
		m.Logger.Info("server shutting down on quit sentinel")
		return nil
	}
	return err
}

// acceptLoop owns the user counter.  It returns nil once ctx is done.
func (m *ListenMode) acceptLoop(ctx context.Context, g *errgroup.Group, ln net.Listener) error {
	pace := m.Backoff
	if pace == nil {
		pace = backoff.Accept()
	}

	users := 0
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if util.IsHarmless(err) {
				return fmt.Errorf("accept on %s: %w", ln.Addr(), ncerr.ErrListenerClosed)
			}

			m.Metrics.AcceptFailed()
			m.Logger.Warn("%v", ncerr.Wrap("accept", ln.Addr().String(), err))
			if pace.Wait(ctx) != nil {
				return nil
			}
			continue
		}
		pace.Reset()

		user := users
		users++

		if m.Sequential {
			if err := m.serve(ctx, conn, user); err != nil {
				return err
			}
			continue
		}
		g.Go(func() error { return m.serve(ctx, conn, user) })
	}
}

// serve runs one session to completion.  Only a server-wide quit is
// returned; everything else is logged here.
func (m *ListenMode) serve(ctx context.Context, conn net.Conn, user int) error {
	sess := session.New(conn, user, m.Logger, m.Metrics)
	stop := context.AfterFunc(ctx, func() { sess.Close() })
	defer stop()

	m.Metrics.ConnectionOpened()
	defer m.Metrics.ConnectionClosed()

	m.Logger.Info("user %d connected from %s", user, sess.Peer)

	err := m.Capability.Handle(ctx, sess)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ncerr.ErrQuit):
		if m.QuitMode == config.QuitServer {
			return err
		}
		return nil
	case ncerr.IsTimeout(err):
		m.Metrics.RecordError(err.Error())
		m.Logger.Warn("user %d timed out: %v", user, err)
		return nil
	default:
		m.Metrics.RecordError(err.Error())
		m.Logger.Warn("user %d: %v", user, err)
		return nil
	}
}
