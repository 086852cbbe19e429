package capability

import (
	"context"
	"fmt"
	"time"

	ncerr "echosrv/internal/errors"
	"echosrv/internal/session"
	"echosrv/util"
)

// Quit sentinels.  Both the telnet and the raw-pipe line endings are
// accepted, but only as the entire first chunk of a line.
const (
	QuitCRLF = ".\r\n"
	QuitLF   = ".\n"
)

// IsQuit reports whether chunk is exactly one of the quit sentinels.
func IsQuit(chunk []byte) bool {
	s := string(chunk)
	return s == QuitCRLF || s == QuitLF
}

// Echo greets the client, then writes every chunk it receives back
// verbatim.  A line may span several chunks; each completed line is
// logged as one transmission.
type Echo struct {
	Greeting  string
	ChunkSize int
	Timeout   time.Duration // per read/write; 0 blocks forever
	Pool      *util.BufPool // optional, must hand out ChunkSize buffers
}

// Handle drives the session through GREETING, RECEIVING and ECHOING
// until it reaches CLOSED.  It returns nil when the peer hangs up,
// [ncerr.ErrQuit] on the quit sentinel, and a *NetworkError on I/O
// failure.
func (e *Echo) Handle(ctx context.Context, sess *session.Session) error {
	defer sess.Close()

	if e.ChunkSize < 1 {
		sess.Transition(session.StateClosed)
		return fmt.Errorf("echo: chunk size %d", e.ChunkSize)
	}

	bufp := e.getBuf()
	defer e.putBuf(bufp)
	buf := *bufp

	var chunk []byte
	for {
		switch sess.State() {
		case session.StateGreeting:
			if err := e.write(sess, []byte(e.Greeting)); err != nil {
				sess.Transition(session.StateClosed)
				return e.fail(ctx, "greet", sess, err)
			}
			sess.Transition(session.StateReceiving)

		case session.StateReceiving:
			n, err := e.read(sess, buf)
			if n == 0 {
				if err == nil {
					continue
				}
				sess.Transition(session.StateClosed)
				if ncerr.IsPeerClosed(err) {
					sess.Logger.Info("user %d terminated connection", sess.UserIndex)
					return nil
				}
				return e.fail(ctx, "read", sess, err)
			}

			// Only the n bytes just read belong to this chunk.
			chunk = buf[:n]
			sess.Metrics.BytesReceived(int64(n))
			sess.Logger.Info("user %d: size received: %d", sess.UserIndex, n)
			sess.Logger.Debug("user %d: text received: %q", sess.UserIndex, chunk)

			first := sess.ChunkReceived()
			if first && IsQuit(chunk) {
				sess.Transition(session.StateClosed)
				sess.Metrics.QuitReceived()
				sess.Logger.Info("user %d sent quit sentinel", sess.UserIndex)
				return ncerr.ErrQuit
			}
			sess.Transition(session.StateEchoing)

		case session.StateEchoing:
			if err := e.write(sess, chunk); err != nil {
				sess.Transition(session.StateClosed)
				return e.fail(ctx, "write", sess, err)
			}
			if chunk[len(chunk)-1] == '\n' {
				done := sess.CompleteLine()
				sess.Metrics.TransmissionCompleted()
				sess.Logger.Info("transmission %d with user %d successful", done, sess.UserIndex)
			}
			sess.Transition(session.StateReceiving)

		case session.StateClosed:
			return nil
		}
	}
}

func (e *Echo) read(sess *session.Session, buf []byte) (int, error) {
	if e.Timeout > 0 {
		sess.Conn.SetReadDeadline(time.Now().Add(e.Timeout)) //nolint:errcheck
	}
	return sess.Conn.Read(buf)
}

func (e *Echo) write(sess *session.Session, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if e.Timeout > 0 {
		sess.Conn.SetWriteDeadline(time.Now().Add(e.Timeout)) //nolint:errcheck
	}
	n, err := sess.Conn.Write(p)
	sess.Metrics.BytesSent(int64(n))
	return err
}

// fail turns an I/O error into the session's result.  Errors caused by
// our own shutdown closing the connection are not failures.
func (e *Echo) fail(ctx context.Context, op string, sess *session.Session, err error) error {
	if ctx.Err() != nil && util.IsHarmless(err) {
		return nil
	}
	return ncerr.Wrap(op, sess.Peer, err)
}

func (e *Echo) getBuf() *[]byte {
	if e.Pool != nil && e.Pool.Size() == e.ChunkSize {
		return e.Pool.Get()
	}
	buf := make([]byte, e.ChunkSize)
	return &buf
}

func (e *Echo) putBuf(buf *[]byte) {
	if e.Pool != nil {
		e.Pool.Put(buf)
	}
}
