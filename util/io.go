package util

import (
	"errors"
	"io"
	"net"
	"sync"
)

// IsHarmless returns true for errors that only say the other side (or
// our own shutdown path) already closed the connection.
func IsHarmless(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	// net.OpError wrapping "use of closed network connection"
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, net.ErrClosed)
	}
	return false
}

// OnceCloser wraps an io.Closer so that Close runs exactly once.  Later
// calls return the first result, which makes closing a failed or
// already-closed connection safe from any goroutine.
type OnceCloser struct {
	c    io.Closer
	once sync.Once
	err  error
}

// NewOnceCloser wraps c.
func NewOnceCloser(c io.Closer) *OnceCloser {
	return &OnceCloser{c: c}
}

// Close closes the wrapped value on the first call only.
func (o *OnceCloser) Close() error {
	o.once.Do(func() {
		err := o.c.Close()
		if !IsHarmless(err) {
			o.err = err
		}
	})
	return o.err
}
