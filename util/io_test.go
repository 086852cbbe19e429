package util

import (
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"testing"
)

func TestIsHarmless(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, true},
		{"eof", io.EOF, true},
		{"closed", net.ErrClosed, true},
		{"closed pipe", io.ErrClosedPipe, true},
		{"op error closed", &net.OpError{Op: "read", Net: "tcp", Err: net.ErrClosed}, true},
		{"unexpected eof", io.ErrUnexpectedEOF, false},
		{"other", errors.New("connection reset by peer"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHarmless(tt.err); got != tt.want {
				t.Errorf("IsHarmless(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

type countingCloser struct {
	calls atomic.Int32
	err   error
}

func (c *countingCloser) Close() error {
	c.calls.Add(1)
	return c.err
}

func TestOnceCloser_ClosesOnce(t *testing.T) {
	cc := &countingCloser{}
	oc := NewOnceCloser(cc)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			oc.Close() //nolint:errcheck
		}()
	}
	wg.Wait()

	if n := cc.calls.Load(); n != 1 {
		t.Errorf("Close called %d times, want 1", n)
	}
}

func TestOnceCloser_ToleratesClosedConn(t *testing.T) {
	cc := &countingCloser{err: net.ErrClosed}
	if err := NewOnceCloser(cc).Close(); err != nil {
		t.Errorf("closing an already-closed conn should be nil, got %v", err)
	}

	boom := errors.New("boom")
	oc := NewOnceCloser(&countingCloser{err: boom})
	if err := oc.Close(); !errors.Is(err, boom) {
		t.Errorf("first Close = %v, want boom", err)
	}
	if err := oc.Close(); !errors.Is(err, boom) {
		t.Errorf("second Close = %v, want the first result", err)
	}
}

func TestOnceCloser_RealConn(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()

	oc := NewOnceCloser(a)
	if err := oc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := oc.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := a.Write([]byte("x")); err == nil {
		t.Error("write on closed pipe should fail")
	}
}
