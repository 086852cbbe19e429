// Package backoff paces loops that must keep running after a failure,
// such as an accept loop hitting EMFILE.  It never repeats the failed
// operation itself; it only decides how long to wait before the loop's
// next iteration.
package backoff

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Backoff implements exponential delays with optional jitter.  It is
// not safe for concurrent use; each loop owns its own Backoff.
type Backoff struct {
	// InitialDelay is the first delay after a failure (default 5ms).
	InitialDelay time.Duration
	// MaxDelay caps the delay (default 1s).
	MaxDelay time.Duration
	// Multiplier increases the delay after each consecutive failure
	// (default 2.0).
	Multiplier float64
	// Jitter adds ±25% randomisation.
	Jitter bool

	current time.Duration
}

// Accept returns the pacing used by the listener after a failed
// accept.  The values mirror net/http's server loop.
func Accept() *Backoff {
	return &Backoff{
		InitialDelay: 5 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
	}
}

// Next returns the delay to apply now and advances the schedule.
func (b *Backoff) Next() time.Duration {
	initial := b.InitialDelay
	if initial <= 0 {
		initial = 5 * time.Millisecond
	}
	maxDelay := b.MaxDelay
	if maxDelay <= 0 {
		maxDelay = time.Second
	}
	multiplier := b.Multiplier
	if multiplier <= 0 {
		multiplier = 2.0
	}

	if b.current == 0 {
		b.current = initial
	} else {
		b.current = time.Duration(float64(b.current) * multiplier)
	}
	if b.current > maxDelay {
		b.current = maxDelay
	}

	if b.Jitter {
		return addJitter(b.current)
	}
	return b.current
}

// Reset restarts the schedule; call it after a success.
func (b *Backoff) Reset() { b.current = 0 }

// Wait sleeps for the next delay or until ctx is done.
func (b *Backoff) Wait(ctx context.Context) error {
	t := time.NewTimer(b.Next())
	defer t.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("backoff cancelled: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}

// addJitter adds ±25% randomisation to a duration.
func addJitter(d time.Duration) time.Duration {
	quarter := float64(d) * 0.25
	delta := (rand.Float64() * 2 * quarter) - quarter
	result := float64(d) + delta
	return time.Duration(math.Max(result, float64(time.Millisecond)))
}
