// Package capture schedules facial-expression captures on behalf of the
// caller. The inference core never waits; any delay before a capture lives
// here.
package capture

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrCaptureInProgress is returned when a capture is triggered while another
// is still pending.
var ErrCaptureInProgress = errors.New("capture already in progress")

// DefaultDelay gives the user time to face the camera before the frame is taken.
const DefaultDelay = 3 * time.Second

// Scheduler runs at most one capture at a time, each after a fixed delay.
type Scheduler struct {
	delay   time.Duration
	after   func(time.Duration) <-chan time.Time
	pending atomic.Bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithDelay sets the delay before each capture. Negative values are treated as zero.
func WithDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		s.delay = max(d, 0)
	}
}

// withTimer replaces time.After, for tests.
func withTimer(after func(time.Duration) <-chan time.Time) Option {
	return func(s *Scheduler) {
		s.after = after
	}
}

// New creates a Scheduler with DefaultDelay unless overridden.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		delay: DefaultDelay,
		after: time.After,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Delay returns the configured delay.
func (s *Scheduler) Delay() time.Duration {
	return s.delay
}

// Pending reports whether a capture is waiting or running.
func (s *Scheduler) Pending() bool {
	return s.pending.Load()
}

// Trigger waits for the delay and then calls capture once. It returns
// ErrCaptureInProgress if another Trigger has not finished yet, and ctx.Err()
// if the context ends before the delay elapses.
func (s *Scheduler) Trigger(ctx context.Context, capture func(context.Context) error) error {
	if !s.pending.CompareAndSwap(false, true) {
		return ErrCaptureInProgress
	}
	defer s.pending.Store(false)

	if s.delay > 0 {
		select {
		case <-s.after(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return capture(ctx)
}
