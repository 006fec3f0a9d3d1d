package capture

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_TriggerWaitsForDelay(t *testing.T) {
	fire := make(chan time.Time)
	var gotDelay time.Duration
	s := New(WithDelay(2*time.Second), withTimer(func(d time.Duration) <-chan time.Time {
		gotDelay = d
		return fire
	}))

	called := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.Trigger(context.Background(), func(context.Context) error {
			close(called)
			return nil
		})
	}()

	select {
	case <-called:
		t.Fatal("capture ran before the delay elapsed")
	case <-time.After(20 * time.Millisecond):
	}

	fire <- time.Now()
	require.NoError(t, <-done)
	assert.Equal(t, 2*time.Second, gotDelay)
	assert.False(t, s.Pending())
}

func TestScheduler_RejectsOverlap(t *testing.T) {
	fire := make(chan time.Time)
	s := New(withTimer(func(time.Duration) <-chan time.Time { return fire }))

	done := make(chan error, 1)
	go func() {
		done <- s.Trigger(context.Background(), func(context.Context) error { return nil })
	}()

	require.Eventually(t, s.Pending, time.Second, time.Millisecond)

	err := s.Trigger(context.Background(), func(context.Context) error {
		t.Error("overlapping capture should not run")
		return nil
	})
	assert.ErrorIs(t, err, ErrCaptureInProgress)

	fire <- time.Now()
	require.NoError(t, <-done)

	// Once the first capture finishes a new one is accepted.
	go func() { fire <- time.Now() }()
	assert.NoError(t, s.Trigger(context.Background(), func(context.Context) error { return nil }))
}

func TestScheduler_ContextCancelled(t *testing.T) {
	s := New(withTimer(func(time.Duration) <-chan time.Time { return make(chan time.Time) }))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Trigger(ctx, func(context.Context) error {
		t.Error("capture should not run after cancellation")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, s.Pending())
}

func TestScheduler_PropagatesCaptureError(t *testing.T) {
	s := New(WithDelay(0))
	boom := errors.New("no face detected")

	err := s.Trigger(context.Background(), func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestNew_Defaults(t *testing.T) {
	assert.Equal(t, DefaultDelay, New().Delay())
	assert.Equal(t, time.Duration(0), New(WithDelay(-time.Second)).Delay())
}
