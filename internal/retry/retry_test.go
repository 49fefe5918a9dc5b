package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(p Policy, deadline time.Time) *State {
	s := p.Start(deadline)
	s.rand = func(n int64) int64 { return 0 } // no jitter: deterministic delays
	return s
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	p := Policy{MaxAttempts: 10, WaitMin: 100 * time.Millisecond, WaitMax: 800 * time.Millisecond}
	s := newTestState(p, time.Time{})

	want := []time.Duration{
		100 * time.Millisecond, // after attempt 1
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		800 * time.Millisecond, // capped
	}
	for i, w := range want {
		s.Record()
		d, err := s.Next(0)
		require.NoError(t, err, "attempt %d", i+1)
		assert.Equal(t, w, d, "delay after attempt %d", i+1)
	}
}

func TestJitterStaysWithinBounds(t *testing.T) {
	p := Policy{MaxAttempts: 10, WaitMin: 100 * time.Millisecond, WaitMax: 800 * time.Millisecond}
	s := p.Start(time.Time{})

	s.Record()
	for i := 0; i < 50; i++ {
		d, err := s.Next(0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.LessOrEqual(t, d, 200*time.Millisecond) // base + jitter in [0, base]
	}
}

func TestHintOverridesSmallerBackoff(t *testing.T) {
	p := Policy{MaxAttempts: 5, WaitMin: 100 * time.Millisecond, WaitMax: 800 * time.Millisecond}
	s := newTestState(p, time.Time{})

	s.Record()
	d, err := s.Next(3 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, d)

	// A hint smaller than the computed backoff is ignored.
	d, err = s.Next(time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, d)
}

func TestAttemptCeiling(t *testing.T) {
	p := Policy{MaxAttempts: 3, WaitMin: time.Millisecond, WaitMax: time.Millisecond}
	s := newTestState(p, time.Time{})

	for i := 0; i < 2; i++ {
		s.Record()
		_, err := s.Next(0)
		require.NoError(t, err)
	}
	s.Record()
	_, err := s.Next(0)
	assert.ErrorIs(t, err, ErrAttemptsExhausted)
	assert.Equal(t, 3, s.Attempts())
}

func TestDeadlineStopsRetries(t *testing.T) {
	p := Policy{MaxAttempts: 10, WaitMin: 100 * time.Millisecond, WaitMax: 800 * time.Millisecond}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newTestState(p, base.Add(50*time.Millisecond))
	s.now = func() time.Time { return base }

	s.Record()
	_, err := s.Next(0) // next delay (100ms) would overshoot the deadline
	assert.ErrorIs(t, err, ErrDeadlineExhausted)
}

func TestDeadlineHonoredOverHint(t *testing.T) {
	p := Policy{MaxAttempts: 10, WaitMin: time.Millisecond, WaitMax: time.Millisecond}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newTestState(p, base.Add(time.Second))
	s.now = func() time.Time { return base }

	s.Record()
	_, err := s.Next(time.Minute) // hint larger than remaining budget
	assert.ErrorIs(t, err, ErrDeadlineExhausted)
}
