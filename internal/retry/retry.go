// Package retry implements the backoff state machine used for upstream calls.
// Attempt count, delay, and termination are explicit so they can be tested in
// isolation from network code.
package retry

import (
	"errors"
	"math/rand"
	"time"
)

// Stop reasons returned by State.Next when no further attempt is allowed.
var (
	ErrAttemptsExhausted = errors.New("retry: attempt budget exhausted")
	ErrDeadlineExhausted = errors.New("retry: overall deadline exhausted")
)

// Policy bounds how one logical upstream call may be retried.
type Policy struct {
	MaxAttempts int           // total attempts, including the first
	WaitMin     time.Duration // initial backoff delay
	WaitMax     time.Duration // cap on the computed backoff (jitter may exceed it)
}

// State tracks the retry budget of a single logical call. It is created at
// the start of the call and discarded at its end; never shared across calls.
type State struct {
	policy   Policy
	deadline time.Time
	attempts int

	now  func() time.Time
	rand func(n int64) int64
}

// Start begins tracking one logical call. A zero deadline means unbounded.
func (p Policy) Start(deadline time.Time) *State {
	return &State{policy: p, deadline: deadline, now: time.Now, rand: rand.Int63n}
}

// Record marks one attempt as performed.
func (s *State) Record() { s.attempts++ }

// Attempts reports how many attempts have been performed so far.
func (s *State) Attempts() int { return s.attempts }

// Next returns how long to wait before the next attempt. hint is a
// provider-supplied floor on the delay (zero when absent); it overrides the
// computed backoff when larger. Next returns ErrAttemptsExhausted or
// ErrDeadlineExhausted when the budget does not allow another attempt.
func (s *State) Next(hint time.Duration) (time.Duration, error) {
	if s.attempts >= s.policy.MaxAttempts {
		return 0, ErrAttemptsExhausted
	}
	d := s.backoff(s.attempts - 1)
	if hint > d {
		d = hint
	}
	if !s.deadline.IsZero() && s.now().Add(d).After(s.deadline) {
		return 0, ErrDeadlineExhausted
	}
	return d, nil
}

// backoff computes min(WaitMin * 2^n, WaitMax) plus random jitter in [0, d].
func (s *State) backoff(n int) time.Duration {
	if n < 0 {
		n = 0
	}
	d := s.policy.WaitMin
	for i := 0; i < n && d < s.policy.WaitMax; i++ {
		d *= 2
	}
	if d > s.policy.WaitMax {
		d = s.policy.WaitMax
	}
	if d <= 0 {
		return 0
	}
	return d + time.Duration(s.rand(int64(d)+1))
}
