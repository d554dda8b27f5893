package main

import (
	"math/rand"
	"sync"
	"time"
)

// RateState is the per-endpoint bookkeeping for the rate limiter. The call
// count grows monotonically for the limiter's lifetime; only the computed
// delay varies with its magnitude.
type RateState struct {
	LastCall  time.Time
	CallCount int
}

// RateLimiter spaces outbound calls per logical endpoint with a randomized
// delay that grows with recent call volume. State is guarded by a mutex so
// concurrent callers serialize their bookkeeping, but the sleep itself
// happens outside the lock.
type RateLimiter struct {
	mu     sync.Mutex
	states map[string]*RateState

	now   func() time.Time
	sleep func(time.Duration)
}

// NewRateLimiter creates a limiter with empty state.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		states: make(map[string]*RateState),
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// delayRange returns the uniform range the delay is drawn from, selected by
// how many calls have been recorded for the endpoint so far.
func delayRange(callCount int) (min, max time.Duration) {
	switch {
	case callCount > 10:
		return 2 * time.Second, 4 * time.Second
	case callCount > 5:
		return 1 * time.Second, 2 * time.Second
	default:
		return 500 * time.Millisecond, 1 * time.Second
	}
}

// AwaitSlot blocks until the endpoint may be called again. The first call to
// an endpoint returns immediately; later calls wait out the randomized delay
// minus whatever time already elapsed since the previous call. Never fails.
func (rl *RateLimiter) AwaitSlot(endpoint string) {
	rl.mu.Lock()
	state, ok := rl.states[endpoint]
	if !ok {
		state = &RateState{}
		rl.states[endpoint] = state
	}

	var wait time.Duration
	if !state.LastCall.IsZero() {
		min, max := delayRange(state.CallCount)
		delay := min + time.Duration(rand.Int63n(int64(max-min)))
		elapsed := rl.now().Sub(state.LastCall)
		if elapsed < delay {
			wait = delay - elapsed
		}
	}

	state.LastCall = rl.now()
	state.CallCount++
	rl.mu.Unlock()

	if wait > 0 {
		rl.sleep(wait)
	}
}

// CallCount returns the number of calls recorded for an endpoint.
func (rl *RateLimiter) CallCount(endpoint string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if state, ok := rl.states[endpoint]; ok {
		return state.CallCount
	}
	return 0
}
