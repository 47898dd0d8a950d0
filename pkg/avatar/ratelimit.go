package avatar

import (
	"context"
	"sync"
	"time"
)

// rateWindow is the trailing interval over which per-provider limits apply.
const rateWindow = 60 * time.Second

// RateLimiter enforces per-provider sliding-window admission control.
// A provider with no configured limit is never delayed and never tracked.
//
// Admission is a blocking gate, not a queue: one caller occupies it at a time
// per provider, so repeated calls are admitted FIFO per provider.
type RateLimiter struct {
	limits map[ProviderID]int
	window time.Duration

	mu     sync.Mutex
	states map[ProviderID]*rateState
}

type rateState struct {
	// gate serializes admission for a single provider.
	gate sync.Mutex

	// mu guards history so occupancy reads never wait behind an admission.
	mu      sync.Mutex
	history []time.Time
}

// NewRateLimiter creates a rate limiter from a per-provider
// requests-per-minute table. Providers absent from the table are unlimited.
func NewRateLimiter(limits map[ProviderID]int) *RateLimiter {
	return &RateLimiter{
		limits: limits,
		window: rateWindow,
		states: make(map[ProviderID]*rateState),
	}
}

// Admit blocks until a request to the given provider may proceed, then
// records the admission. It returns early with the context error if the
// caller is cancelled while waiting.
func (l *RateLimiter) Admit(ctx context.Context, provider ProviderID) error {
	limit := l.limits[provider]
	if limit <= 0 {
		return nil
	}

	st := l.state(provider)
	st.gate.Lock()
	defer st.gate.Unlock()

	now := time.Now()
	oldest, count := st.prune(now, l.window)

	if count >= limit {
		wait := l.window - now.Sub(oldest)
		if wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
				return ctx.Err()
			}
			st.prune(time.Now(), l.window)
		}
	}

	st.mu.Lock()
	st.history = append(st.history, time.Now())
	st.mu.Unlock()
	return nil
}

// Occupancy returns the number of requests currently inside each provider's
// window. Providers without a configured limit do not appear.
func (l *RateLimiter) Occupancy() map[ProviderID]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	occupancy := make(map[ProviderID]int, len(l.states))
	for provider, st := range l.states {
		_, count := st.prune(now, l.window)
		occupancy[provider] = count
	}
	return occupancy
}

func (l *RateLimiter) state(provider ProviderID) *rateState {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, ok := l.states[provider]
	if !ok {
		st = &rateState{}
		l.states[provider] = st
	}
	return st
}

// prune drops window entries older than window and returns the oldest
// surviving timestamp and the remaining count.
func (st *rateState) prune(now time.Time, window time.Duration) (time.Time, int) {
	st.mu.Lock()
	defer st.mu.Unlock()

	cutoff := now.Add(-window)
	keep := 0
	for keep < len(st.history) && !st.history[keep].After(cutoff) {
		keep++
	}
	if keep > 0 {
		st.history = append(st.history[:0], st.history[keep:]...)
	}
	if len(st.history) == 0 {
		return time.Time{}, 0
	}
	return st.history[0], len(st.history)
}
