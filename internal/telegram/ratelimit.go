package telegram

import (
	"strconv"
	"sync"
	"time"

	"promo_bot/pkg/metrics"
)

// rateLimiter enforces a per-user sliding window over incoming interactions,
// so one chat cannot monopolize the scrape/generation backends.
type rateLimiter struct {
	mu       sync.Mutex
	calls    map[int64][]time.Time
	maxCalls int
	window   time.Duration
}

func newRateLimiter(maxCalls int, window time.Duration) *rateLimiter {
	if maxCalls <= 0 {
		maxCalls = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &rateLimiter{
		calls:    make(map[int64][]time.Time),
		maxCalls: maxCalls,
		window:   window,
	}
}

// allow records one call for userID and reports whether it fits the window.
func (r *rateLimiter) allow(userID int64) bool {
	now := time.Now()
	cutoff := now.Add(-r.window)

	r.mu.Lock()
	defer r.mu.Unlock()

	recent := r.calls[userID][:0]
	for _, t := range r.calls[userID] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= r.maxCalls {
		r.calls[userID] = recent
		metrics.IncrementRateLimitHit(strconv.FormatInt(userID, 10))
		return false
	}

	r.calls[userID] = append(recent, now)
	return true
}
