// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/applyo/livepoll/models"
)

// VoteLimiter is a fixed-window request-rate pre-filter: at most max
// vote attempts per window, keyed by (client address, poll id). It
// counts attempts, not accepted votes - duplicate-vote enforcement is
// the guard's job, this only throttles hammering.
type VoteLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	buckets map[string]*rateBucket

	now func() time.Time
}

type rateBucket struct {
	count       int
	windowStart time.Time
}

func NewVoteLimiter(max int, window time.Duration) *VoteLimiter {
	return &VoteLimiter{
		max:     max,
		window:  window,
		buckets: make(map[string]*rateBucket),
		now:     time.Now,
	}
}

// Allow records an attempt for the key and reports whether it is
// within the window's budget.
func (l *VoteLimiter) Allow(addr, pollID string) bool {
	if l.max <= 0 {
		return true
	}

	key := addr + "|" + pollID
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.buckets[key]
	if b == nil || now.Sub(b.windowStart) >= l.window {
		l.buckets[key] = &rateBucket{count: 1, windowStart: now}
		l.pruneLocked(now)
		return true
	}

	b.count++
	return b.count <= l.max
}

// pruneLocked drops buckets whose window has passed. Called with the
// lock held, only on the window-rollover path to keep Allow cheap.
func (l *VoteLimiter) pruneLocked(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.windowStart) >= l.window {
			delete(l.buckets, key)
		}
	}
}

// Wrap gates a vote handler behind the limiter. Rejected attempts get
// 429 before the handler runs.
func (l *VoteLimiter) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(GetClientIP(r), r.PathValue("id")) {
			ErrorResponse(w, http.StatusTooManyRequests, models.CodeRateLimited,
				"Too many vote attempts. Try again later.")
			return
		}
		next(w, r)
	}
}
