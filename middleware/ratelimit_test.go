// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestVoteLimiter_Allow(t *testing.T) {
	l := NewVoteLimiter(3, 5*time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("203.0.113.9", "poll-1") {
			t.Fatalf("Attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("203.0.113.9", "poll-1") {
		t.Error("Attempt 4 should be rejected")
	}

	// Other keys have their own budget
	if !l.Allow("203.0.113.10", "poll-1") {
		t.Error("Different address should not share the budget")
	}
	if !l.Allow("203.0.113.9", "poll-2") {
		t.Error("Different poll should not share the budget")
	}
}

func TestVoteLimiter_WindowRollover(t *testing.T) {
	l := NewVoteLimiter(1, 5*time.Minute)

	current := time.Now()
	l.now = func() time.Time { return current }

	if !l.Allow("203.0.113.9", "poll-1") {
		t.Fatal("First attempt should pass")
	}
	if l.Allow("203.0.113.9", "poll-1") {
		t.Fatal("Second attempt in window should be rejected")
	}

	current = current.Add(5*time.Minute + time.Second)
	if !l.Allow("203.0.113.9", "poll-1") {
		t.Error("Attempt after the window should pass")
	}
}

func TestVoteLimiter_ZeroMaxDisables(t *testing.T) {
	l := NewVoteLimiter(0, time.Minute)

	for i := 0; i < 100; i++ {
		if !l.Allow("203.0.113.9", "poll-1") {
			t.Fatal("Zero max should disable limiting")
		}
	}
}

func TestVoteLimiter_Wrap(t *testing.T) {
	l := NewVoteLimiter(1, 5*time.Minute)

	handlerCalls := 0
	wrapped := l.Wrap(func(w http.ResponseWriter, r *http.Request) {
		handlerCalls++
		w.WriteHeader(http.StatusOK)
	})

	makeReq := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/polls/poll-1/vote", nil)
		req.SetPathValue("id", "poll-1")
		w := httptest.NewRecorder()
		wrapped(w, req)
		return w
	}

	if w := makeReq(); w.Code != http.StatusOK {
		t.Fatalf("First attempt: expected 200, got %d", w.Code)
	}
	if w := makeReq(); w.Code != http.StatusTooManyRequests {
		t.Fatalf("Second attempt: expected 429, got %d", w.Code)
	}
	if handlerCalls != 1 {
		t.Errorf("Handler should run once, ran %d times", handlerCalls)
	}
}
