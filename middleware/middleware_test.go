// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/applyo/livepoll/models"
)

func TestWithLogging(t *testing.T) {
	handlerCalled := false
	testHandler := func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	}

	wrappedHandler := WithLogging(testHandler)

	req := httptest.NewRequest("GET", "/test-path", nil)
	w := httptest.NewRecorder()

	wrappedHandler(w, req)

	if !handlerCalled {
		t.Error("Expected handler to be called")
	}
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "success" {
		t.Errorf("Expected body 'success', got '%s'", w.Body.String())
	}
}

func TestErrorResponse_CarriesCode(t *testing.T) {
	w := httptest.NewRecorder()

	ErrorResponse(w, http.StatusForbidden, models.CodeDuplicateVote, "You have already voted in this poll")

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", w.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Code != models.CodeDuplicateVote {
		t.Errorf("Expected code %s, got %s", models.CodeDuplicateVote, resp.Code)
	}
	if resp.Error != "Forbidden" {
		t.Errorf("Expected error 'Forbidden', got %s", resp.Error)
	}
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name     string
		setup    func(r *http.Request)
		expected string
	}{
		{
			name:     "remote addr with port",
			setup:    func(r *http.Request) { r.RemoteAddr = "203.0.113.9:54321" },
			expected: "203.0.113.9",
		},
		{
			name: "x-forwarded-for single",
			setup: func(r *http.Request) {
				r.Header.Set("X-Forwarded-For", "198.51.100.7")
			},
			expected: "198.51.100.7",
		},
		{
			name: "x-forwarded-for chain takes first",
			setup: func(r *http.Request) {
				r.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
			},
			expected: "198.51.100.7",
		},
		{
			name: "x-real-ip fallback",
			setup: func(r *http.Request) {
				r.Header.Set("X-Real-IP", "198.51.100.8")
			},
			expected: "198.51.100.8",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/polls/x/vote", nil)
			tc.setup(req)

			if got := GetClientIP(req); got != tc.expected {
				t.Errorf("GetClientIP = %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Preflight must not reach the handler")
	}), "https://polls.example.com")

	req := httptest.NewRequest("OPTIONS", "/polls", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://polls.example.com" {
		t.Errorf("Expected configured origin, got %q", got)
	}
}
