// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/applyo/livepoll/cliparse"
	"github.com/applyo/livepoll/db"
	"github.com/applyo/livepoll/models"
)

// SetupTestDB creates a fresh sqlite database in a temp dir with the
// full schema. Each test gets its own file, so no cleanup queries are
// needed.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return setupDB(t, false)
}

// SetupTestDBUniqueIP is SetupTestDB with the per-poll-per-address
// uniqueness index enabled.
func SetupTestDBUniqueIP(t *testing.T) *sql.DB {
	t.Helper()
	return setupDB(t, true)
}

func setupDB(t *testing.T, uniqueByIP bool) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "livepoll_test.db")
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// sqlite allows a single writer
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn, uniqueByIP); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           4000,
		DatabaseURL:    "file:test.db",
		DatabaseType:   "sqlite",
		TokenSalt:      "test-token-salt",
		VoteRateMax:    1000, // Effectively unlimited for handler tests
		VoteRateWindow: 5 * time.Minute,
	}
}

// CreateTestPoll inserts a poll with the given options and returns
// its ID
func CreateTestPoll(t *testing.T, conn *sql.DB, question string, options []string) string {
	t.Helper()

	pollID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO poll (id, question, total_votes, created_at)
		VALUES ($1, $2, 0, $3)
	`, pollID, question, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	for i, text := range options {
		_, err := conn.Exec(`
			INSERT INTO poll_option (poll_id, idx, text, votes)
			VALUES ($1, $2, $3, 0)
		`, pollID, i, text)
		if err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
	}

	return pollID
}

// CapturePublisher records published snapshots for assertions.
// Implements vote.Publisher.
type CapturePublisher struct {
	mu    sync.Mutex
	polls []models.Poll
}

func (p *CapturePublisher) Publish(poll models.Poll) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.polls = append(p.polls, poll)
	return nil
}

// Published returns a copy of everything published so far
func (p *CapturePublisher) Published() []models.Poll {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Poll(nil), p.polls...)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
