// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/applyo/livepoll/middleware"
	"github.com/applyo/livepoll/models"
	"github.com/applyo/livepoll/vote"
)

const maxQuestionLength = 500

type PollHandler struct {
	db *sql.DB
}

func NewPollHandler(db *sql.DB) *PollHandler {
	return &PollHandler{db: db}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeInvalidInput, "Invalid JSON")
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeInvalidInput, "question is required")
		return
	}
	if len(question) > maxQuestionLength {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeInvalidInput, "question is too long")
		return
	}

	options := cleanOptions(req.Options)
	if len(options) < 2 {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeInvalidInput,
			"At least 2 unique non-empty options are required")
		return
	}

	pollID := uuid.NewString()
	createdAt := time.Now()

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to create poll")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO poll (id, question, total_votes, created_at)
		VALUES ($1, $2, 0, $3)
	`, pollID, question, createdAt)
	if err != nil {
		slog.Error("failed to insert poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to create poll")
		return
	}

	for i, text := range options {
		_, err = tx.Exec(`
			INSERT INTO poll_option (poll_id, idx, text, votes)
			VALUES ($1, $2, $3, 0)
		`, pollID, i, text)
		if err != nil {
			slog.Error("failed to insert option", "error", err, "poll_id", pollID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to create poll")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit poll creation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", pollID, "options", len(options))

	poll := models.Poll{
		ID:        pollID,
		Question:  question,
		CreatedAt: createdAt,
	}
	for _, text := range options {
		poll.Options = append(poll.Options, models.Option{Text: text})
	}

	middleware.JSONResponse(w, http.StatusCreated, models.PollResponse{
		Poll: poll,
		Link: "/poll/" + pollID,
	})
}

// GetPoll handles GET /polls/:id
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	poll, err := vote.LoadPoll(r.Context(), h.db, pollID)
	if err == vote.ErrNotFound {
		// Malformed ids land here too: anything that resolves to no
		// poll is a 404
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to load poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollResponse{Poll: *poll})
}

// cleanOptions trims each option, drops empties, and deduplicates
// case-sensitively while preserving first-seen order.
func cleanOptions(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	options := make([]string, 0, len(raw))

	for _, opt := range raw {
		text := strings.TrimSpace(opt)
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		options = append(options, text)
	}

	return options
}
