// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/applyo/livepoll/middleware"
	"github.com/applyo/livepoll/models"
	"github.com/applyo/livepoll/vote"
)

type VotingHandler struct {
	coordinator *vote.Coordinator
}

func NewVotingHandler(coordinator *vote.Coordinator) *VotingHandler {
	return &VotingHandler{coordinator: coordinator}
}

// SubmitVote handles POST /polls/:id/vote
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeInvalidInput, "Invalid JSON")
		return
	}

	if req.OptionIndex == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeInvalidInput, "optionIndex is required")
		return
	}

	poll, err := h.coordinator.Submit(
		r.Context(),
		pollID,
		*req.OptionIndex,
		req.VoteToken,
		middleware.GetClientIP(r),
		r.UserAgent(),
	)

	switch {
	case err == nil:
		middleware.JSONResponse(w, http.StatusOK, models.PollResponse{Poll: *poll})

	case errors.Is(err, vote.ErrInvalidIdentity):
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeInvalidIdentity, "Valid vote token is required")

	case errors.Is(err, vote.ErrInvalidOption):
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeInvalidOption, "Invalid option")

	case errors.Is(err, vote.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Poll not found")

	case errors.Is(err, vote.ErrDuplicateVote):
		middleware.ErrorResponse(w, http.StatusForbidden, models.CodeDuplicateVote, "You have already voted in this poll")

	case errors.Is(err, vote.ErrRateLimited):
		middleware.ErrorResponse(w, http.StatusForbidden, models.CodeRateLimited, "This device voted too recently. Try again later.")

	default:
		// Storage/system failure: full detail in the log, opaque to
		// the client
		slog.Error("vote submission failed", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Something went wrong")
	}
}
