// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/applyo/livepoll/cliparse"
	"github.com/applyo/livepoll/handlers"
	"github.com/applyo/livepoll/middleware"
	"github.com/applyo/livepoll/pubsub"
	"github.com/applyo/livepoll/vote"
)

// NewRouter builds the route table. The coordinator and hub are
// injected by reference; metricsHandler may be nil to disable the
// /metrics endpoint (tests).
func NewRouter(db *sql.DB, cfg cliparse.Config, coordinator *vote.Coordinator, hub *pubsub.Hub, metricsHandler http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	pollHandler := handlers.NewPollHandler(db)
	votingHandler := handlers.NewVotingHandler(coordinator)
	liveHandler := handlers.NewLiveHandler(db, hub)

	voteLimiter := middleware.NewVoteLimiter(cfg.VoteRateMax, cfg.VoteRateWindow)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	// Polls (public)
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))

	// Voting: the attempt limiter runs before the handler
	mux.HandleFunc("POST /polls/{id}/vote",
		middleware.WithLogging(voteLimiter.Wrap(votingHandler.SubmitVote)))

	// Live results channel
	mux.HandleFunc("GET /polls/{id}/live", liveHandler.Subscribe)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("livepoll API v1"))
	})

	return mux
}
