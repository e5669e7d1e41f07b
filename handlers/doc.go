// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the livepoll API.

# Handler Types

Each handler is a struct with its dependencies injected via
constructor:

  - PollHandler: poll creation and retrieval (*sql.DB)
  - VotingHandler: vote submission (*vote.Coordinator)
  - LiveHandler: websocket subscriptions (*sql.DB, *pubsub.Hub)

# Voting Flow

	POST /polls            → CreatePoll (trim, dedupe, ≥2 options)
	GET  /polls/{id}       → GetPoll
	POST /polls/{id}/vote  → SubmitVote (optionIndex + voteToken)
	GET  /polls/{id}/live  → Subscribe (poll-scoped topic)

SubmitVote maps the coordinator's error taxonomy onto status codes:
400 for invalid input/identity/option, 403 for duplicate votes and
device cool-down, 404 for unknown polls, 429 (from the limiter
wrapper) for attempt-rate rejection, and an opaque 500 for anything
else.
*/
package handlers
