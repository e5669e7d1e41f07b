// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: question, options ([]string)
  - VoteRequest: optionIndex, voteToken

# Response Types

Types for JSON responses:

  - PollResponse: poll, link
  - ErrorResponse: error, code, message

# Domain Types

Internal data structures:

  - Poll: question, ordered options with counters, totalVotes
  - Option: text and vote counter
  - VoteRecord: duplicate-guard ledger entry (never serialized)

# Error Codes

Every client-facing failure carries one of the Code* constants so
clients can branch on a stable value instead of the message text.
*/
package models
