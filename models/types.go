// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Stable error codes surfaced to clients
const (
	CodeInvalidInput    = "invalid_input"
	CodeInvalidIdentity = "invalid_identity"
	CodeInvalidOption   = "invalid_option"
	CodeNotFound        = "not_found"
	CodeDuplicateVote   = "duplicate_vote"
	CodeRateLimited     = "rate_limited"
	CodeInternal        = "internal"
)

// Request types

type CreatePollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type VoteRequest struct {
	// Pointer so a missing field can be told apart from a vote for option 0
	OptionIndex *int   `json:"optionIndex"`
	VoteToken   string `json:"voteToken"`
}

// Response types

type PollResponse struct {
	Poll Poll   `json:"poll"`
	Link string `json:"link,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Domain types

type Option struct {
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

type Poll struct {
	ID         string    `json:"id"`
	Question   string    `json:"question"`
	Options    []Option  `json:"options"`
	TotalVotes int       `json:"totalVotes"`
	CreatedAt  time.Time `json:"createdAt"`
}

// VoteRecord is one entry in the duplicate-guard ledger. Identity
// fields are one-way hashes, except the normalized address, which
// stricter configurations enforce as a per-poll unique dimension.
type VoteRecord struct {
	PollID     string    `json:"-"` // Never expose in JSON
	TokenHash  string    `json:"-"`
	IPAddress  string    `json:"-"`
	DeviceHash string    `json:"-"`
	VotedAt    time.Time `json:"-"`
}
