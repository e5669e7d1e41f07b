// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"errors"
	"strings"
)

// Business-rule failures. Handlers translate these with errors.Is;
// anything else is a storage/system failure and stays opaque to
// clients.
var (
	ErrInvalidIdentity = errors.New("valid vote token is required")
	ErrNotFound        = errors.New("poll not found")
	ErrInvalidOption   = errors.New("invalid option")
	ErrDuplicateVote   = errors.New("identity has already voted in this poll")
	ErrRateLimited     = errors.New("device voted too recently")
)

// isUniqueViolation reports whether err came from a uniqueness
// constraint. Matched on driver message text so the same code covers
// lib/pq and modernc.org/sqlite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
