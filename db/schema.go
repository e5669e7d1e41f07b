// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// When uniqueByIP is true an additional unique index makes the
// normalized client address a per-poll identity dimension, so two
// voters behind the same address cannot both vote on one poll.
func CreateSchema(db *sql.DB, uniqueByIP bool) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if uniqueByIP {
		_, err = db.Exec(`
			CREATE UNIQUE INDEX IF NOT EXISTS idx_vote_record_poll_ip
			ON vote_record(poll_id, ip_address)
		`)
		if err != nil {
			return fmt.Errorf("failed to create ip uniqueness index: %w", err)
		}
	}

	return nil
}

// No column defaults for timestamps or counters: every write supplies
// them explicitly so the DDL stays portable across postgres and sqlite.
const schema = `
-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    question TEXT NOT NULL,
    total_votes INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Options, ordered by idx within their poll
CREATE TABLE IF NOT EXISTS poll_option (
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    idx INTEGER NOT NULL,
    text TEXT NOT NULL,
    votes INTEGER NOT NULL,
    PRIMARY KEY (poll_id, idx)
);

CREATE INDEX IF NOT EXISTS idx_poll_option_poll_id ON poll_option(poll_id);

-- Duplicate-guard ledger: one row per accepted vote, never updated,
-- never deleted. The unique index is the arbiter under concurrency.
CREATE TABLE IF NOT EXISTS vote_record (
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    token_hash TEXT NOT NULL,
    ip_address TEXT NOT NULL,
    device_hash TEXT,
    voted_at TIMESTAMP NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_vote_record_poll_token
    ON vote_record(poll_id, token_hash);

CREATE INDEX IF NOT EXISTS idx_vote_record_poll_device
    ON vote_record(poll_id, device_hash, voted_at);
`
