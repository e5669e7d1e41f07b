// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db creates the database schema.

# Tables

  - poll: question, total_votes counter, created_at
  - poll_option: per-poll ordered options with vote counters
  - vote_record: append-only duplicate-guard ledger

# Uniqueness

Duplicate prevention relies on insert-time unique indexes rather than
check-then-insert:

  - vote_record(poll_id, token_hash) (always)
  - vote_record(poll_id, ip_address) (only when enabled by config)

A concurrent duplicate submission loses at the index, not at an
application-level existence check, so there is no TOCTOU window.

# Portability

The DDL runs unchanged on PostgreSQL (lib/pq) and sqlite
(modernc.org/sqlite). Timestamps and counters are always written
explicitly instead of relying on engine-specific defaults.
*/
package db
