// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/applyo/livepoll/models"
)

// Querier is the read surface shared by *sql.DB and *sql.Tx, so poll
// loads work both inside and outside the vote transaction.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// LoadPoll fetches a poll and its ordered options.
// Returns ErrNotFound if no such poll exists.
func LoadPoll(ctx context.Context, q Querier, pollID string) (*models.Poll, error) {
	var poll models.Poll
	err := q.QueryRowContext(ctx, `
		SELECT id, question, total_votes, created_at
		FROM poll
		WHERE id = $1
	`, pollID).Scan(&poll.ID, &poll.Question, &poll.TotalVotes, &poll.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query poll: %w", err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT text, votes
		FROM poll_option
		WHERE poll_id = $1
		ORDER BY idx
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.Text, &opt.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		poll.Options = append(poll.Options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read options: %w", err)
	}

	return &poll, nil
}

// Recount recomputes total_votes from the vote_record ledger and
// repairs the stored counter if it drifted. The ledger is the source
// of truth; the counter is a derived convenience.
func Recount(ctx context.Context, db *sql.DB, pollID string) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var stored int
	err = tx.QueryRowContext(ctx, `SELECT total_votes FROM poll WHERE id = $1`, pollID).Scan(&stored)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query poll: %w", err)
	}

	var actual int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM vote_record WHERE poll_id = $1`, pollID).Scan(&actual)
	if err != nil {
		return 0, fmt.Errorf("failed to count vote records: %w", err)
	}

	if actual != stored {
		if _, err := tx.ExecContext(ctx, `
			UPDATE poll SET total_votes = $1 WHERE id = $2
		`, actual, pollID); err != nil {
			return 0, fmt.Errorf("failed to repair total_votes: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit recount: %w", err)
	}

	return actual, nil
}
