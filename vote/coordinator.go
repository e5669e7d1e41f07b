// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/applyo/livepoll/identity"
	"github.com/applyo/livepoll/metrics"
	"github.com/applyo/livepoll/models"
)

// Policy selects which identity dimensions the duplicate guard
// enforces. The token hash is always unique per poll. UniqueByIP adds
// a permanent per-poll-per-address constraint (enforced by the schema
// index, see db.CreateSchema). DeviceCooldown rejects a device
// fingerprint that voted within the window; zero disables it.
type Policy struct {
	UniqueByIP     bool
	DeviceCooldown time.Duration
}

// Publisher fans the updated poll state out to live subscribers.
// Publish failures never fail the vote that already committed.
type Publisher interface {
	Publish(poll models.Poll) error
}

// Coordinator runs the vote-submission protocol: identity derivation,
// duplicate-guard reservation, and tally increment as one atomic unit,
// then a fire-and-forget broadcast.
type Coordinator struct {
	db      *sql.DB
	policy  Policy
	pub     Publisher
	metrics *metrics.VoteMetrics
	salt    string
}

// NewCoordinator wires the submission pipeline. salt is used only for
// the hashed addresses that appear in logs; it never touches the
// stored identity.
func NewCoordinator(db *sql.DB, policy Policy, pub Publisher, m *metrics.VoteMetrics, salt string) *Coordinator {
	return &Coordinator{db: db, policy: policy, pub: pub, metrics: m, salt: salt}
}

// Submit records one vote attempt. On success the returned poll
// reflects the committed increment. Business-rule rejections come back
// as the package sentinel errors; anything else is a storage failure.
//
// The vote_record insert and the counter increments share one
// transaction: a reservation never persists without its increment and
// vice versa. Duplicate detection happens at the unique index, not via
// a prior existence check, so two concurrent submissions with the same
// identity race at the constraint and exactly one wins.
func (c *Coordinator) Submit(ctx context.Context, pollID string, optionIndex int, rawToken, remoteAddr, userAgent string) (*models.Poll, error) {
	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.ProcessingTime.Observe(time.Since(start).Seconds())
		}
	}()

	id, err := identity.Resolve(rawToken, remoteAddr, userAgent, pollID)
	if err != nil {
		c.reject(pollID, models.CodeInvalidIdentity)
		return nil, ErrInvalidIdentity
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	poll, err := LoadPoll(ctx, tx, pollID)
	if err != nil {
		if err == ErrNotFound {
			c.reject(pollID, models.CodeNotFound)
		}
		return nil, err
	}

	if optionIndex < 0 || optionIndex >= len(poll.Options) {
		c.reject(pollID, models.CodeInvalidOption)
		return nil, ErrInvalidOption
	}

	// Cool-down is a pre-emptive, time-windowed check; the permanent
	// dimensions below are still enforced by the unique indexes.
	if c.policy.DeviceCooldown > 0 {
		cutoff := time.Now().Add(-c.policy.DeviceCooldown)
		var recent int
		err = tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM vote_record
			WHERE poll_id = $1 AND device_hash = $2 AND voted_at > $3
		`, pollID, id.DeviceHash, cutoff).Scan(&recent)
		if err != nil {
			return nil, fmt.Errorf("failed to query device cooldown: %w", err)
		}
		if recent > 0 {
			c.reject(pollID, models.CodeRateLimited)
			return nil, ErrRateLimited
		}
	}

	// Reserve the identity. The unique index rejects the loser of any
	// concurrent duplicate race.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote_record (poll_id, token_hash, ip_address, device_hash, voted_at)
		VALUES ($1, $2, $3, $4, $5)
	`, pollID, id.TokenHash, id.Address, id.DeviceHash, time.Now())
	if err != nil {
		if isUniqueViolation(err) {
			c.reject(pollID, models.CodeDuplicateVote)
			return nil, ErrDuplicateVote
		}
		return nil, fmt.Errorf("failed to insert vote record: %w", err)
	}

	// Tally: counter arithmetic happens in the database, no
	// read-modify-write window.
	res, err := tx.ExecContext(ctx, `
		UPDATE poll_option SET votes = votes + 1
		WHERE poll_id = $1 AND idx = $2
	`, pollID, optionIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to increment option counter: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n != 1 {
		return nil, fmt.Errorf("option increment touched %d rows", n)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE poll SET total_votes = total_votes + 1
		WHERE id = $1
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to increment total votes: %w", err)
	}

	updated, err := LoadPoll(ctx, tx, pollID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit vote: %w", err)
	}

	if c.metrics != nil {
		c.metrics.VotesAccepted.WithLabelValues(pollID).Inc()
	}

	slog.Info("vote accepted",
		"poll_id", pollID,
		"option", optionIndex,
		"voter_addr", identity.HashAddress(id.Address, c.salt),
	)

	c.publish(updated)

	return updated, nil
}

// GetPoll fetches current poll state outside any vote transaction.
func (c *Coordinator) GetPoll(ctx context.Context, pollID string) (*models.Poll, error) {
	return LoadPoll(ctx, c.db, pollID)
}

// publish pushes the committed state to subscribers. Failures are
// logged and swallowed: the voter's transaction already succeeded.
func (c *Coordinator) publish(poll *models.Poll) {
	if c.pub == nil {
		return
	}
	if err := c.pub.Publish(*poll); err != nil {
		slog.Warn("broadcast publish failed", "poll_id", poll.ID, "error", err)
	}
}

func (c *Coordinator) reject(pollID, reason string) {
	if c.metrics != nil {
		c.metrics.VotesRejected.WithLabelValues(pollID, reason).Inc()
	}
}
