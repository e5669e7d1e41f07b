// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package vote implements the vote-submission protocol: duplicate-guard
reservation, atomic tally update, and the broadcast hand-off.

# Transaction Shape

Each submission runs as one database transaction:

 1. load poll (not found → ErrNotFound)
 2. bounds-check the option (→ ErrInvalidOption)
 3. optional device cool-down check (→ ErrRateLimited)
 4. insert into vote_record; a unique-index conflict → ErrDuplicateVote
 5. votes = votes + 1 and total_votes = total_votes + 1
 6. re-read the poll, commit

Steps 4 and 5 commit or roll back together: a reservation never
persists without its increment. Correctness under concurrency is
delegated to storage primitives - the unique index arbitrates duplicate
races and the in-database arithmetic leaves no read-modify-write
window - so the package holds no locks of its own.

# Broadcast

After commit the coordinator hands the new poll state to an injected
Publisher. Publishing is fire-and-forget; failures are logged and never
surfaced to the voter.

# Policy

Policy chooses the enforced identity dimensions at deployment time:
the token hash is always unique per poll, per-address uniqueness and
the 5-minute device cool-down are opt-in.
*/
package vote
