// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP helpers shared by all handlers:
request logging, CORS, JSON encode/decode, client IP extraction, and
the per-requester-per-poll vote attempt limiter.

The limiter is a fixed-window counter (default 5 attempts per 5
minutes) that answers 429 before the vote handler runs. It is a
pre-filter only; duplicate-vote correctness lives in the vote package.
*/
package middleware
