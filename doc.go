// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the livepoll API server.

livepoll is a shareable live-poll service: create a poll, share the
link, anyone votes once, and every viewer's results update in real
time over a websocket channel.

# Starting the Server

The server reads environment variables (a .env file is honored) or
CLI flags:

	DATABASE_URL=file:livepoll.db TOKEN_HASH_SALT=secret go run main.go

Or with flags:

	go run main.go -p 4000 -d "postgres://..." -t postgres -token-salt secret

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite path or PostgreSQL connection string
  - TOKEN_HASH_SALT (-token-salt): secret for salted address hashes

Optional settings:

  - PORT (-p): server port (default: 4000)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - UNIQUE_BY_IP (-unique-ip): one vote per address per poll
  - DEVICE_COOLDOWN (-device-cooldown): e.g. 5m; 0 disables
  - CLIENT_URL (-client-url): allowed CORS origin

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (polls, voting, live channel)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, vote attempt limiter
  - models: request/response/domain types
  - identity: pseudo-identity derivation for vote attempts
  - vote: duplicate guard, atomic tally, transaction coordinator
  - pubsub: websocket fan-out hub keyed by poll id
  - metrics: Prometheus instruments for the vote pipeline
  - db: schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
