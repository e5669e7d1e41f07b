// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package pubsub broadcasts poll snapshots to websocket subscribers.

Each poll id is a topic. The Hub's Run goroutine owns the subscriber
map; registration, unregistration, and broadcast all flow through
channels, so no locking is needed. Publish is non-blocking and lossy
by contract - a full hub or a slow subscriber drops snapshots rather
than ever stalling a vote transaction.
*/
package pubsub
