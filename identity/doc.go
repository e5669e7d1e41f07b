// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity derives a stable pseudo-identity for a vote attempt
from an opaque client token, the requester's network address, and the
client signature (user agent).

Derivation is pure and one-way: raw tokens are hashed with sha256 and
never stored, addresses are canonicalized (first proxy hop, port
stripped, loopback variants collapsed), and the device fingerprint is
bound to a single poll id so one device can vote on different polls.
*/
package identity
