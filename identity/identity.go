// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net"
	"net/netip"
	"strings"
)

var ErrEmptyToken = errors.New("vote token is missing or empty")

// Identity is the derived pseudo-identity of a vote attempt. No raw
// token survives derivation; Address is kept in normalized form
// because some configurations enforce it as a unique dimension.
type Identity struct {
	TokenHash  string
	Address    string
	DeviceHash string
}

// Resolve derives the identity for one vote attempt. Pure: no side
// effects, nothing stored.
func Resolve(rawToken, remoteAddr, userAgent, pollID string) (Identity, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return Identity{}, ErrEmptyToken
	}

	addr := NormalizeAddress(remoteAddr)

	return Identity{
		TokenHash:  HashToken(token),
		Address:    addr,
		DeviceHash: DeviceFingerprint(addr, userAgent, pollID),
	}, nil
}

// HashToken returns the hex sha256 of the trimmed voter token.
func HashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(rawToken)))
	return hex.EncodeToString(sum[:])
}

// DeviceFingerprint hashes the normalized address together with the
// client signature and the poll id. Binding the poll id keeps the
// fingerprint scoped to one poll, so the same device can still vote
// on other polls.
func DeviceFingerprint(normalizedAddr, userAgent, pollID string) string {
	sum := sha256.Sum256([]byte(normalizedAddr + "|" + userAgent + "|" + pollID))
	return hex.EncodeToString(sum[:])
}

// NormalizeAddress canonicalizes a client network address:
// a proxy chain collapses to its first hop, a trailing port is
// stripped, and IPv6/IPv4 loopback variants become 127.0.0.1 so a
// local client always maps to one identity.
func NormalizeAddress(remoteAddr string) string {
	addr := strings.TrimSpace(remoteAddr)

	// First hop of a comma-separated proxy chain (closest to client)
	if i := strings.IndexByte(addr, ','); i >= 0 {
		addr = strings.TrimSpace(addr[:i])
	}

	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	addr = strings.Trim(addr, "[]")

	ip, err := netip.ParseAddr(addr)
	if err != nil {
		// Not an IP literal; keep whatever the transport gave us
		return addr
	}
	if ip.Is4In6() {
		ip = ip.Unmap()
	}
	if ip.IsLoopback() {
		return "127.0.0.1"
	}
	return ip.String()
}

// HashAddress creates a salted one-way hash of an address for log
// output. Includes salt to prevent rainbow table attacks.
func HashAddress(addr, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(addr))
	sum := h.Sum(nil)
	// First 16 hex chars (64 bits) - enough for correlation
	return hex.EncodeToString(sum[:8])
}
