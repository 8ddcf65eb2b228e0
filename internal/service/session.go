package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
)

// GenerateSessionID generates a cryptographically secure visitor session ID.
// Uses 32 bytes of random data encoded as base64 URL-safe string.
func GenerateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return base64.URLEncoding.EncodeToString(b), nil
}

// Session state keys in the KV store.

func cartKey(sessionID string) string     { return "cart:" + sessionID }
func authKey(sessionID string) string     { return "auth:" + sessionID }
func checkoutKey(sessionID string) string { return "checkout:" + sessionID }
func ordersKey(sessionID string) string   { return "orders:" + sessionID }
func stagedKey(sessionID string) string   { return "staged_order:" + sessionID }

// sessionLocks serializes mutations per visitor session. This is the
// server-side counterpart of disabling the triggering control while a
// mutating call is in flight.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: map[string]*sync.Mutex{}}
}

// lock acquires the per-session mutex, creating it on first use.
func (s *sessionLocks) lock(sessionID string) func() {
	s.mu.Lock()
	m, ok := s.locks[sessionID]
	if !ok {
		m = &sync.Mutex{}
		s.locks[sessionID] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}
