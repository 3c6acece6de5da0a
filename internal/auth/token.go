// Package auth implements the capability token registry guarding every
// catalog operation.
//
// A token is an opaque random alphanumeric string whose only property is
// membership in the active set. Tokens are held in memory and do not
// survive a restart.
package auth

import (
	"math/rand"
	"sync"
)

const (
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	tokenLength   = 8
)

// TokenStore is the process-wide registry of active capability tokens.
//
// All mutations are mutually exclusive; the zero value is not usable, use
// [NewTokenStore].
type TokenStore struct {
	mu     sync.Mutex
	active map[string]struct{}
	rand   *rand.Rand
}

// NewTokenStore creates an empty TokenStore seeded from src.
//
// A nil src falls back to the shared global source. Token randomness does
// not need to be cryptographically secure; the 62^8 space makes collisions
// a non-concern and no explicit collision check is performed.
func NewTokenStore(src rand.Source) *TokenStore {
	s := &TokenStore{active: make(map[string]struct{})}
	if src != nil {
		s.rand = rand.New(src)
	}
	return s
}

// Issue generates a new token, adds it to the active set and returns it.
func (s *TokenStore) Issue() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := s.generate()
	s.active[token] = struct{}{}
	return token
}

// Validate reports whether token is non-empty and currently active.
func (s *TokenStore) Validate(token string) bool {
	if token == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.active[token]
	return ok
}

// Rotate revokes oldToken and issues a replacement in one critical section.
//
// Returns ("", false) when oldToken is not active; no state changes in that
// case. Other active tokens are unaffected.
func (s *TokenStore) Rotate(oldToken string) (string, bool) {
	if oldToken == "" {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.active[oldToken]; !ok {
		return "", false
	}

	delete(s.active, oldToken)
	token := s.generate()
	s.active[token] = struct{}{}
	return token, true
}

// Revoke removes token from the active set. Revoking an unknown token is a
// no-op.
func (s *TokenStore) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.active, token)
}

// Len returns the number of currently active tokens.
func (s *TokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.active)
}

// generate builds a fixed-length alphanumeric token. Callers must hold mu.
func (s *TokenStore) generate() string {
	buf := make([]byte, tokenLength)
	for i := range buf {
		if s.rand != nil {
			buf[i] = tokenAlphabet[s.rand.Intn(len(tokenAlphabet))]
		} else {
			buf[i] = tokenAlphabet[rand.Intn(len(tokenAlphabet))]
		}
	}
	return string(buf)
}
