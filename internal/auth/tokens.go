// Package auth implements the proxy's token-set authorization model.
//
// The proxy is configured with two independent sets of opaque tokens:
// client keys, which authorize the toggle-reading endpoints, and
// server-side tokens, which authorize the definition export (and, together
// with client keys, metrics ingestion). Membership is an exact string
// match; tokens are never parsed or normalized.
package auth

import "sync/atomic"

// TokenSet is an ordered collection of opaque tokens supporting atomic
// replacement, so keys can be rotated without restarting the proxy.
// Readers always observe either the previous set or the new one in full.
type TokenSet struct {
	tokens atomic.Pointer[[]string]
}

// NewTokenSet creates a token set holding the given tokens.
func NewTokenSet(tokens ...string) *TokenSet {
	s := &TokenSet{}
	s.Replace(tokens)
	return s
}

// Replace swaps in a new set of tokens. The input slice is copied, so the
// caller may reuse it afterwards.
func (s *TokenSet) Replace(tokens []string) {
	copied := make([]string, len(tokens))
	copy(copied, tokens)
	s.tokens.Store(&copied)
}

// Tokens returns a copy of the current set.
func (s *TokenSet) Tokens() []string {
	current := *s.tokens.Load()
	result := make([]string, len(current))
	copy(result, current)
	return result
}

// Contains reports whether token is a member of the set.
func (s *TokenSet) Contains(token string) bool {
	for _, t := range *s.tokens.Load() {
		if t == token {
			return true
		}
	}
	return false
}

// Authorize reports whether the presented token belongs to at least one of
// the given sets. An absent (empty) token is never authorized.
func Authorize(token string, sets ...*TokenSet) bool {
	if token == "" {
		return false
	}
	for _, s := range sets {
		if s.Contains(token) {
			return true
		}
	}
	return false
}
