// Package token derives and verifies the capability tokens that secure
// subscription confirm and unsubscribe links.
//
// A token is a pure function of (email, city, action) under a shared
// secret: an HMAC-SHA256 digest truncated to 16 bytes and encoded as
// unpadded URL-safe base64. Nothing is stored; verification re-derives
// the token locally. Tokens carry no expiry and remain valid for as
// long as the secret is unchanged. That is a known limitation of the scheme,
// accepted in exchange for needing no session store.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Action scopes a token to a single subscription operation.
type Action string

const (
	ActionConfirm     Action = "confirm"
	ActionUnsubscribe Action = "unsubscribe"
)

// Valid reports whether a is a defined action.
func (a Action) Valid() bool {
	return a == ActionConfirm || a == ActionUnsubscribe
}

const digestLen = 16

// Service issues and verifies capability tokens under a shared secret.
type Service struct {
	secret []byte
}

// NewService creates a token service. The secret must be non-empty and
// identical across the run and subscription processes.
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Issue derives the token for an (email, city, action) grant. Inputs
// are expected to be normalized by the caller; the same tuple always
// yields the same token.
func (s *Service) Issue(email, city string, action Action) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%s|%s", email, city, action)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)[:digestLen])
}

// Verify reports whether token is the valid capability for the given
// tuple. The comparison is constant-time.
func (s *Service) Verify(token, email, city string, action Action) bool {
	if !action.Valid() {
		return false
	}
	expected := s.Issue(email, city, action)
	return hmac.Equal([]byte(expected), []byte(token))
}
