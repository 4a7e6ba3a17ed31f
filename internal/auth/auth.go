// Package auth provides sessions for the Supabase-style auth provider.
//
// The data-access layer never validates identities itself; it reads the
// current session to stamp user IDs and to build Authorization headers, and
// relies on the store's row-level policy for enforcement.
package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/oauth2"
)

// ErrAuthRequired indicates no session is present for an operation that
// requires an authenticated identity.
var ErrAuthRequired = errors.New("auth: authentication required")

// Session is the authenticated identity used for store and API calls.
type Session struct {
	// UserID is the auth provider's identity, shared with the profiles table.
	UserID string

	// Email of the signed-in user, when known.
	Email string

	// Token carries the bearer credential and its expiry.
	Token oauth2.Token
}

// Valid reports whether the session holds a usable, unexpired credential.
func (s *Session) Valid() bool {
	if s == nil || s.UserID == "" || s.Token.AccessToken == "" {
		return false
	}
	if s.Token.Expiry.IsZero() {
		return true
	}
	return time.Now().Before(s.Token.Expiry)
}

// Source supplies the current session.
//
// Implementations must return ErrAuthRequired when no session exists; callers
// distinguish that from transport failures reaching the auth provider.
type Source interface {
	Session(ctx context.Context) (*Session, error)
}

// StaticSource returns a fixed session. Used for service tokens and in tests.
type StaticSource struct {
	session *Session
}

// NewStaticSource creates a Source that always returns the given identity.
func NewStaticSource(userID, email, accessToken string) *StaticSource {
	return &StaticSource{
		session: &Session{
			UserID: userID,
			Email:  email,
			Token:  oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"},
		},
	}
}

// Session implements Source.
func (s *StaticSource) Session(ctx context.Context) (*Session, error) {
	if s.session == nil || !s.session.Valid() {
		return nil, ErrAuthRequired
	}
	return s.session, nil
}

// Anonymous is a Source with no session; every call yields ErrAuthRequired.
type Anonymous struct{}

// Session implements Source.
func (Anonymous) Session(ctx context.Context) (*Session, error) {
	return nil, ErrAuthRequired
}
