// Package loginsession holds the transient state that bridges the redirect to
// the identity provider and the callback that comes back from it.
package loginsession

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/jrsteele09/go-bff-gateway/internal/errors"
	"github.com/jrsteele09/go-bff-gateway/pkce"
)

// DefaultTTL bounds how long a user may spend at the identity provider.
const DefaultTTL = 5 * time.Minute

// Random byte counts behind the session id and the anti-forgery state.
const (
	idBytes    = 32
	stateBytes = 32
)

// ErrNotFound covers absent, expired and already consumed sessions.
var ErrNotFound = apperrors.ErrSessionNotFound

// Session is one in-flight login attempt.
type Session struct {
	ID           string    `json:"id"`
	CodeVerifier string    `json:"code_verifier"`
	State        string    `json:"state"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its TTL at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Repo creates and consumes login sessions. Consume is atomic: of any number of
// concurrent callers for the same id at most one receives the session.
type Repo interface {
	Begin(ctx context.Context) (Session, error)
	Consume(ctx context.Context, sessionID string) (Session, error)
}

// newSession generates the id, verifier and state for a fresh login attempt.
func newSession(now time.Time, ttl time.Duration) (Session, error) {
	id, err := pkce.RandomString(idBytes)
	if err != nil {
		return Session{}, fmt.Errorf("[loginsession newSession] id: %w", err)
	}
	verifier := pkce.GenerateVerifier()
	state, err := pkce.RandomString(stateBytes)
	if err != nil {
		return Session{}, fmt.Errorf("[loginsession newSession] state: %w", err)
	}
	return Session{
		ID:           id,
		CodeVerifier: verifier,
		State:        state,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}, nil
}
