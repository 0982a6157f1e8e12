package loginsession

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// InMemoryRepo is a single-process Repo. Run one instance only, or make login
// and callback requests sticky, when using it.
type InMemoryRepo struct {
	mu       sync.Mutex
	sessions map[string]Session // sessionID -> Session
	ttl      time.Duration
	now      func() time.Time
}

var _ Repo = (*InMemoryRepo)(nil)

type InMemoryOption func(*InMemoryRepo)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) InMemoryOption {
	return func(r *InMemoryRepo) {
		r.now = now
	}
}

// NewInMemoryRepo creates a new in-memory login session repository
func NewInMemoryRepo(ttl time.Duration, opts ...InMemoryOption) *InMemoryRepo {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	r := &InMemoryRepo{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Begin creates and stores a new login session
func (r *InMemoryRepo) Begin(_ context.Context) (Session, error) {
	session, err := newSession(r.now(), r.ttl)
	if err != nil {
		return Session{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.ID]; exists {
		return Session{}, fmt.Errorf("[InMemoryRepo Begin] session id collision")
	}
	r.sessions[session.ID] = session
	return session, nil
}

// Consume removes the session and returns it if it has not expired
func (r *InMemoryRepo) Consume(_ context.Context, sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, ErrNotFound
	}

	r.mu.Lock()
	session, ok := r.sessions[sessionID]
	delete(r.sessions, sessionID)
	r.mu.Unlock()

	if !ok || session.Expired(r.now()) {
		return Session{}, ErrNotFound
	}
	return session, nil
}

// Len returns the number of stored sessions, including expired ones not yet swept.
func (r *InMemoryRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep deletes every expired session and returns how many were removed.
func (r *InMemoryRepo) Sweep() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, session := range r.sessions {
		if session.Expired(now) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until ctx is cancelled.
func (r *InMemoryRepo) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := r.Sweep(); n > 0 {
					log.Debug().Int("removed", n).Msg("swept expired login sessions")
				}
			}
		}
	}()
}
