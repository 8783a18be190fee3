package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ADCairex/dashboard-app/models"
)

// Session is a server-issued login token with an explicit expiry. The server
// is the only session authority; clients never decide expiry themselves.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store keeps active sessions in process memory. Expired entries are pruned
// lazily on issue and validation; there is no background task.
type Store struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a session store issuing tokens valid for ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue creates and records a fresh session.
func (s *Store) Issue() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()

	sess := Session{
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.sessions[sess.Token] = sess
	return sess
}

// Validate returns nil while the token exists and is unexpired.
func (s *Store) Validate(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return models.ErrSessionExpired
	}
	if !s.now().Before(sess.ExpiresAt) {
		delete(s.sessions, token)
		return models.ErrSessionExpired
	}
	return nil
}

// Revoke deletes a session; revoking an unknown token is a no-op.
func (s *Store) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	return len(s.sessions)
}

func (s *Store) pruneLocked() {
	now := s.now()
	for token, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}
