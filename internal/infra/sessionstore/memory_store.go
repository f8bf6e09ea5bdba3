package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/mariiahub/booking-api/internal/domain/wizard"
)

type entry struct {
	session   wizard.Session
	expiresAt time.Time
}

// MemoryStore keeps wizard sessions in process memory for dev and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]entry
	now      func() time.Time
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]entry), now: time.Now}
}

// Save stores the session with an optional TTL.
func (s *MemoryStore) Save(_ context.Context, session wizard.Session, ttl time.Duration) error {
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.sessions[session.ID] = entry{session: session, expiresAt: exp}
	s.mu.Unlock()
	return nil
}

// Load returns the session unless it is missing or expired.
func (s *MemoryStore) Load(_ context.Context, id string) (wizard.Session, bool, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return wizard.Session{}, false, nil
	}
	if !e.expiresAt.IsZero() && e.expiresAt.Before(s.now()) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return wizard.Session{}, false, nil
	}
	return e.session, true, nil
}

// Delete removes the session.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

var _ wizard.SessionStore = (*MemoryStore)(nil)
