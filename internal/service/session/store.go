package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps sessions in memory and evicts the ones idle longer than ttl.
type Store struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a Store; ttl <= 0 disables eviction.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the session with the given id, or a new session when the id is
// empty or unknown. The boolean reports whether a session was created.
func (s *Store) Get(id string) (*Session, bool) {
	now := s.now()

	if id != "" {
		s.mu.RLock()
		sess, exists := s.sessions[id]
		s.mu.RUnlock()
		if exists {
			s.touch(sess, now)
			return sess, false
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Double-check (may have been created by a concurrent request)
	if sess, exists := s.sessions[id]; exists && id != "" {
		sess.LastSeen = now
		return sess, false
	}

	sess := newSession(uuid.NewString(), now)
	s.sessions[sess.ID] = sess
	return sess, true
}

// touch records activity without taking the session's interaction lock.
func (s *Store) touch(sess *Session, now time.Time) {
	s.mu.Lock()
	sess.LastSeen = now
	s.mu.Unlock()
}

// Sweep removes sessions idle longer than the ttl and returns how many were removed.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.LastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
