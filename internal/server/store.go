package server

import (
	"sync"

	"admitcast/internal/wizard"

	"github.com/google/uuid"
)

// Store keeps wizard sessions in memory, keyed by uuid.
type Store struct {
	deps wizard.Deps

	mu       sync.RWMutex
	sessions map[string]*wizard.Session
}

// NewStore returns an empty store. Every session shares deps.
func NewStore(deps wizard.Deps) *Store {
	return &Store{deps: deps, sessions: make(map[string]*wizard.Session)}
}

// Create starts a new session on the landing screen.
func (s *Store) Create() *wizard.Session {
	sess := wizard.NewSession(uuid.NewString(), s.deps)
	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session with the given id.
func (s *Store) Get(id string) (*wizard.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Delete drops a session and its pending chat replies.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok {
		sess.Close()
	}
	return ok
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// CloseAll drops every session.
func (s *Store) CloseAll() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*wizard.Session)
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.Close()
	}
}
