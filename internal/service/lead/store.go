package lead

import (
	"sync"
	"time"

	leadModels "leadgate/internal/domain/models/lead"
)

// sessionState is one live session plus its runtime machinery. The mutex
// serializes every trigger (turns, timer callbacks, close, beacon) so the
// submission guard is inherently race-free: a trigger locks, checks the
// state, and either claims submission or observes another trigger already
// did.
type sessionState struct {
	mu    sync.Mutex
	model leadModels.Session

	// inactivity fires the abandonment trigger; nil when disarmed.
	inactivity *time.Timer
	// recovery flips the session back to ACTIVE after the post-failure
	// grace window; nil when no recovery is pending.
	recovery *time.Timer
}

// snapshot returns a copy of the session safe to return outside the lock.
// Callers must hold st.mu.
func (st *sessionState) snapshot() *leadModels.Session {
	model := st.model
	model.Transcript = st.model.Transcript.Clone()
	model.Record = st.model.Record.Clone()
	return &model
}

// sessionStore is the in-memory registry of live sessions.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionState
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*sessionState)}
}

func (s *sessionStore) put(st *sessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[st.model.ID] = st
}

func (s *sessionStore) get(id string) (*sessionState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sessions[id]
	return st, ok
}

func (s *sessionStore) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
