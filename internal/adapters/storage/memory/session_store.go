package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/pgmjr/ottodot-p1/internal/domain"
)

// SessionStore is a process-lifetime map of problem sessions. Valid for
// tests and single-instance runs; cleared on restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*domain.ProblemSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[domain.SessionID]*domain.ProblemSession),
	}
}

func (s *SessionStore) CreateSession(_ context.Context, session *domain.ProblemSession) (domain.SessionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := domain.SessionID(uuid.NewString())

	stored := *session
	stored.ID = id
	s.sessions[id] = &stored

	return id, nil
}

func (s *SessionStore) GetSession(_ context.Context, id domain.SessionID) (*domain.ProblemSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	// Sessions are immutable, but hand out a copy so callers cannot
	// reach into the map.
	out := *sess
	return &out, nil
}
