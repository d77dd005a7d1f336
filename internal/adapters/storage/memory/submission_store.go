package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/pgmjr/ottodot-p1/internal/domain"
)

// SubmissionStore keeps graded attempts in memory, grouped by session.
type SubmissionStore struct {
	mu          sync.RWMutex
	submissions map[domain.SessionID][]*domain.Submission
}

func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{
		submissions: make(map[domain.SessionID][]*domain.Submission),
	}
}

func (s *SubmissionStore) CreateSubmission(_ context.Context, sub *domain.Submission) (domain.SubmissionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := domain.SubmissionID(uuid.NewString())

	stored := *sub
	stored.ID = id
	s.submissions[sub.SessionID] = append(s.submissions[sub.SessionID], &stored)

	return id, nil
}

func (s *SubmissionStore) ListSubmissionsBySession(_ context.Context, sessionID domain.SessionID, limit int) ([]*domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subs := s.submissions[sessionID]
	if limit > 0 && len(subs) > limit {
		subs = subs[len(subs)-limit:]
	}

	out := make([]*domain.Submission, 0, len(subs))
	for _, sub := range subs {
		c := *sub
		out = append(out, &c)
	}
	return out, nil
}
