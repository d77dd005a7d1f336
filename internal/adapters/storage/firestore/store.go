// Package firestore is an alternative durable backend behind the same
// store ports, for deployments that already live on GCP.
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pgmjr/ottodot-p1/internal/domain"
)

// Store implements domain.SessionStore and domain.SubmissionStore.
type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store for the given project.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) sessionsCol() *firestore.CollectionRef {
	return s.client.Collection("math_problem_sessions")
}

func (s *Store) submissionsCol() *firestore.CollectionRef {
	return s.client.Collection("math_problem_submissions")
}

type sessionDoc struct {
	ProblemText   string    `firestore:"problem_text"`
	CorrectAnswer string    `firestore:"correct_answer"`
	CreatedAt     time.Time `firestore:"created_at"`
}

type submissionDoc struct {
	SessionID    string    `firestore:"session_id"`
	UserAnswer   string    `firestore:"user_answer"`
	IsCorrect    bool      `firestore:"is_correct"`
	FeedbackText string    `firestore:"feedback_text"`
	CreatedAt    time.Time `firestore:"created_at"`
}

func (s *Store) CreateSession(ctx context.Context, session *domain.ProblemSession) (domain.SessionID, error) {
	doc := sessionDoc{
		ProblemText:   session.ProblemText,
		CorrectAnswer: session.CorrectAnswer,
		CreatedAt:     session.CreatedAt,
	}

	ref := s.sessionsCol().NewDoc()
	if _, err := ref.Create(ctx, doc); err != nil {
		return "", fmt.Errorf("firestore CreateSession: %w", err)
	}
	return domain.SessionID(ref.ID), nil
}

func (s *Store) GetSession(ctx context.Context, id domain.SessionID) (*domain.ProblemSession, error) {
	snap, err := s.sessionsCol().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("firestore GetSession: %w", err)
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetSession decode: %w", err)
	}

	return &domain.ProblemSession{
		ID:            id,
		ProblemText:   doc.ProblemText,
		CorrectAnswer: doc.CorrectAnswer,
		CreatedAt:     doc.CreatedAt,
	}, nil
}

func (s *Store) CreateSubmission(ctx context.Context, sub *domain.Submission) (domain.SubmissionID, error) {
	doc := submissionDoc{
		SessionID:    string(sub.SessionID),
		UserAnswer:   sub.UserAnswer,
		IsCorrect:    sub.IsCorrect,
		FeedbackText: sub.FeedbackText,
		CreatedAt:    sub.CreatedAt,
	}

	ref := s.submissionsCol().NewDoc()
	if _, err := ref.Create(ctx, doc); err != nil {
		return "", fmt.Errorf("firestore CreateSubmission: %w", err)
	}
	return domain.SubmissionID(ref.ID), nil
}

func (s *Store) ListSubmissionsBySession(ctx context.Context, sessionID domain.SessionID, limit int) ([]*domain.Submission, error) {
	q := s.submissionsCol().
		Where("session_id", "==", string(sessionID)).
		OrderBy("created_at", firestore.Asc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Submission
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListSubmissionsBySession: %w", err)
		}

		var doc submissionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode submissionDoc: %w", err)
		}

		out = append(out, &domain.Submission{
			ID:           domain.SubmissionID(snap.Ref.ID),
			SessionID:    sessionID,
			UserAnswer:   doc.UserAnswer,
			IsCorrect:    doc.IsCorrect,
			FeedbackText: doc.FeedbackText,
			CreatedAt:    doc.CreatedAt,
		})
	}
	return out, nil
}
