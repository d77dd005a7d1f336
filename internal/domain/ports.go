package domain

import "context"

// LLMClient defines how the core application talks to a generative model.
// Generate sends one prompt and returns the raw completion text. It does
// not retry and does not cache.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SessionStore defines problem session persistence.
// CreateSession returns the store-generated identifier; implementations
// must not persist anything when they return an error.
type SessionStore interface {
	CreateSession(ctx context.Context, session *ProblemSession) (SessionID, error)
	GetSession(ctx context.Context, id SessionID) (*ProblemSession, error)
}

// SubmissionStore defines submission persistence.
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, sub *Submission) (SubmissionID, error)
	ListSubmissionsBySession(ctx context.Context, sessionID SessionID, limit int) ([]*Submission, error)
}
