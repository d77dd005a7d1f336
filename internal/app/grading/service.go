// Package grading evaluates submitted answers against stored sessions
// and records the graded attempt together with model feedback.
package grading

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pgmjr/ottodot-p1/internal/domain"
	"github.com/pgmjr/ottodot-p1/internal/modelout"
	"github.com/pgmjr/ottodot-p1/internal/observability"
	"github.com/pgmjr/ottodot-p1/internal/prompts"
)

type Service struct {
	llm         domain.LLMClient
	sessions    domain.SessionStore
	submissions domain.SubmissionStore
	now         func() time.Time
}

func NewService(llm domain.LLMClient, sessions domain.SessionStore, submissions domain.SubmissionStore) *Service {
	return &Service{
		llm:         llm,
		sessions:    sessions,
		submissions: submissions,
		now:         time.Now,
	}
}

type SubmitInput struct {
	SessionID domain.SessionID

	// Answer is the caller's value in the string form it arrived in.
	Answer string
}

type SubmitOutput struct {
	IsCorrect bool
	Feedback  string
}

// feedbackOutput is the raw decoded model response.
type feedbackOutput struct {
	FeedbackText string `json:"feedback_text"`
}

// SubmitAnswer grades an answer against the stored session, generates
// feedback and records the submission. Ordering is fixed: grade, then
// explain, then persist, then respond. A submission is never recorded
// without its feedback.
func (s *Service) SubmitAnswer(ctx context.Context, in SubmitInput) (*SubmitOutput, error) {
	if in.SessionID == "" || in.Answer == "" {
		return nil, domain.ErrInvalidRequest
	}

	log := observability.LoggerFromContext(ctx).With("session_id", in.SessionID)

	session, err := s.sessions.GetSession(ctx, in.SessionID)
	if err != nil {
		// Lookup failures of any kind resolve to not-found for the
		// caller; the real cause goes to the log.
		if !errors.Is(err, domain.ErrSessionNotFound) {
			log.Error("session lookup failed", "error", err)
		}
		return nil, domain.ErrSessionNotFound
	}

	// The verdict uses the stored answer only; callers cannot spoof
	// correctness by supplying their own.
	isCorrect := answersMatch(in.Answer, session.CorrectAnswer)

	prompt := prompts.ComposeFeedbackPrompt(session.ProblemText, session.CorrectAnswer, in.Answer, isCorrect)

	raw, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		log.Error("feedback generation call failed", "error", err)
		return nil, err
	}

	normalized := modelout.Normalize(raw)
	if normalized == "" {
		log.Error("model returned an empty feedback response")
		return nil, domain.ErrEmptyGeneration
	}

	var fb feedbackOutput
	if err := modelout.Decode(normalized, feedbackSchema, &fb); err != nil {
		log.Error("failed to decode feedback response", "error", err, "raw_output", normalized)
		// A response without feedback_text is as unusable as one that
		// did not parse; report both the same way.
		var shapeErr *domain.ShapeError
		if errors.As(err, &shapeErr) {
			return nil, &domain.MalformedOutputError{Raw: shapeErr.Raw, Err: shapeErr.Err}
		}
		return nil, err
	}

	sub := &domain.Submission{
		SessionID:    in.SessionID,
		UserAnswer:   in.Answer,
		IsCorrect:    isCorrect,
		FeedbackText: fb.FeedbackText,
		CreatedAt:    s.now(),
	}

	id, err := s.submissions.CreateSubmission(ctx, sub)
	if err != nil {
		log.Error("failed to persist submission", "error", err)
		return nil, &domain.PersistenceError{Op: "create submission", Err: err}
	}
	if id == "" {
		return nil, &domain.PersistenceError{Op: "create submission", Err: fmt.Errorf("store returned no submission id")}
	}

	log.Info("submission recorded", "submission_id", id, "is_correct", isCorrect)

	return &SubmitOutput{
		IsCorrect: isCorrect,
		Feedback:  fb.FeedbackText,
	}, nil
}

// SessionDetail returns a session and its graded attempts, most recent
// last. The session's correct answer stays server-side; callers of this
// method decide what to expose.
func (s *Service) SessionDetail(ctx context.Context, sessionID domain.SessionID, limit int) (*domain.ProblemSession, []*domain.Submission, error) {
	if sessionID == "" {
		return nil, nil, domain.ErrInvalidRequest
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, domain.ErrSessionNotFound
	}

	subs, err := s.submissions.ListSubmissionsBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, nil, &domain.PersistenceError{Op: "list submissions", Err: err}
	}

	return session, subs, nil
}
