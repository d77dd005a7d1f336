// Package problem generates arithmetic word problems and persists them
// as sessions for later grading.
package problem

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pgmjr/ottodot-p1/internal/domain"
	"github.com/pgmjr/ottodot-p1/internal/modelout"
	"github.com/pgmjr/ottodot-p1/internal/observability"
	"github.com/pgmjr/ottodot-p1/internal/prompts"
)

type Service struct {
	llm      domain.LLMClient
	sessions domain.SessionStore
	now      func() time.Time
}

func NewService(llm domain.LLMClient, sessions domain.SessionStore) *Service {
	return &Service{
		llm:      llm,
		sessions: sessions,
		now:      time.Now,
	}
}

// Problem is the validated problem object returned to the caller. The
// answer keeps its numeric form here; the stringified form exists only
// in the store.
type Problem struct {
	ProblemText   string  `json:"problem_text"`
	CorrectAnswer float64 `json:"correct_answer"`
}

type GenerateOutput struct {
	SessionID domain.SessionID
	Problem   Problem
}

// problemOutput is the raw decoded model response.
type problemOutput struct {
	ProblemText   string  `json:"problem_text"`
	CorrectAnswer float64 `json:"correct_answer"`
}

// GenerateProblem asks the model for a new problem, validates it and
// persists a session. On any failure nothing is persisted and no session
// id is returned.
func (s *Service) GenerateProblem(ctx context.Context) (*GenerateOutput, error) {
	log := observability.LoggerFromContext(ctx)

	template := prompts.Random()
	prompt := prompts.ComposeProblemPrompt(template)

	raw, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		log.Error("problem generation call failed", "error", err)
		return nil, err
	}

	if strings.TrimSpace(raw) == "" {
		log.Error("model returned an empty problem response")
		return nil, domain.ErrEmptyGeneration
	}

	var out problemOutput
	if err := modelout.Decode(raw, problemSchema, &out); err != nil {
		log.Error("failed to decode problem response", "error", err, "raw_output", modelout.StripFences(raw))
		return nil, err
	}

	// minLength catches the empty string, not a whitespace-only one.
	if strings.TrimSpace(out.ProblemText) == "" {
		log.Error("problem_text is blank", "raw_output", modelout.StripFences(raw))
		return nil, &domain.ShapeError{
			Raw: modelout.StripFences(raw),
			Err: errors.New("problem_text is blank"),
		}
	}

	session := &domain.ProblemSession{
		ProblemText: out.ProblemText,
		// Stored as text to sidestep numeric type mismatches in the
		// store schema.
		CorrectAnswer: strconv.FormatFloat(out.CorrectAnswer, 'f', -1, 64),
		CreatedAt:     s.now(),
	}

	id, err := s.sessions.CreateSession(ctx, session)
	if err != nil {
		log.Error("failed to persist problem session", "error", err)
		return nil, &domain.PersistenceError{Op: "create session", Err: err}
	}
	if id == "" {
		return nil, &domain.PersistenceError{Op: "create session", Err: fmt.Errorf("store returned no session id")}
	}

	log.Info("problem session created", "session_id", id)

	return &GenerateOutput{
		SessionID: id,
		Problem: Problem{
			ProblemText:   out.ProblemText,
			CorrectAnswer: out.CorrectAnswer,
		},
	}, nil
}
