package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pgmjr/ottodot-p1/internal/app/grading"
	"github.com/pgmjr/ottodot-p1/internal/app/problem"
	"github.com/pgmjr/ottodot-p1/internal/domain"
)

type Server struct {
	problems *problem.Service
	grading  *grading.Service
}

func NewServer(problems *problem.Service, gradingSvc *grading.Service) http.Handler {
	s := &Server{problems: problems, grading: gradingSvc}
	mux := http.NewServeMux()

	// /problem         → POST: generate a new problem session
	// /problem/submit  → POST: grade an answer
	// /problem/{id}    → GET: session detail with graded attempts
	mux.HandleFunc("/problem", s.handleProblem)
	mux.HandleFunc("/problem/", s.handleProblemWithPath)

	mux.HandleFunc("/healthz", s.handleHealthz)

	return chainMiddlewares(mux, withCORS, withLogging, withRequestID, withRecover)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type problemResponse struct {
	ProblemText   string  `json:"problem_text"`
	CorrectAnswer float64 `json:"correct_answer"`
}

type generateProblemResponse struct {
	SessionID string          `json:"sessionId"`
	Problem   problemResponse `json:"problem"`
}

type submitAnswerRequest struct {
	SessionID string `json:"sessionId"`
	Answer    any    `json:"answer"`
}

type submitAnswerResponse struct {
	IsCorrect bool   `json:"isCorrect"`
	Feedback  string `json:"feedback"`
}

type submissionResponse struct {
	UserAnswer   string    `json:"user_answer"`
	IsCorrect    bool      `json:"is_correct"`
	FeedbackText string    `json:"feedback_text"`
	CreatedAt    time.Time `json:"created_at"`
}

type sessionDetailResponse struct {
	SessionID   string               `json:"sessionId"`
	ProblemText string               `json:"problem_text"`
	Submissions []submissionResponse `json:"submissions"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

// /problem
func (s *Server) handleProblem(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleGenerateProblem(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /problem/submit or /problem/{id}
func (s *Server) handleProblemWithPath(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/problem/")
	if rest == "" || strings.Contains(rest, "/") {
		http.NotFound(w, r)
		return
	}

	if rest == "submit" {
		switch r.Method {
		case http.MethodPost:
			s.handleSubmitAnswer(w, r)
		default:
			methodNotAllowed(w)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetSession(w, r, domain.SessionID(rest))
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleGenerateProblem(w http.ResponseWriter, r *http.Request) {
	out, err := s.problems.GenerateProblem(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, generateProblemResponse{
		SessionID: string(out.SessionID),
		Problem: problemResponse{
			ProblemText:   out.Problem.ProblemText,
			CorrectAnswer: out.Problem.CorrectAnswer,
		},
	})
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	answer, ok := answerToString(req.Answer)
	if req.SessionID == "" || !ok {
		badRequest(w, "Session ID and answer are required")
		return
	}

	out, err := s.grading.SubmitAnswer(r.Context(), grading.SubmitInput{
		SessionID: domain.SessionID(req.SessionID),
		Answer:    answer,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submitAnswerResponse{
		IsCorrect: out.IsCorrect,
		Feedback:  out.Feedback,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	session, subs, err := s.grading.SessionDetail(r.Context(), id, 0)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := sessionDetailResponse{
		SessionID:   string(session.ID),
		ProblemText: session.ProblemText,
		// correct_answer deliberately not exposed on the read surface.
		Submissions: make([]submissionResponse, 0, len(subs)),
	}
	for _, sub := range subs {
		resp.Submissions = append(resp.Submissions, submissionResponse{
			UserAnswer:   sub.UserAnswer,
			IsCorrect:    sub.IsCorrect,
			FeedbackText: sub.FeedbackText,
			CreatedAt:    sub.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// answerToString canonicalizes the submitted answer, which arrives as a
// JSON string or number. Reports false for a missing, empty or
// unsupported value.
func answerToString(v any) (string, bool) {
	switch a := v.(type) {
	case string:
		return a, a != ""
	case float64:
		return strconv.FormatFloat(a, 'f', -1, 64), true
	default:
		return "", false
	}
}

func writeError(w http.ResponseWriter, err error) {
	var (
		persistenceErr *domain.PersistenceError
		malformedErr   *domain.MalformedOutputError
		shapeErr       *domain.ShapeError
		generationErr  *domain.GenerationError
	)

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Session ID and answer are required"})
	case errors.Is(err, domain.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Invalid session ID"})
	case errors.Is(err, domain.ErrEmptyGeneration):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "AI returned an empty response."})
	case errors.As(err, &malformedErr):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "AI output was not valid JSON."})
	case errors.As(err, &shapeErr):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "AI output is missing required fields (problem_text or correct_answer)."})
	case errors.As(err, &persistenceErr):
		// The one place store diagnostics are echoed to the caller.
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   persistenceMessage(persistenceErr.Op),
			Details: persistenceErr.Detail(),
		})
	case errors.As(err, &generationErr):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "AI generation failed."})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "An unexpected error occurred."})
	}
}

func persistenceMessage(op string) string {
	switch op {
	case "create session":
		return "Database failed to save the problem session."
	case "create submission":
		return "Database failed to submit user answer."
	default:
		return "Database operation failed."
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}
