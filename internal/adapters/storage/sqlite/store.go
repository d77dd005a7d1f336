// Package sqlite provides the durable relational session store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pgmjr/ottodot-p1/internal/domain"
)

// Store implements domain.SessionStore and domain.SubmissionStore over a
// SQLite database. Table names match the original Supabase schema.
type Store struct {
	db *sql.DB
}

// NewStore opens (and if needed creates) the database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL keeps concurrent submits from tripping over each other.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS math_problem_sessions (
		id TEXT PRIMARY KEY,
		problem_text TEXT NOT NULL,
		correct_answer TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS math_problem_submissions (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES math_problem_sessions(id),
		user_answer TEXT NOT NULL,
		is_correct INTEGER NOT NULL,
		feedback_text TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_submissions_session ON math_problem_submissions(session_id, created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateSession(ctx context.Context, session *domain.ProblemSession) (domain.SessionID, error) {
	id := uuid.NewString()

	query := `
	INSERT INTO math_problem_sessions (id, problem_text, correct_answer, created_at)
	VALUES (?, ?, ?, ?)
	RETURNING id`

	var returned string
	err := s.db.QueryRowContext(ctx, query,
		id, session.ProblemText, session.CorrectAnswer, session.CreatedAt.Unix(),
	).Scan(&returned)
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}

	return domain.SessionID(returned), nil
}

func (s *Store) GetSession(ctx context.Context, id domain.SessionID) (*domain.ProblemSession, error) {
	query := `
	SELECT id, problem_text, correct_answer, created_at
	FROM math_problem_sessions WHERE id = ?`

	var (
		session   domain.ProblemSession
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx, query, string(id)).Scan(
		&session.ID, &session.ProblemText, &session.CorrectAnswer, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}

	session.CreatedAt = time.Unix(createdAt, 0)
	return &session, nil
}

func (s *Store) CreateSubmission(ctx context.Context, sub *domain.Submission) (domain.SubmissionID, error) {
	id := uuid.NewString()

	query := `
	INSERT INTO math_problem_submissions (id, session_id, user_answer, is_correct, feedback_text, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	RETURNING id`

	isCorrect := 0
	if sub.IsCorrect {
		isCorrect = 1
	}

	var returned string
	err := s.db.QueryRowContext(ctx, query,
		id, string(sub.SessionID), sub.UserAnswer, isCorrect, sub.FeedbackText, sub.CreatedAt.Unix(),
	).Scan(&returned)
	if err != nil {
		return "", fmt.Errorf("insert submission: %w", err)
	}

	return domain.SubmissionID(returned), nil
}

func (s *Store) ListSubmissionsBySession(ctx context.Context, sessionID domain.SessionID, limit int) ([]*domain.Submission, error) {
	query := `
	SELECT id, session_id, user_answer, is_correct, feedback_text, created_at
	FROM math_problem_submissions
	WHERE session_id = ?
	ORDER BY created_at ASC`
	args := []any{string(sessionID)}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Submission
	for rows.Next() {
		var (
			sub       domain.Submission
			isCorrect int
			createdAt int64
		)
		if err := rows.Scan(&sub.ID, &sub.SessionID, &sub.UserAnswer, &isCorrect, &sub.FeedbackText, &createdAt); err != nil {
			return nil, fmt.Errorf("scan submission row: %w", err)
		}
		sub.IsCorrect = isCorrect != 0
		sub.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return out, nil
}
