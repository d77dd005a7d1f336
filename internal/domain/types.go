package domain

import "time"

type SessionID string
type SubmissionID string

type Timestamp = time.Time

// ProblemSession pairs a generated problem with its canonical answer.
// Both fields are immutable once the session is created; grading always
// reads the answer back from the store, never from the caller.
type ProblemSession struct {
	ID          SessionID
	ProblemText string

	// CorrectAnswer holds the canonical answer as text, matching the
	// store schema. The numeric form lives only in the generation
	// response returned to the caller.
	CorrectAnswer string

	CreatedAt Timestamp
}

// Submission records one graded answer attempt against a session.
// A session may accumulate any number of submissions; none of them is
// ever updated after creation.
type Submission struct {
	ID           SubmissionID
	SessionID    SessionID
	UserAnswer   string
	IsCorrect    bool
	FeedbackText string
	CreatedAt    Timestamp
}
