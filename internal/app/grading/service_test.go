package grading_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgmjr/ottodot-p1/internal/adapters/llm"
	"github.com/pgmjr/ottodot-p1/internal/adapters/storage/memory"
	"github.com/pgmjr/ottodot-p1/internal/app/grading"
	"github.com/pgmjr/ottodot-p1/internal/domain"
)

const feedbackJSON = `{"feedback_text": "Well done, you added the tens and ones correctly!"}`

func seedSession(t *testing.T, store *memory.SessionStore, answer string) domain.SessionID {
	t.Helper()

	id, err := store.CreateSession(context.Background(), &domain.ProblemSession{
		ProblemText:   "What is 7 + 5?",
		CorrectAnswer: answer,
	})
	require.NoError(t, err)
	return id
}

func TestSubmitAnswerCorrect(t *testing.T) {
	ctx := context.Background()

	sessions := memory.NewSessionStore()
	submissions := memory.NewSubmissionStore()
	mock := llm.NewMock(llm.MockResponse{Text: feedbackJSON})

	id := seedSession(t, sessions, "12")

	svc := grading.NewService(mock, sessions, submissions)

	out, err := svc.SubmitAnswer(ctx, grading.SubmitInput{SessionID: id, Answer: "12"})
	require.NoError(t, err)
	assert.True(t, out.IsCorrect)
	assert.NotEmpty(t, out.Feedback)

	subs, err := submissions.ListSubmissionsBySession(ctx, id, 0)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "12", subs[0].UserAnswer)
	assert.True(t, subs[0].IsCorrect)
	assert.Equal(t, "Well done, you added the tens and ones correctly!", subs[0].FeedbackText)

	// The feedback prompt embeds the stored answer and the verdict.
	require.Equal(t, 1, mock.CallCount())
	assert.Contains(t, mock.Prompts[0], "The correct answer is: 12")
	assert.Contains(t, mock.Prompts[0], "was correct")
}

func TestSubmitAnswerIncorrect(t *testing.T) {
	ctx := context.Background()

	sessions := memory.NewSessionStore()
	submissions := memory.NewSubmissionStore()
	mock := llm.NewMock(llm.MockResponse{Text: feedbackJSON})

	id := seedSession(t, sessions, "12")

	svc := grading.NewService(mock, sessions, submissions)

	out, err := svc.SubmitAnswer(ctx, grading.SubmitInput{SessionID: id, Answer: "13"})
	require.NoError(t, err)
	assert.False(t, out.IsCorrect)

	subs, err := submissions.ListSubmissionsBySession(ctx, id, 0)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.False(t, subs[0].IsCorrect)
}

func TestSubmitAnswerInvalidRequestBeforeIO(t *testing.T) {
	mock := llm.NewMock()
	svc := grading.NewService(mock, memory.NewSessionStore(), memory.NewSubmissionStore())

	_, err := svc.SubmitAnswer(context.Background(), grading.SubmitInput{SessionID: "s1", Answer: ""})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = svc.SubmitAnswer(context.Background(), grading.SubmitInput{SessionID: "", Answer: "5"})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)

	// Preconditions fail before any model or store I/O.
	assert.Equal(t, 0, mock.CallCount())
}

func TestSubmitAnswerSessionNotFound(t *testing.T) {
	ctx := context.Background()

	submissions := memory.NewSubmissionStore()
	svc := grading.NewService(llm.NewMock(), memory.NewSessionStore(), submissions)

	_, err := svc.SubmitAnswer(ctx, grading.SubmitInput{SessionID: "does-not-exist", Answer: "5"})
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	subs, err := submissions.ListSubmissionsBySession(ctx, "does-not-exist", 0)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestSubmitAnswerMalformedFeedbackNotRecorded(t *testing.T) {
	ctx := context.Background()

	sessions := memory.NewSessionStore()
	submissions := memory.NewSubmissionStore()
	// Parses fine but lacks the feedback_text key.
	mock := llm.NewMock(llm.MockResponse{Text: `{"note": "great job"}`})

	id := seedSession(t, sessions, "12")

	svc := grading.NewService(mock, sessions, submissions)

	_, err := svc.SubmitAnswer(ctx, grading.SubmitInput{SessionID: id, Answer: "12"})

	var malformed *domain.MalformedOutputError
	require.ErrorAs(t, err, &malformed)

	subs, err := submissions.ListSubmissionsBySession(ctx, id, 0)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestSubmitAnswerFencedFeedback(t *testing.T) {
	ctx := context.Background()

	sessions := memory.NewSessionStore()
	mock := llm.NewMock(llm.MockResponse{Text: "```json\n" + feedbackJSON + "\n```"})

	id := seedSession(t, sessions, "12")

	svc := grading.NewService(mock, sessions, memory.NewSubmissionStore())

	out, err := svc.SubmitAnswer(ctx, grading.SubmitInput{SessionID: id, Answer: "12"})
	require.NoError(t, err)
	assert.Equal(t, "Well done, you added the tens and ones correctly!", out.Feedback)
}

func TestSubmitAnswerEmptyFeedback(t *testing.T) {
	ctx := context.Background()

	sessions := memory.NewSessionStore()
	mock := llm.NewMock(llm.MockResponse{Text: "``````"})

	id := seedSession(t, sessions, "12")

	svc := grading.NewService(mock, sessions, memory.NewSubmissionStore())

	_, err := svc.SubmitAnswer(ctx, grading.SubmitInput{SessionID: id, Answer: "12"})
	require.ErrorIs(t, err, domain.ErrEmptyGeneration)
}

func TestResubmissionGradesAgainstSameAnswer(t *testing.T) {
	ctx := context.Background()

	sessions := memory.NewSessionStore()
	submissions := memory.NewSubmissionStore()
	mock := llm.NewMock(
		llm.MockResponse{Text: feedbackJSON},
		llm.MockResponse{Text: feedbackJSON},
	)

	id := seedSession(t, sessions, "42")

	svc := grading.NewService(mock, sessions, submissions)

	first, err := svc.SubmitAnswer(ctx, grading.SubmitInput{SessionID: id, Answer: "41"})
	require.NoError(t, err)
	assert.False(t, first.IsCorrect)

	second, err := svc.SubmitAnswer(ctx, grading.SubmitInput{SessionID: id, Answer: "42"})
	require.NoError(t, err)
	assert.True(t, second.IsCorrect)

	subs, err := submissions.ListSubmissionsBySession(ctx, id, 0)
	require.NoError(t, err)
	assert.Len(t, subs, 2)
}

func TestSessionDetail(t *testing.T) {
	ctx := context.Background()

	sessions := memory.NewSessionStore()
	submissions := memory.NewSubmissionStore()
	mock := llm.NewMock(llm.MockResponse{Text: feedbackJSON})

	id := seedSession(t, sessions, "12")

	svc := grading.NewService(mock, sessions, submissions)

	_, err := svc.SubmitAnswer(ctx, grading.SubmitInput{SessionID: id, Answer: "12"})
	require.NoError(t, err)

	session, subs, err := svc.SessionDetail(ctx, id, 0)
	require.NoError(t, err)
	assert.Equal(t, "What is 7 + 5?", session.ProblemText)
	assert.Len(t, subs, 1)

	_, _, err = svc.SessionDetail(ctx, "missing", 0)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}
