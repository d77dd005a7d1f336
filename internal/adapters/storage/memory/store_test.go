package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgmjr/ottodot-p1/internal/adapters/storage/memory"
	"github.com/pgmjr/ottodot-p1/internal/domain"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()

	id, err := store.CreateSession(ctx, &domain.ProblemSession{
		ProblemText:   "What is 7 + 5?",
		CorrectAnswer: "12",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	session, err := store.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, session.ID)
	assert.Equal(t, "What is 7 + 5?", session.ProblemText)
	assert.Equal(t, "12", session.CorrectAnswer)
}

func TestSessionStoreNotFound(t *testing.T) {
	store := memory.NewSessionStore()

	_, err := store.GetSession(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStoreDistinctIDs(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()

	a, err := store.CreateSession(ctx, &domain.ProblemSession{ProblemText: "a", CorrectAnswer: "1"})
	require.NoError(t, err)
	b, err := store.CreateSession(ctx, &domain.ProblemSession{ProblemText: "b", CorrectAnswer: "2"})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSubmissionStoreListOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSubmissionStore()

	for _, answer := range []string{"10", "11", "12"} {
		_, err := store.CreateSubmission(ctx, &domain.Submission{
			SessionID:    "s1",
			UserAnswer:   answer,
			FeedbackText: "keep going",
		})
		require.NoError(t, err)
	}

	all, err := store.ListSubmissionsBySession(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "10", all[0].UserAnswer)
	assert.Equal(t, "12", all[2].UserAnswer)

	last, err := store.ListSubmissionsBySession(ctx, "s1", 2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, "11", last[0].UserAnswer)

	none, err := store.ListSubmissionsBySession(ctx, "other", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
