package archive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxlab/interviewd/internal/domain"
)

func newTestArchive(t *testing.T) *SQLiteArchive {
	t.Helper()

	a, err := NewSQLiteArchive(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func archivedSession(id string) *domain.Session {
	return &domain.Session{
		SessionID:     id,
		CandidateName: "Alice",
		JobRole:       "Backend Engineer",
		Transcript: []domain.Message{
			domain.SystemMessage("prompt"),
			domain.AssistantMessage("hello Alice"),
			domain.UserMessage("hi"),
			domain.AssistantMessage("summary: score 8/10"),
		},
		Turns:     1,
		Concluded: true,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestArchiveSaveAndList(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()

	require.NoError(t, a.Save(ctx, archivedSession("s1")))
	require.NoError(t, a.Save(ctx, archivedSession("s2")))

	got, err := a.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alice", got[0].CandidateName)
	assert.Equal(t, "Backend Engineer", got[0].JobRole)
	assert.True(t, got[0].Concluded)
}

func TestArchiveTranscriptRoundtrip(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()

	sess := archivedSession("s1")
	require.NoError(t, a.Save(ctx, sess))

	msgs, err := a.Transcript(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, sess.Transcript, msgs)
}

func TestArchiveResaveReplaces(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()

	sess := archivedSession("s1")
	require.NoError(t, a.Save(ctx, sess))

	sess.Transcript = append(sess.Transcript,
		domain.UserMessage("thanks"),
		domain.AssistantMessage("goodbye"))
	sess.Turns = 2
	require.NoError(t, a.Save(ctx, sess))

	got, err := a.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Turns)

	msgs, err := a.Transcript(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, msgs, 6)
}

func TestArchiveTranscriptUnknownSession(t *testing.T) {
	a := newTestArchive(t)

	msgs, err := a.Transcript(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
