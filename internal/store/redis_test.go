package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxlab/interviewd/internal/domain"
)

func setupRedisStore(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStoreFromClient(client, "test:", ttl)
	t.Cleanup(func() { _ = s.Close() })
	return mr, s
}

func TestRedisStoreCreateGet(t *testing.T) {
	_, s := setupRedisStore(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newSession("s1")))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.SessionID)
	assert.Equal(t, "Backend Engineer", got.JobRole)
	require.Len(t, got.Transcript, 2)
	assert.Equal(t, domain.RoleSystem, got.Transcript[0].Role)
}

func TestRedisStoreDuplicateCreate(t *testing.T) {
	_, s := setupRedisStore(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newSession("s1")))
	assert.ErrorIs(t, s.Create(ctx, newSession("s1")), ErrDuplicateSession)
}

func TestRedisStoreGetUnknown(t *testing.T) {
	_, s := setupRedisStore(t, 0)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStoreUpdate(t *testing.T) {
	_, s := setupRedisStore(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newSession("s1")))

	sess, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	sess.Transcript = append(sess.Transcript,
		domain.UserMessage("answer"),
		domain.AssistantMessage("next question"))
	sess.Turns = 1
	require.NoError(t, s.Update(ctx, sess))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, got.Transcript, 4)
	assert.Equal(t, 1, got.Turns)

	assert.ErrorIs(t, s.Update(ctx, newSession("missing")), ErrSessionNotFound)
}

func TestRedisStoreTTLExpiry(t *testing.T) {
	mr, s := setupRedisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newSession("s1")))

	mr.FastForward(2 * time.Minute)

	_, err := s.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStoreDeleteAndLen(t *testing.T) {
	_, s := setupRedisStore(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newSession("s1")))
	require.NoError(t, s.Create(ctx, newSession("s2")))

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, s.Delete(ctx, "s1"))
	require.NoError(t, s.Delete(ctx, "s1")) // idempotent

	n, err = s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
