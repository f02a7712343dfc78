package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxlab/interviewd/internal/domain"
)

func newSession(id string) *domain.Session {
	return &domain.Session{
		SessionID: id,
		JobRole:   "Backend Engineer",
		Transcript: []domain.Message{
			domain.SystemMessage("prompt"),
			domain.AssistantMessage("hello"),
		},
		CreatedAt:    time.Now().UTC(),
		LastActiveAt: time.Now().UTC(),
	}
}

func TestMemoryStoreCreateGet(t *testing.T) {
	s := NewMemoryStore(MemoryConfig{})
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newSession("s1")))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.SessionID)
	require.Len(t, got.Transcript, 2)

	// Get returns a copy: mutating it must not leak into the store.
	got.Transcript = append(got.Transcript, domain.UserMessage("injected"))
	again, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, again.Transcript, 2)
}

func TestMemoryStoreGetIdempotentRead(t *testing.T) {
	s := NewMemoryStore(MemoryConfig{})
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newSession("s1")))

	first, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	second, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, first.Transcript, second.Transcript)
}

func TestMemoryStoreDuplicateCreate(t *testing.T) {
	s := NewMemoryStore(MemoryConfig{})
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newSession("s1")))
	err := s.Create(ctx, newSession("s1"))
	assert.ErrorIs(t, err, ErrDuplicateSession)
}

func TestMemoryStoreGetUnknown(t *testing.T) {
	s := NewMemoryStore(MemoryConfig{})
	t.Cleanup(func() { _ = s.Close() })

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStoreUpdateUnknown(t *testing.T) {
	s := NewMemoryStore(MemoryConfig{})
	t.Cleanup(func() { _ = s.Close() })

	err := s.Update(context.Background(), newSession("missing"))
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	var evicted []string
	s := NewMemoryStore(MemoryConfig{
		TTL: time.Minute,
		OnEvict: func(sess *domain.Session) {
			evicted = append(evicted, sess.SessionID)
		},
	})
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Create(ctx, newSession("s1")))

	// Idle past the TTL.
	now = now.Add(2 * time.Minute)

	_, err := s.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, []string{"s1"}, evicted)
}

func TestMemoryStoreTTLRefreshedByAccess(t *testing.T) {
	s := NewMemoryStore(MemoryConfig{TTL: time.Minute})
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Create(ctx, newSession("s1")))

	// Touch the session every 40s; it must stay alive past the TTL.
	for i := 0; i < 3; i++ {
		now = now.Add(40 * time.Second)
		_, err := s.Get(ctx, "s1")
		require.NoError(t, err)
	}
}

func TestMemoryStoreSweepRemovesExpired(t *testing.T) {
	var evicted []string
	s := NewMemoryStore(MemoryConfig{
		TTL: time.Minute,
		OnEvict: func(sess *domain.Session) {
			evicted = append(evicted, sess.SessionID)
		},
	})
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Create(ctx, newSession("s1")))
	require.NoError(t, s.Create(ctx, newSession("s2")))

	now = now.Add(2 * time.Minute)
	s.sweep()

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.ElementsMatch(t, []string{"s1", "s2"}, evicted)
}

func TestMemoryStoreCapacityEvictsLRU(t *testing.T) {
	var evicted []string
	s := NewMemoryStore(MemoryConfig{
		MaxSessions: 2,
		OnEvict: func(sess *domain.Session) {
			evicted = append(evicted, sess.SessionID)
		},
	})
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Create(ctx, newSession("s1")))
	now = now.Add(time.Second)
	require.NoError(t, s.Create(ctx, newSession("s2")))

	// Touch s1 so s2 becomes the least recently used.
	now = now.Add(time.Second)
	_, err := s.Get(ctx, "s1")
	require.NoError(t, err)

	now = now.Add(time.Second)
	require.NoError(t, s.Create(ctx, newSession("s3")))

	assert.Equal(t, []string{"s2"}, evicted)
	_, err = s.Get(ctx, "s2")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.Get(ctx, "s1")
	assert.NoError(t, err)
}

func TestMemoryStoreClose(t *testing.T) {
	s := NewMemoryStore(MemoryConfig{TTL: time.Minute})
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Create(context.Background(), newSession("s1")), ErrStoreClosed)
	_, err := s.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.ErrorIs(t, s.Close(), ErrStoreClosed)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryStore(MemoryConfig{})
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i)
			assert.NoError(t, s.Create(ctx, newSession(id)))
			sess, err := s.Get(ctx, id)
			assert.NoError(t, err)
			sess.Transcript = append(sess.Transcript, domain.UserMessage("hi"))
			assert.NoError(t, s.Update(ctx, sess))
		}(i)
	}
	wg.Wait()

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 16, n)
}
