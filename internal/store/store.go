// Package store holds live interview sessions. Backends must be safe for
// concurrent use by independent sessions.
package store

import (
	"context"
	"errors"

	"github.com/voxlab/interviewd/internal/domain"
)

var (
	// ErrSessionNotFound is returned when a session id is unknown,
	// expired, or evicted.
	ErrSessionNotFound = errors.New("session not found")
	// ErrDuplicateSession is returned when creating a session whose id
	// already exists.
	ErrDuplicateSession = errors.New("session already exists")
	// ErrStoreClosed is returned when operating on a closed store.
	ErrStoreClosed = errors.New("session store is closed")
)

// SessionStore owns all live Session objects. Get returns a copy; callers
// persist changes with Update. Writes to a single session must be
// serialized by the caller (the engine holds a per-session lock around
// its read-modify-write cycle).
type SessionStore interface {
	// Create inserts a new session. Returns ErrDuplicateSession if the
	// id is already present.
	Create(ctx context.Context, sess *domain.Session) error

	// Get retrieves a session by id. Returns ErrSessionNotFound if the
	// id is unknown or the session has expired.
	Get(ctx context.Context, sessionID string) (*domain.Session, error)

	// Update replaces a stored session and refreshes its recency.
	// Returns ErrSessionNotFound if the id is unknown.
	Update(ctx context.Context, sess *domain.Session) error

	// Delete removes a session. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, sessionID string) error

	// Len reports the number of live sessions.
	Len(ctx context.Context) (int, error)

	// Close releases backend resources. Subsequent calls fail with
	// ErrStoreClosed.
	Close() error
}

// EvictFunc is invoked with a copy of each session removed by TTL expiry
// or capacity eviction. It runs outside store locks.
type EvictFunc func(sess *domain.Session)
