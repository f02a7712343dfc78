package store

import (
	"context"
	"sync"
	"time"

	"github.com/voxlab/interviewd/internal/domain"
)

const defaultSweepInterval = time.Minute

// MemoryConfig configures the in-memory store lifecycle.
type MemoryConfig struct {
	// TTL is how long a session may stay idle before expiring.
	// Zero means sessions never expire.
	TTL time.Duration
	// MaxSessions caps the number of live sessions; the least recently
	// used session is evicted when the cap is exceeded. Zero means
	// unbounded.
	MaxSessions int
	// SweepInterval is how often the janitor scans for expired
	// sessions. Defaults to one minute.
	SweepInterval time.Duration
	// OnEvict, if set, receives sessions removed by expiry or
	// capacity eviction. Not called for explicit Delete.
	OnEvict EvictFunc
}

type memoryEntry struct {
	sess       *domain.Session
	lastAccess time.Time
}

// MemoryStore keeps all sessions in a mutex-guarded map. This is the
// default backend: volatile, single-process, no persistence.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memoryEntry
	cfg      MemoryConfig
	closed   bool
	stop     chan struct{}
	done     chan struct{}

	now func() time.Time // overridable in tests
}

// NewMemoryStore creates the in-memory session store and starts its
// janitor goroutine when a TTL is configured.
func NewMemoryStore(cfg MemoryConfig) *MemoryStore {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}
	s := &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		cfg:      cfg,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		now:      time.Now,
	}
	if cfg.TTL > 0 {
		go s.janitor()
	} else {
		close(s.done)
	}
	return s
}

func (s *MemoryStore) janitor() {
	defer close(s.done)
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

// sweep removes expired sessions and reports them to OnEvict.
func (s *MemoryStore) sweep() {
	var evicted []*domain.Session

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	cutoff := s.now().Add(-s.cfg.TTL)
	for id, e := range s.sessions {
		if e.lastAccess.Before(cutoff) {
			delete(s.sessions, id)
			evicted = append(evicted, e.sess)
		}
	}
	s.mu.Unlock()

	if s.cfg.OnEvict != nil {
		for _, sess := range evicted {
			s.cfg.OnEvict(sess)
		}
	}
}

// expired reports whether an entry is past its TTL. Caller holds s.mu.
func (s *MemoryStore) expired(e *memoryEntry) bool {
	return s.cfg.TTL > 0 && s.now().Sub(e.lastAccess) > s.cfg.TTL
}

// evictOldestLocked removes the least recently used entry and returns
// it. Caller holds s.mu.
func (s *MemoryStore) evictOldestLocked() *domain.Session {
	var oldestID string
	var oldest time.Time
	for id, e := range s.sessions {
		if oldestID == "" || e.lastAccess.Before(oldest) {
			oldestID = id
			oldest = e.lastAccess
		}
	}
	if oldestID == "" {
		return nil
	}
	sess := s.sessions[oldestID].sess
	delete(s.sessions, oldestID)
	return sess
}

// Create inserts a new session, evicting the least recently used one
// first if the store is at capacity.
func (s *MemoryStore) Create(ctx context.Context, sess *domain.Session) error {
	var evicted *domain.Session

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}
	if e, ok := s.sessions[sess.SessionID]; ok && !s.expired(e) {
		s.mu.Unlock()
		return ErrDuplicateSession
	}
	if s.cfg.MaxSessions > 0 && len(s.sessions) >= s.cfg.MaxSessions {
		evicted = s.evictOldestLocked()
	}
	s.sessions[sess.SessionID] = &memoryEntry{sess: sess.Clone(), lastAccess: s.now()}
	s.mu.Unlock()

	if evicted != nil && s.cfg.OnEvict != nil {
		s.cfg.OnEvict(evicted)
	}
	return nil
}

// Get returns a copy of the session and refreshes its recency.
func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	var evicted *domain.Session

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrStoreClosed
	}
	e, ok := s.sessions[sessionID]
	if ok && s.expired(e) {
		delete(s.sessions, sessionID)
		evicted = e.sess
		ok = false
	}
	if !ok {
		s.mu.Unlock()
		if evicted != nil && s.cfg.OnEvict != nil {
			s.cfg.OnEvict(evicted)
		}
		return nil, ErrSessionNotFound
	}
	e.lastAccess = s.now()
	sess := e.sess.Clone()
	s.mu.Unlock()
	return sess, nil
}

// Update replaces the stored session.
func (s *MemoryStore) Update(ctx context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	e, ok := s.sessions[sess.SessionID]
	if !ok || s.expired(e) {
		return ErrSessionNotFound
	}
	e.sess = sess.Clone()
	e.lastAccess = s.now()
	return nil
}

// Delete removes a session without invoking OnEvict.
func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	delete(s.sessions, sessionID)
	return nil
}

// Len reports the number of live sessions.
func (s *MemoryStore) Len(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrStoreClosed
	}
	return len(s.sessions), nil
}

// Close stops the janitor and drops all sessions.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}
	s.closed = true
	s.sessions = nil
	s.mu.Unlock()

	close(s.stop)
	<-s.done
	return nil
}

var _ SessionStore = (*MemoryStore)(nil)
