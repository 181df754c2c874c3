package memory

import (
	"context"
	"sync"
	"time"

	"hr-helpdesk-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps guided-dialog sessions in process memory. The TTL
// restarts on every Set; reads do not extend it.
type SessionRepository struct {
	cache *cache.Cache
	ttl   time.Duration
	locks *store.KeyedMutex

	// guards read-compare-write sequences on the cache
	mu sync.Mutex
}

var _ store.SessionStore = (*SessionRepository)(nil)

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	// Expired items are purged every ttl/3
	c := cache.New(ttl, ttl/3)
	return &SessionRepository{
		cache: c,
		ttl:   ttl,
		locks: store.NewKeyedMutex(),
	}
}

// Get returns a copy, so callers may mutate it before Set.
func (r *SessionRepository) Get(_ context.Context, sessionID string) (*store.Session, bool, error) {
	if x, found := r.cache.Get(sessionID); found {
		s := *x.(*store.Session)
		return &s, true, nil
	}
	return nil, false, nil
}

// Set stores a copy of session and bumps its version.
func (r *SessionRepository) Set(_ context.Context, session *store.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var version int64
	if x, found := r.cache.Get(session.ID); found {
		version = x.(*store.Session).Version
	}

	session.Version = version + 1
	session.UpdatedAt = time.Now()
	stored := *session
	r.cache.Set(session.ID, &stored, r.ttl)
	return nil
}

func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}

// CompareAndDelete removes the session only if it still has the given version.
func (r *SessionRepository) CompareAndDelete(_ context.Context, sessionID string, version int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(sessionID)
	if !found || x.(*store.Session).Version != version {
		return false, nil
	}
	r.cache.Delete(sessionID)
	return true, nil
}

func (r *SessionRepository) Lock(_ context.Context, sessionID string) (func(), error) {
	return r.locks.Lock(sessionID), nil
}

// Len reports stored sessions, including expired ones not yet purged.
func (r *SessionRepository) Len() int {
	return r.cache.ItemCount()
}
