// Package cache holds Redis-backed repositories shared by every API replica.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hr-helpdesk-be/pkg/store"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "hrhelpdesk:session:"
	lockKeyPrefix    = "hrhelpdesk:session-lock:"

	lockTTL      = 10 * time.Second
	lockInterval = 25 * time.Millisecond
)

// Deletes the session only when its stored version matches ARGV[1].
var compareAndDeleteScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then return 0 end
local s = cjson.decode(raw)
if tonumber(s['version']) == tonumber(ARGV[1]) then
  redis.call('DEL', KEYS[1])
  return 1
end
return 0
`)

// Releases a lock only if this owner still holds it.
var unlockScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
  return redis.call('DEL', KEYS[1])
end
return 0
`)

// SessionRepository stores sessions as JSON values with a TTL.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

var _ store.SessionStore = (*SessionRepository)(nil)

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionRepository{client: client, ttl: ttl}
}

func sessionKey(id string) string { return sessionKeyPrefix + id }
func lockKey(id string) string    { return lockKeyPrefix + id }

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*store.Session, bool, error) {
	raw, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	s, err := decodeSession(raw)
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

// Set writes session with version+1 using an optimistic transaction.
func (r *SessionRepository) Set(ctx context.Context, session *store.Session) error {
	key := sessionKey(session.ID)

	return r.client.Watch(ctx, func(tx *redis.Tx) error {
		var version int64
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			prev, err := decodeSession(raw)
			if err != nil {
				return err
			}
			version = prev.Version
		}

		next := *session
		next.Version = version + 1
		next.UpdatedAt = time.Now()
		data, err := encodeSession(&next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		session.Version = next.Version
		session.UpdatedAt = next.UpdatedAt
		return nil
	}, key)
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, sessionKey(sessionID)).Err()
}

func (r *SessionRepository) CompareAndDelete(ctx context.Context, sessionID string, version int64) (bool, error) {
	n, err := compareAndDeleteScript.Run(ctx, r.client, []string{sessionKey(sessionID)}, version).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Lock spins on SET NX until the lock is acquired or ctx ends. The lock
// expires on its own if the holder dies.
func (r *SessionRepository) Lock(ctx context.Context, sessionID string) (func(), error) {
	key := lockKey(sessionID)
	token := uuid.NewString()

	ticker := time.NewTicker(lockInterval)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire session lock: %w", err)
		}
		if ok {
			return func() {
				// release with a fresh context so a cancelled request still unlocks
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = unlockScript.Run(releaseCtx, r.client, []string{key}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func encodeSession(s *store.Session) ([]byte, error) {
	return json.Marshal(s)
}

func decodeSession(raw []byte) (*store.Session, error) {
	var s store.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}
