package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"hr-helpdesk-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("set bumps version and get returns a copy", func(t *testing.T) {
		repo := NewSessionRepository(time.Minute)
		s := &store.Session{ID: "abc", Mode: store.ModeVacation, Awaiting: store.AwaitingEmployeeID}
		require.NoError(t, repo.Set(ctx, s))
		assert.Equal(t, int64(1), s.Version)

		got, ok, err := repo.Get(ctx, "abc")
		require.NoError(t, err)
		require.True(t, ok)
		got.Mode = store.ModeResignation

		again, _, _ := repo.Get(ctx, "abc")
		assert.Equal(t, store.ModeVacation, again.Mode)

		require.NoError(t, repo.Set(ctx, got))
		assert.Equal(t, int64(2), got.Version)
	})

	t.Run("compare and delete matches version", func(t *testing.T) {
		repo := NewSessionRepository(time.Minute)
		s := &store.Session{ID: "abc", Mode: store.ModeVacation, Awaiting: store.AwaitingEmployeeID}
		require.NoError(t, repo.Set(ctx, s))

		ok, err := repo.CompareAndDelete(ctx, "abc", s.Version+1)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = repo.CompareAndDelete(ctx, "abc", s.Version)
		require.NoError(t, err)
		assert.True(t, ok)

		_, found, _ := repo.Get(ctx, "abc")
		assert.False(t, found)
	})

	t.Run("entries expire", func(t *testing.T) {
		repo := NewSessionRepository(30 * time.Millisecond)
		require.NoError(t, repo.Set(ctx, &store.Session{ID: "old"}))
		time.Sleep(80 * time.Millisecond)

		_, found, err := repo.Get(ctx, "old")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("set restarts the ttl and get does not", func(t *testing.T) {
		repo := NewSessionRepository(300 * time.Millisecond)
		require.NoError(t, repo.Set(ctx, &store.Session{ID: "kept"}))
		require.NoError(t, repo.Set(ctx, &store.Session{ID: "read"}))

		time.Sleep(200 * time.Millisecond)
		require.NoError(t, repo.Set(ctx, &store.Session{ID: "kept"}))
		_, found, _ := repo.Get(ctx, "read")
		require.True(t, found)

		time.Sleep(200 * time.Millisecond)
		_, found, _ = repo.Get(ctx, "kept")
		assert.True(t, found)
		_, found, _ = repo.Get(ctx, "read")
		assert.False(t, found)
	})

	t.Run("lock serializes one session id", func(t *testing.T) {
		repo := NewSessionRepository(time.Minute)
		require.NoError(t, repo.Set(ctx, &store.Session{ID: "race"}))

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock, err := repo.Lock(ctx, "race")
				if !assert.NoError(t, err) {
					return
				}
				defer unlock()

				s, _, _ := repo.Get(ctx, "race")
				_ = repo.Set(ctx, s)
			}()
		}
		wg.Wait()

		s, _, _ := repo.Get(ctx, "race")
		assert.Equal(t, int64(51), s.Version)
		assert.Zero(t, repo.locks.Len())
	})
}
