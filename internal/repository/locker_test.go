package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisLocker(t *testing.T) (*miniredis.Miniredis, *RedisLocker) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisLocker(client, 5*time.Millisecond)
}

func TestMemoryLocker_MutualExclusion(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	require.NoError(t, locker.Acquire(ctx, "room:1", time.Second))

	// A second acquire on the same key blocks until release.
	blockedCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	err := locker.Acquire(blockedCtx, "room:1", time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// A different key is independent.
	require.NoError(t, locker.Acquire(ctx, "room:2", time.Second))

	require.NoError(t, locker.Release(ctx, "room:1"))
	require.NoError(t, locker.Acquire(ctx, "room:1", time.Second))
}

func TestMemoryLocker_ReleaseIdempotent(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	assert.NoError(t, locker.Release(ctx, "never-held"))
	require.NoError(t, locker.Acquire(ctx, "k", time.Second))
	assert.NoError(t, locker.Release(ctx, "k"))
	assert.NoError(t, locker.Release(ctx, "k"))
}

func TestMemoryLocker_Concurrent(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	var holders int
	var max int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, locker.Acquire(ctx, "shared", time.Second))
			mu.Lock()
			holders++
			if holders > max {
				max = holders
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			holders--
			mu.Unlock()
			require.NoError(t, locker.Release(ctx, "shared"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, max, "at most one goroutine may hold the key")
}

func TestRedisLocker_AcquireRelease(t *testing.T) {
	mr, locker := newMiniredisLocker(t)
	ctx := context.Background()

	require.NoError(t, locker.Acquire(ctx, "room:1", time.Second))
	assert.True(t, mr.Exists("reservation_lock:room:1"))

	require.NoError(t, locker.Release(ctx, "room:1"))
	assert.False(t, mr.Exists("reservation_lock:room:1"))
}

func TestRedisLocker_BlocksUntilReleased(t *testing.T) {
	_, locker := newMiniredisLocker(t)
	ctx := context.Background()

	require.NoError(t, locker.Acquire(ctx, "room:1", time.Second))

	blockedCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	other := NewRedisLocker(locker.client, 5*time.Millisecond)
	err := other.Acquire(blockedCtx, "room:1", time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, locker.Release(ctx, "room:1"))
	require.NoError(t, other.Acquire(ctx, "room:1", time.Second))
}

func TestRedisLocker_ExpiredKeyNotStolen(t *testing.T) {
	mr, locker := newMiniredisLocker(t)
	ctx := context.Background()

	require.NoError(t, locker.Acquire(ctx, "room:1", 50*time.Millisecond))

	// The ttl fires and another holder takes the key.
	mr.FastForward(100 * time.Millisecond)
	other := NewRedisLocker(locker.client, 5*time.Millisecond)
	require.NoError(t, other.Acquire(ctx, "room:1", time.Second))

	// Releasing the stale acquisition must not free the new holder's key.
	require.NoError(t, locker.Release(ctx, "room:1"))
	assert.True(t, mr.Exists("reservation_lock:room:1"))
}

func TestRedisLocker_ReleaseWithoutAcquire(t *testing.T) {
	_, locker := newMiniredisLocker(t)
	assert.NoError(t, locker.Release(context.Background(), "never-held"))
}

type failingLocker struct{}

func (failingLocker) Acquire(context.Context, string, time.Duration) error {
	return fmt.Errorf("connection refused")
}

func (failingLocker) Release(context.Context, string) error {
	return fmt.Errorf("connection refused")
}

func TestFailoverLocker_FallsBack(t *testing.T) {
	logger := zerolog.Nop()
	fallback := NewMemoryLocker()
	locker := NewFailoverLocker(failingLocker{}, fallback, &logger)
	ctx := context.Background()

	require.NoError(t, locker.Acquire(ctx, "room:1", time.Second))

	// The fallback now guards the key.
	blockedCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	err := fallback.Acquire(blockedCtx, "room:1", time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, locker.Release(ctx, "room:1"))
	require.NoError(t, fallback.Acquire(ctx, "room:1", time.Second))
}

func TestFailoverLocker_PrimaryHealthy(t *testing.T) {
	logger := zerolog.Nop()
	mr, primary := newMiniredisLocker(t)
	locker := NewFailoverLocker(primary, NewMemoryLocker(), &logger)
	ctx := context.Background()

	require.NoError(t, locker.Acquire(ctx, "room:1", time.Second))
	assert.True(t, mr.Exists("reservation_lock:room:1"))
	require.NoError(t, locker.Release(ctx, "room:1"))
	assert.False(t, mr.Exists("reservation_lock:room:1"))
}
