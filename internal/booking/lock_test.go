package booking

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisLockerMutualExclusion(t *testing.T) {
	locker := NewRedisLocker(setupTestRedis(t))
	ctx := context.Background()

	token, err := locker.Acquire(ctx, "meeting:m1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	second, err := locker.Acquire(ctx, "meeting:m1")
	require.NoError(t, err)
	assert.Empty(t, second, "held lock must not be re-acquired")

	other, err := locker.Acquire(ctx, "meeting:m2")
	require.NoError(t, err)
	assert.NotEmpty(t, other, "different key is independent")

	locker.Release(ctx, "meeting:m1", token)
	again, err := locker.Acquire(ctx, "meeting:m1")
	require.NoError(t, err)
	assert.NotEmpty(t, again)
}

func TestRedisLockerReleaseRequiresOwnerToken(t *testing.T) {
	locker := NewRedisLocker(setupTestRedis(t))
	ctx := context.Background()

	token, err := locker.Acquire(ctx, "day:2026-03-10")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// A stale holder with the wrong token must not free the lock.
	locker.Release(ctx, "day:2026-03-10", "not-the-token")
	second, err := locker.Acquire(ctx, "day:2026-03-10")
	require.NoError(t, err)
	assert.Empty(t, second)

	locker.Release(ctx, "day:2026-03-10", token)
	third, err := locker.Acquire(ctx, "day:2026-03-10")
	require.NoError(t, err)
	assert.NotEmpty(t, third)
}

func TestInMemoryLocker(t *testing.T) {
	locker := NewInMemoryLocker()
	ctx := context.Background()

	token, err := locker.Acquire(ctx, "k")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	second, err := locker.Acquire(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, second)

	locker.Release(ctx, "k", "wrong")
	second, err = locker.Acquire(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, second, "wrong token must not release")

	locker.Release(ctx, "k", token)
	second, err = locker.Acquire(ctx, "k")
	require.NoError(t, err)
	assert.NotEmpty(t, second)
}
