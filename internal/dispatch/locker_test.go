package dispatch

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	data map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string)}
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, held := f.data[key]; held {
		return false, nil
	}
	f.data[key] = fmt.Sprint(value)
	return true, nil
}

func (f *fakeRedis) Eval(ctx context.Context, script string, keys []string, args ...any) (any, error) {
	if len(keys) != 1 || len(args) != 1 {
		return nil, fmt.Errorf("unexpected script call")
	}
	if f.data[keys[0]] == fmt.Sprint(args[0]) {
		delete(f.data, keys[0])
		return int64(1), nil
	}
	return int64(0), nil
}

func (f *fakeRedis) OrderLockKey(orderID int64) string {
	return fmt.Sprintf("fd:order_lock:%d", orderID)
}

func TestAcquireIsFailFast(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	locker := NewRedisLocker(rdb)

	ok, err := locker.Acquire(ctx, 100, 7, 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = locker.Acquire(ctx, 100, 8, 30*time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "held lock must lose immediately")

	// a different order is an independent lock
	ok, err = locker.Acquire(ctx, 101, 8, 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReleaseOnlyByOwner(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	locker := NewRedisLocker(rdb)

	ok, err := locker.Acquire(ctx, 100, 7, 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	// a non-owner release is a no-op
	require.NoError(t, locker.Release(ctx, 100, 8))
	ok, err = locker.Acquire(ctx, 100, 8, 30*time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "lock must survive a foreign release")

	require.NoError(t, locker.Release(ctx, 100, 7))
	ok, err = locker.Acquire(ctx, 100, 8, 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "owner release must free the lock")
}

func TestAcquireRejectsZeroLease(t *testing.T) {
	locker := NewRedisLocker(newFakeRedis())
	_, err := locker.Acquire(context.Background(), 1, 1, 0)
	require.Error(t, err)
}
