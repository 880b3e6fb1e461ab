package dispatch

import (
	"context"
	"strconv"
	"time"

	pkgerrors "github.com/fooddash/fooddash-backend/pkg/errors"
)

// releaseScript deletes the lock only when the caller still owns it, so a
// rider whose lease expired cannot free a lock another rider now holds.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
end
return 0`

// Locker guards the grab of a single order. Acquire is fail-fast: a held
// lock returns false immediately, it never blocks or retries.
type Locker interface {
	Acquire(ctx context.Context, orderID int64, ownerID int64, lease time.Duration) (bool, error)
	Release(ctx context.Context, orderID int64, ownerID int64) error
}

type redisCommander interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Eval(ctx context.Context, script string, keys []string, args ...any) (any, error)
	OrderLockKey(orderID int64) string
}

type redisLocker struct {
	rdb redisCommander
}

// NewRedisLocker builds the production locker on top of the redis client.
func NewRedisLocker(rdb redisCommander) Locker {
	return &redisLocker{rdb: rdb}
}

func (l *redisLocker) Acquire(ctx context.Context, orderID int64, ownerID int64, lease time.Duration) (bool, error) {
	if lease <= 0 {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "lock lease must be positive")
	}
	ok, err := l.rdb.SetNX(ctx, l.rdb.OrderLockKey(orderID), strconv.FormatInt(ownerID, 10), lease)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquiring order lock")
	}
	return ok, nil
}

func (l *redisLocker) Release(ctx context.Context, orderID int64, ownerID int64) error {
	_, err := l.rdb.Eval(ctx, releaseScript,
		[]string{l.rdb.OrderLockKey(orderID)},
		strconv.FormatInt(ownerID, 10),
	)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "releasing order lock")
	}
	return nil
}
