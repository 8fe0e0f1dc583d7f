package infra

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrLockHeld is returned when another request owns the key.
var ErrLockHeld = errors.New("lock held by another request")

// Locker hands out short-lived mutually exclusive locks keyed by string.
// The returned release func is always non-nil and safe to call once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// NewLocker returns a redislock-backed Locker, or a no-op Locker when rdb is nil.
func NewLocker(rdb *redis.Client, ttl time.Duration) Locker {
	if rdb == nil {
		return NoopLocker{}
	}
	return &redisLocker{client: redislock.New(rdb), ttl: ttl}
}

type redisLocker struct {
	client *redislock.Client
	ttl    time.Duration
}

func (l *redisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	lock, err := l.client.Obtain(ctx, key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return func() {}, ErrLockHeld
	}
	if err != nil {
		return func() {}, err
	}
	return func() {
		// Released with a fresh context: the request context may already be done.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			log.Warn().Err(err).Str("key", key).Msg("locker: release failed")
		}
	}, nil
}

// NoopLocker always succeeds. Used when redis is not configured; the row
// lock taken inside the transaction still serializes writers.
type NoopLocker struct{}

func (NoopLocker) Acquire(context.Context, string) (func(), error) { return func() {}, nil }
