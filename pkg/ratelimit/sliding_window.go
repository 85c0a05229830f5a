package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrRateLimited signals an over-quota admission check. Any other failure of
// the backing store is swallowed: the limiter fails open so that an
// unavailable store never blocks the service.
var ErrRateLimited = errors.New("rate limit exceeded")

// WindowStore performs the sliding-window bookkeeping for one identity as a
// single atomic unit, so two simultaneous checks cannot both take the last
// slot.
type WindowStore interface {
	// TrimCountAdd discards entries older than now-window, counts the rest
	// and, if the count is below quota, appends an entry at now and refreshes
	// the key's expiry to one window. Returns whether the request was admitted.
	TrimCountAdd(ctx context.Context, key string, now time.Time, window time.Duration, quota int) (bool, error)
}

// Limiter is a true sliding-window admission controller: a burst of quota
// requests followed by one more inside the same window is rejected even when
// it straddles what a fixed-bucket counter would call a boundary.
type Limiter struct {
	store  WindowStore
	window time.Duration
	quota  int
	now    func() time.Time
}

func NewLimiter(store WindowStore, window time.Duration, quota int) *Limiter {
	return &Limiter{
		store:  store,
		window: window,
		quota:  quota,
		now:    time.Now,
	}
}

// WithClock overrides the limiter's clock. Test hook.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow admits or rejects one request for the given identity. Returns
// ErrRateLimited on rejection and nil otherwise — including when the store
// errored, which fails open.
func (l *Limiter) Allow(ctx context.Context, identity string) error {
	key := "rate_limit:" + identity

	admitted, err := l.store.TrimCountAdd(ctx, key, l.now(), l.window, l.quota)
	if err != nil {
		return nil // fail open: availability beats rate-limiting precision
	}
	if !admitted {
		return ErrRateLimited
	}
	return nil
}

// trimCountAddScript runs the whole check-and-admit on the Redis side.
// Scores and trim bounds are microsecond timestamps.
var trimCountAddScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, tonumber(ARGV[1]) - tonumber(ARGV[2]))
local count = redis.call('ZCARD', KEYS[1])
if count >= tonumber(ARGV[3]) then
  return 0
end
redis.call('ZADD', KEYS[1], ARGV[1], ARGV[4])
redis.call('EXPIRE', KEYS[1], ARGV[5])
return 1
`)

// RedisWindowStore keeps per-identity admission timestamps in a Redis sorted
// set, self-cleaning after one window of inactivity.
type RedisWindowStore struct {
	rdb redis.UniversalClient
}

func NewRedisWindowStore(rdb redis.UniversalClient) *RedisWindowStore {
	return &RedisWindowStore{rdb: rdb}
}

func (s *RedisWindowStore) TrimCountAdd(ctx context.Context, key string, now time.Time, window time.Duration, quota int) (bool, error) {
	nowMicro := now.UnixMicro()
	// Member must be unique even for same-microsecond requests.
	member := fmt.Sprintf("%d-%s", nowMicro, uuid.NewString()[:8])

	expireSeconds := int64(window / time.Second)
	if expireSeconds < 1 {
		expireSeconds = 1
	}

	res, err := trimCountAddScript.Run(ctx, s.rdb, []string{key},
		nowMicro,
		window.Microseconds(),
		quota,
		member,
		expireSeconds,
	).Int64()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}
