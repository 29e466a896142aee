package ratelimit

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a sliding window backed by a redis sorted set per
// key, members are request timestamps scored by unix nanos. Counters
// are shared across instances.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	seq    atomic.Int64
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Prune, count and record run as one script so concurrent callers
// cannot all observe the same count and slip past the limit.
const allowScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local windowStart = ARGV[2]
local now = ARGV[3]
local member = ARGV[4]
local ttlMs = tonumber(ARGV[5])

redis.call('ZREMRANGEBYSCORE', key, 0, windowStart)
if redis.call('ZCARD', key) >= limit then
	return 0
end
redis.call('ZADD', key, now, member)
redis.call('PEXPIRE', key, ttlMs)
return 1
`

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-l.window)

	// sequence suffix keeps members unique when two requests land on
	// the same nanosecond
	member := fmt.Sprintf("%d-%d", now.UnixNano(), l.seq.Add(1))

	allowed, err := l.client.Eval(ctx, allowScript,
		[]string{limiterKey(key)},
		l.limit,
		fmt.Sprintf("%d", windowStart.UnixNano()),
		fmt.Sprintf("%d", now.UnixNano()),
		member,
		l.window.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("redis limiter check failed: %w", err)
	}

	return allowed == 1, nil
}

func limiterKey(key string) string {
	return fmt.Sprintf("ratelimit:%s", key)
}
