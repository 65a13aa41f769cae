package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindowScript prunes, counts and records in one round trip.
// KEYS[1] = ledger key, ARGV = now (ms), window (ms), limit, member.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call("ZREMRANGEBYSCORE", key, "-inf", now - window)
if redis.call("ZCARD", key) >= limit then
	return 0
end
redis.call("ZADD", key, now, ARGV[4])
redis.call("PEXPIRE", key, window)
return 1
`)

// RedisLedger is a sliding-window ledger shared by every replica that
// points at the same Redis. Keys expire with the window, so no capacity
// cap is applied.
type RedisLedger struct {
	rdb    redis.Scripter
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

type RedisLedgerOption func(*RedisLedger)

func WithRedisPrefix(prefix string) RedisLedgerOption {
	return func(l *RedisLedger) { l.prefix = strings.Trim(prefix, ":") }
}

func WithRedisLimit(n int, window time.Duration) RedisLedgerOption {
	return func(l *RedisLedger) {
		l.limit = n
		l.window = window
	}
}

func WithRedisClock(now func() time.Time) RedisLedgerOption {
	return func(l *RedisLedger) { l.now = now }
}

func NewRedisLedger(rdb redis.Scripter, opts ...RedisLedgerOption) *RedisLedger {
	l := &RedisLedger{
		rdb:    rdb,
		prefix: "portfolio:contact:ledger",
		limit:  DefaultRateLimit,
		window: DefaultRateWindow,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CheckAndRecord implements RateLedger
func (l *RedisLedger) CheckAndRecord(ctx context.Context, sourceID string) (bool, error) {
	now := l.now().UnixMilli()
	key := l.prefix + ":" + sourceID

	allowed, err := slidingWindowScript.Run(ctx, l.rdb, []string{key},
		now,
		l.window.Milliseconds(),
		l.limit,
		fmt.Sprintf("%d-%s", now, uuid.NewString()),
	).Int()
	if err != nil {
		return false, fmt.Errorf("rate ledger: %w", err)
	}
	return allowed == 1, nil
}
