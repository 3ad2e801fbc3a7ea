// Package ratelimit implements a token bucket per key, stored in Redis so
// that every replica draws from the same bucket.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Bucket state lives in a hash {ts, tokens}. The caller supplies the clock so
// that every replica and every test agrees on "now".
var tokenBucket = redis.NewScript(`
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local state = redis.call('HMGET', KEYS[1], 'ts', 'tokens')
local ts = tonumber(state[1]) or now
local tokens = tonumber(state[2]) or capacity

local elapsed = math.max(0, now - ts) / 1000
tokens = math.min(capacity, tokens + elapsed * rate)

local allowed = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
end

redis.call('HSET', KEYS[1], 'ts', tostring(now), 'tokens', tostring(tokens))
redis.call('PEXPIRE', KEYS[1], ttl)
return allowed
`)

// Config holds the bucket parameters.
type Config struct {
	RequestsPerSecond float64
	Burst             int
}

// Limiter decides whether a request identified by key may proceed.
type Limiter struct {
	client redis.Scripter
	cfg    Config
	ttl    time.Duration
	now    func() time.Time
}

// New returns a limiter backed by client.
func New(client redis.Scripter, cfg Config) *Limiter {
	// An empty bucket refills in Burst/RPS; keep idle keys a little longer.
	refill := time.Duration(float64(cfg.Burst) / cfg.RequestsPerSecond * float64(time.Second))
	return &Limiter{
		client: client,
		cfg:    cfg,
		ttl:    refill + time.Second,
		now:    time.Now,
	}
}

// Allow takes one token from the bucket for key.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	res, err := tokenBucket.Run(ctx, l.client, []string{"ratelimit:" + key},
		l.cfg.RequestsPerSecond,
		l.cfg.Burst,
		l.now().UnixMilli(),
		l.ttl.Milliseconds(),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit script: %w", err)
	}
	return res == 1, nil
}

func (l *Limiter) Config() Config { return l.cfg }
