package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	loginBucketPrefix = "ratelimit:login:"
	// loginBucketMinTTL is the shortest lifetime of an idle bucket key.
	loginBucketMinTTL = 60 * time.Second
)

// RateLimitResult is the outcome of one login attempt against its bucket.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// loginBucketScript takes one token from a per-IP bucket, refilling it for
// the time elapsed since the last attempt. Time is in milliseconds.
// Returns {allowed, retry_after_ms, whole tokens left}.
var loginBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local burst = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'ts')
	local tokens = tonumber(state[1]) or burst
	local ts = tonumber(state[2]) or now

	if now > ts then
		tokens = math.min(burst, tokens + (now - ts) / 1000 * rate)
	end

	local allowed = 0
	local wait = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		wait = math.ceil((1 - tokens) / rate * 1000)
	end

	redis.call('HSET', key, 'tokens', tostring(tokens), 'ts', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, wait, math.floor(tokens)}
`)

// CheckLoginRateLimit spends one login attempt for ip. The address is
// hashed before it becomes part of a key. A non-positive rate disables
// the limit. Redis errors are returned so the caller can fail open.
func (c *Cache) CheckLoginRateLimit(ctx context.Context, ip string, ratePerSecond float64, burst int) (*RateLimitResult, error) {
	now := time.Now()
	if ratePerSecond <= 0 {
		return &RateLimitResult{Allowed: true, Remaining: int64(burst), ResetAt: now}, nil
	}

	res, err := loginBucketScript.Run(ctx, c.client,
		[]string{loginBucketPrefix + hashIP(ip)},
		ratePerSecond, burst, now.UnixMilli(), loginBucketTTL(ratePerSecond, burst),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("login rate limit: %w", err)
	}
	if len(res) != 3 {
		return nil, fmt.Errorf("login rate limit: unexpected reply length %d", len(res))
	}

	return &RateLimitResult{
		Allowed:    res[0] == 1,
		Remaining:  res[2],
		ResetAt:    bucketFullAt(now, res[2], burst, ratePerSecond),
		RetryAfter: time.Duration(res[1]) * time.Millisecond,
	}, nil
}

// loginBucketTTL returns the key TTL in seconds. An idle key must live
// at least as long as a full refill, or an empty bucket would come back full.
func loginBucketTTL(rate float64, burst int) int {
	ttl := int(loginBucketMinTTL / time.Second)
	if refill := int(math.Ceil(float64(burst) / rate)); refill > ttl {
		ttl = refill
	}
	return ttl
}

// bucketFullAt estimates when a bucket holding remaining tokens is full again.
func bucketFullAt(now time.Time, remaining int64, burst int, rate float64) time.Time {
	missing := float64(int64(burst) - remaining)
	if missing <= 0 {
		return now
	}
	return now.Add(time.Duration(missing / rate * float64(time.Second)))
}

// hashIP returns the first 8 bytes of SHA-256(ip) as hex.
func hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:8])
}
