package security

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// UploadLimiter enforces rate limits on file uploads using a Redis sliding window
type UploadLimiter struct {
	client       *goredis.Client
	maxPerMinute int // Max uploads per minute per IP
	maxPerDay    int // Max uploads per day per user
}

// Sliding window check.
// KEYS[1] = rate limit key
// ARGV[1] = max count allowed
// ARGV[2] = window size in seconds
// ARGV[3] = current timestamp (ms)
// Returns 1 if allowed, 0 if rate limited
var uploadRateLimitScript = goredis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2]) * 1000
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

local count = redis.call('ZCARD', key)
if count >= limit then
    return 0
end

redis.call('ZADD', key, now, now .. '-' .. math.random(1000000))
redis.call('PEXPIRE', key, window)
return 1
`)

// NewUploadLimiter creates an upload rate limiter; a nil client disables limiting
func NewUploadLimiter(client *goredis.Client, perMin, perDay int) *UploadLimiter {
	if perMin <= 0 {
		perMin = 10
	}
	if perDay <= 0 {
		perDay = 50
	}
	return &UploadLimiter{
		client:       client,
		maxPerMinute: perMin,
		maxPerDay:    perDay,
	}
}

// Enabled reports whether a Redis client backs the limiter
func (ul *UploadLimiter) Enabled() bool {
	return ul != nil && ul.client != nil
}

// AllowUpload checks the per-IP minute window and the per-user day window.
// Returns (allowed, retryAfterSeconds, error). Without Redis it fails open;
// on Redis errors it fails closed.
func (ul *UploadLimiter) AllowUpload(ctx context.Context, ip, userID string) (bool, int, error) {
	if !ul.Enabled() {
		return true, 0, nil
	}

	now := time.Now().UnixMilli()

	ipKey := fmt.Sprintf("ratelimit:upload:ip:%s", ip)
	allowed, err := ul.checkLimit(ctx, ipKey, ul.maxPerMinute, 60, now)
	if err != nil {
		return false, 60, fmt.Errorf("rate limit check failed: %w", err)
	}
	if !allowed {
		return false, 60, nil
	}

	if userID != "" {
		userKey := fmt.Sprintf("ratelimit:upload:user:%s", userID)
		allowed, err = ul.checkLimit(ctx, userKey, ul.maxPerDay, 86400, now)
		if err != nil {
			return false, 3600, fmt.Errorf("rate limit check failed: %w", err)
		}
		if !allowed {
			return false, 3600, nil
		}
	}

	return true, 0, nil
}

func (ul *UploadLimiter) checkLimit(ctx context.Context, key string, limit, window int, now int64) (bool, error) {
	allowed, err := uploadRateLimitScript.Run(ctx, ul.client, []string{key}, limit, window, now).Int64()
	if err != nil {
		return false, err
	}
	return allowed == 1, nil
}

// RemainingQuota returns remaining uploads for the IP and the user
func (ul *UploadLimiter) RemainingQuota(ctx context.Context, ip, userID string) (int, int, error) {
	if !ul.Enabled() {
		return ul.maxPerMinute, ul.maxPerDay, nil
	}

	now := time.Now().UnixMilli()

	ipCount, err := ul.count(ctx, fmt.Sprintf("ratelimit:upload:ip:%s", ip), 60, now)
	if err != nil {
		return 0, 0, err
	}

	userRemaining := ul.maxPerDay
	if userID != "" {
		userCount, err := ul.count(ctx, fmt.Sprintf("ratelimit:upload:user:%s", userID), 86400, now)
		if err != nil {
			return 0, 0, err
		}
		userRemaining = max(ul.maxPerDay-userCount, 0)
	}

	return max(ul.maxPerMinute-ipCount, 0), userRemaining, nil
}

func (ul *UploadLimiter) count(ctx context.Context, key string, window int, now int64) (int, error) {
	min := fmt.Sprintf("%d", now-int64(window)*1000)
	n, err := ul.client.ZCount(ctx, key, min, "+inf").Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
