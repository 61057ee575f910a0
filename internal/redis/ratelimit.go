package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Rate limiting key patterns:
// - ratelimit:{source}:votes - fixed window, TTL = window

// RateLimitConfig contains configuration for rate limiting
type RateLimitConfig struct {
	VoteLimit  int           // Max votes per source per window; 0 disables
	VoteWindow time.Duration // Vote rate limit window
}

// RateLimiter handles rate limiting using Redis
type RateLimiter struct {
	client *goredis.Client
	config RateLimitConfig
}

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed   bool          // Whether the action is allowed
	Remaining int           // Remaining actions in the window
	ResetIn   time.Duration // Time until the window resets
	Limit     int           // The limit for this action
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(client *goredis.Client, config RateLimitConfig) *RateLimiter {
	if config.VoteWindow <= 0 {
		config.VoteWindow = time.Minute
	}
	return &RateLimiter{
		client: client,
		config: config,
	}
}

// The first hit in a window creates the key and starts its TTL. Requests over
// the limit do not increment, so a blocked caller cannot extend its own ban.
var fixedWindowScript = goredis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])

	local current = tonumber(redis.call('GET', key) or '0')
	if current >= limit then
		local ttl = redis.call('PTTL', key)
		if ttl < 0 then
			ttl = window
		end
		return {0, 0, ttl}
	end

	current = redis.call('INCR', key)
	if current == 1 then
		redis.call('PEXPIRE', key, window)
	end
	local ttl = redis.call('PTTL', key)
	if ttl < 0 then
		ttl = window
	end
	return {1, limit - current, ttl}
`)

// AllowVote checks whether source may cast another vote in the current window
func (r *RateLimiter) AllowVote(ctx context.Context, source string) (*RateLimitResult, error) {
	if r.config.VoteLimit <= 0 {
		return &RateLimitResult{Allowed: true, Remaining: -1}, nil
	}
	key := fmt.Sprintf("ratelimit:%s:votes", source)
	return r.checkLimit(ctx, key, r.config.VoteLimit, r.config.VoteWindow)
}

// checkLimit performs the actual rate limit check using a fixed window counter
func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error) {
	result, err := fixedWindowScript.Run(ctx, r.client, []string{key}, limit, window.Milliseconds()).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	// Parse the result
	resultSlice, ok := result.([]interface{})
	if !ok || len(resultSlice) < 3 {
		return nil, fmt.Errorf("unexpected rate limit result format")
	}
	allowed, ok1 := resultSlice[0].(int64)
	remaining, ok2 := resultSlice[1].(int64)
	resetMs, ok3 := resultSlice[2].(int64)
	if !ok1 || !ok2 || !ok3 {
		return nil, fmt.Errorf("unexpected rate limit result format")
	}

	return &RateLimitResult{
		Allowed:   allowed == 1,
		Remaining: int(remaining),
		ResetIn:   time.Duration(resetMs) * time.Millisecond,
		Limit:     limit,
	}, nil
}

// ResetVotes clears the vote window for a source (admin operation)
func (r *RateLimiter) ResetVotes(ctx context.Context, source string) error {
	key := fmt.Sprintf("ratelimit:%s:votes", source)
	return r.client.Del(ctx, key).Err()
}
