package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/question-service/internal/config"
)

// tokenBucketScript refills and takes one token atomically.
//
//	KEYS[1]  bucket hash {tokens, last_refill_ms}
//	ARGV     now_ms, capacity, refill_tokens, interval_ms, ttl_seconds
//	returns  {allowed 0|1, tokens left, ms until the next refill}
var tokenBucketScript = redis.NewScript(`
	local now, cap, step, every, ttl =
		tonumber(ARGV[1]), tonumber(ARGV[2]), tonumber(ARGV[3]), tonumber(ARGV[4]), tonumber(ARGV[5])

	local saved = redis.call('HMGET', KEYS[1], 'tokens', 'last_refill_ms')
	local tokens, last = tonumber(saved[1]), tonumber(saved[2])
	if not tokens or not last then
		tokens, last = cap, now
	end

	if every > 0 then
		local ticks = math.floor(math.max(0, now - last) / every)
		if ticks > 0 then
			tokens = math.min(cap, tokens + ticks * step)
			last = last + ticks * every
		end
	end

	local allowed, wait = 0, 0
	if tokens >= 1 then
		allowed, tokens = 1, tokens - 1
	else
		wait = math.max(0, every - (now - last))
	end

	redis.call('HSET', KEYS[1], 'tokens', tokens, 'last_refill_ms', last)
	redis.call('EXPIRE', KEYS[1], ttl)
	return { allowed, tokens, wait }
`)

// bucketResult is one decoded script reply.
type bucketResult struct {
	allowed   bool
	remaining int64
	retryMs   int64
}

func parseBucketResult(v interface{}) (bucketResult, bool) {
	arr, ok := v.([]interface{})
	if !ok || len(arr) != 3 {
		return bucketResult{}, false
	}
	return bucketResult{
		allowed:   asInt64(arr[0]) == 1,
		remaining: asInt64(arr[1]),
		retryMs:   asInt64(arr[2]),
	}, true
}

// retryAfter rounds the wait up to whole seconds for the Retry-After header.
func (r bucketResult) retryAfter() int {
	secs := int(math.Ceil(float64(r.retryMs) / 1000.0))
	if secs < 0 {
		return 0
	}
	return secs
}

// tokenBucket binds the limiter settings to a Redis client.
type tokenBucket struct {
	cfg config.RateLimitConfig
	rdb *redis.Client
}

// take spends one token from the bucket named key.
func (b tokenBucket) take(c echo.Context, key string) (bucketResult, error) {
	vals, err := tokenBucketScript.Run(c.Request().Context(), b.rdb, []string{key},
		time.Now().UnixMilli(),
		b.cfg.Capacity,
		b.cfg.RefillTokens,
		b.cfg.RefillInterval.Milliseconds(),
		int64(b.cfg.TTL/time.Second),
	).Result()
	if err != nil {
		return bucketResult{}, fmt.Errorf("redis: %w", err)
	}
	res, ok := parseBucketResult(vals)
	if !ok {
		return bucketResult{}, fmt.Errorf("unexpected script result %#v", vals)
	}
	return res, nil
}

// NewTokenBucket limits requests per key with a Redis-held token bucket.
// Any Redis problem lets the request through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	bucket := tokenBucket{cfg: cfg, rdb: rdb}
	limit := strconv.Itoa(cfg.Capacity)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			res, err := bucket.take(c, key)
			if err != nil {
				if cfg.Debug {
					c.Logger().Warnf("[ratelimit] key=%s: %v", key, err)
				}
				return next(c) // fail open
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.remaining, 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}
			if res.allowed {
				return next(c)
			}

			if cfg.Debug {
				c.Logger().Infof("[ratelimit] block key=%s retry=%dms", key, res.retryMs)
			}
			secs := res.retryAfter()
			h.Set(echo.HeaderRetryAfter, strconv.Itoa(secs))
			return c.JSON(http.StatusTooManyRequests, map[string]any{
				"error":       "too_many_requests",
				"message":     "rate limit exceeded",
				"retry_after": secs,
			})
		}
	}
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// buildRateKey uses the route template, so every question shares one bucket
// per client under the default ip_route strategy.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	route := c.Request().Method + " " + c.Path()

	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		return fmt.Sprintf("%s:ip:%s", cfg.Prefix, ip)
	case "route":
		return fmt.Sprintf("%s:route:%s", cfg.Prefix, route)
	default: // "ip_route"
		return fmt.Sprintf("%s:ip:%s:route:%s", cfg.Prefix, ip, route)
	}
}
