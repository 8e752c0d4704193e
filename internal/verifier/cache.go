package verifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cachePrefix = "verifier:email:v1:"

// Cached decorates a Verifier with a Redis-backed resolution cache so repeated
// calls with the same access token skip the provider round trip. Cache
// failures never fail the request; the inner verifier is consulted instead.
type Cached struct {
	inner  Verifier
	cache  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wraps inner with a resolution cache. Only successful resolutions
// are cached; rejected tokens are re-checked every time.
func NewCached(inner Verifier, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *Cached {
	return &Cached{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

func (c *Cached) ResolveEmail(ctx context.Context, accessToken string) (string, error) {
	key := cachePrefix + accessToken

	email, err := c.cache.Get(ctx, key).Result()
	if err == nil && email != "" {
		return email, nil
	}
	if err != nil && err != redis.Nil {
		c.logger.Warn("verifier cache lookup failed", slog.Any("error", err))
	}

	email, err = c.inner.ResolveEmail(ctx, accessToken)
	if err != nil {
		return "", err
	}

	if err := c.cache.Set(ctx, key, email, c.ttl).Err(); err != nil {
		c.logger.Warn("verifier cache store failed", slog.Any("error", err))
	}
	return email, nil
}
