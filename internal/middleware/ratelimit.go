package middleware

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// AccessTokenRateLimit limits how often a single access token (falling back
// to the client IP) may hit the credential-bearing endpoints per minute. Cache
// errors and a nil client fail open so the auth path never depends on Redis
// availability.
func AccessTokenRateLimit(cache *redis.Client, headerName string, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 30
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}
		subject := c.Get(headerName)
		if subject == "" {
			subject = c.IP()
		}
		key := "rl:access:" + subject
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err != nil {
			return c.Next()
		}
		if cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many requests, try again later")
		}
		return c.Next()
	}
}
