package api

import (
	"time"

	"github.com/buswatch/buswatch/pkg/transit"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

const (
	rateLimitRequests = 30
	rateLimitWindow   = time.Minute
)

// NewRateLimiter returns a sliding-window in-memory limiter keyed by client
// IP. The aggregation endpoints fan out to several upstream calls per
// request, so they get a budget well under the upstream's own limits.
func NewRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        rateLimitRequests,
		Expiration: rateLimitWindow,

		LimiterMiddleware: limiter.SlidingWindow{},

		LimitReached: func(c *fiber.Ctx) error {
			c.SendStatus(fiber.StatusTooManyRequests)
			return c.JSON(fiber.Map{
				"code":  transit.CategoryRateLimited,
				"error": "Too many requests, slow down",
			})
		},
	})
}
