package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"jobintake_backend/internals/configs"
	helper "jobintake_backend/internals/helpers"
)

// Global limiter: every route except the health probe. store may be nil
// for the in-memory default.
func GlobalRateLimiter(cfg configs.RateLimitConfig, store fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: window(cfg),
		Storage:    store,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/api/health"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return "global:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, "❌ Too many requests. Please try again later.")
		},
	})
}

// Submit limiter: stricter, mounted on POST /api/submit only.
func SubmitRateLimiter(cfg configs.RateLimitConfig, store fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        cfg.SubmitMax,
		Expiration: window(cfg),
		Storage:    store,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "submit:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, "❌ Too many submissions from this address. Please wait a minute.")
		},
	})
}

func window(cfg configs.RateLimitConfig) time.Duration {
	if cfg.Window <= 0 {
		return time.Minute
	}
	return cfg.Window
}
