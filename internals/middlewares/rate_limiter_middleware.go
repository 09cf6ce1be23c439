package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"tamilvalam_backend/internals/configs"
	helper "tamilvalam_backend/internals/helpers"
)

// GlobalRateLimiter limits every endpoint per client IP.
func GlobalRateLimiter(cfg configs.RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: cfg.Expiration,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health" || c.Path() == "/metrics"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, "Too many requests, please try again later")
		},
	})
}

// LoginRateLimiter is the stricter limit for the login route.
func LoginRateLimiter(cfg configs.RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        cfg.LoginMax,
		Expiration: cfg.Expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, "Too many login attempts, please wait a moment")
		},
	})
}
