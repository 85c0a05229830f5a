package serverutils

import (
	"errors"

	"paper-digest-be/internal/pkg/logger"
	"paper-digest-be/pkg/ratelimit"

	"github.com/gofiber/fiber/v2"
)

// RateLimitMiddleware gates job submission per client IP. Rejection happens
// before any job is created, so an over-quota caller never consumes pipeline
// capacity.
func RateLimitMiddleware(limiter *ratelimit.Limiter, log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := limiter.Allow(ctx.Context(), ctx.IP())
		if errors.Is(err, ratelimit.ErrRateLimited) {
			log.Warn("ratelimit", "Request rejected", map[string]interface{}{
				"client_ip": ctx.IP(),
			})
			return ctx.Status(fiber.StatusTooManyRequests).
				JSON(ErrorResponse(fiber.StatusTooManyRequests, "Rate limit exceeded, try again later"))
		}
		return ctx.Next()
	}
}
