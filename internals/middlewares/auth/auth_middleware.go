package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	authService "tamilvalam_backend/internals/features/users/auth/service"
)

// AuthMiddleware verifies the bearer token (header or access_token cookie),
// rejects revoked tokens and inactive users, and stores the claims in locals.
func AuthMiddleware(auth *authService.AuthService, log *zap.Logger) fiber.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		raw, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		claims, err := auth.Tokens().Parse(raw)
		if err != nil {
			if errors.Is(err, authService.ErrTokenExpired) {
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
			}
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid token")
		}

		ctx := c.UserContext()
		revoked, err := auth.IsRevoked(ctx, raw)
		if err != nil {
			log.Error("blacklist lookup failed", zap.Error(err))
			return err
		}
		if revoked {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token is blacklisted")
		}

		active, err := auth.UserActive(ctx, claims.UserID)
		if err != nil {
			log.Error("user lookup failed", zap.Error(err))
			return err
		}
		if !active {
			return fiber.NewError(fiber.StatusForbidden, "Account is deactivated or missing")
		}

		storeClaimsToLocals(c, claims, raw)
		return c.Next()
	}
}
