package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	authService "tamilvalam_backend/internals/features/users/auth/service"
)

// Locals keys set by AuthMiddleware.
const (
	LocalUserID      = "user_id"
	LocalRole        = "userRole"
	LocalUserName    = "user_name"
	LocalAccessToken = "access_token"
)

/* ======== Extractors ======== */

func extractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if auth == "" {
		if cookieTok := strings.TrimSpace(c.Cookies("access_token")); cookieTok != "" {
			return strings.Trim(cookieTok, "\"'"), nil
		}
		return "", errors.New("Unauthorized - No token provided")
	}

	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", errors.New("Unauthorized - Invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", errors.New("Unauthorized - Empty token")
	}
	return tok, nil
}

/* ======== Locals ======== */

func storeClaimsToLocals(c *fiber.Ctx, claims *authService.Claims, raw string) {
	c.Locals(LocalUserID, claims.UserID.String())
	c.Locals(LocalRole, claims.Role)
	c.Locals(LocalUserName, claims.UserName)
	c.Locals(LocalAccessToken, raw)
}

// UserID returns the authenticated user's id, or uuid.Nil.
func UserID(c *fiber.Ctx) uuid.UUID {
	s, _ := c.Locals(LocalUserID).(string)
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// AccessToken returns the raw token AuthMiddleware accepted.
func AccessToken(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalAccessToken).(string)
	return s
}
