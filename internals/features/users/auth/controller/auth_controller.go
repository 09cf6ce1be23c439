package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"tamilvalam_backend/internals/features/users/auth/dto"
	"tamilvalam_backend/internals/features/users/auth/service"
	helper "tamilvalam_backend/internals/helpers"
	authMw "tamilvalam_backend/internals/middlewares/auth"
)

type AuthController struct {
	Auth         *service.AuthService
	Validator    *validator.Validate
	SecureCookie bool
}

func NewAuthController(auth *service.AuthService, secureCookie bool) *AuthController {
	return &AuthController{Auth: auth, Validator: validator.New(), SecureCookie: secureCookie}
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	req.Normalize()
	if err := ac.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	res, err := ac.Auth.Login(c.UserContext(), req)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    res.AccessToken,
		HTTPOnly: true,
		Secure:   ac.SecureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  res.ExpiresAt,
	})
	return helper.JsonOK(c, "Login successful", res)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	user, err := ac.Auth.Me(c.UserContext(), authMw.UserID(c))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Current user", user)
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	if err := ac.Auth.Logout(c.UserContext(), authMw.AccessToken(c)); err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		HTTPOnly: true,
		Secure:   ac.SecureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
	})
	return helper.JsonOK(c, "Logout successful", nil)
}
