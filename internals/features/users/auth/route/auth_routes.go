package route

import (
	"github.com/gofiber/fiber/v2"

	"tamilvalam_backend/internals/features/users/auth/controller"
)

// AuthRoutes mounts /auth under api. authenticated guards /me and /logout;
// loginLimiter, when non-nil, throttles /login.
func AuthRoutes(api fiber.Router, ctl *controller.AuthController, loginLimiter fiber.Handler, authenticated ...fiber.Handler) {
	g := api.Group("/auth")

	if loginLimiter != nil {
		g.Post("/login", loginLimiter, ctl.Login)
	} else {
		g.Post("/login", ctl.Login)
	}

	g.Get("/me", chain(authenticated, ctl.Me)...)
	g.Post("/logout", chain(authenticated, ctl.Logout)...)
}

func chain(guards []fiber.Handler, h fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(guards)+1)
	return append(append(out, guards...), h)
}
