package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"tamilvalam_backend/internals/app"
	initiativeController "tamilvalam_backend/internals/features/initiatives/controller"
	initiativeRoute "tamilvalam_backend/internals/features/initiatives/route"
	authController "tamilvalam_backend/internals/features/users/auth/controller"
	authRoute "tamilvalam_backend/internals/features/users/auth/route"
	userModel "tamilvalam_backend/internals/features/users/user/model"
	"tamilvalam_backend/internals/middlewares"
	authMiddleware "tamilvalam_backend/internals/middlewares/auth"
)

var startTime = time.Now()

func SetupRoutes(fa *fiber.App, a *app.App) {
	startTime = time.Now()
	cfg := a.Config

	BaseRoutes(fa, a.DB, cfg)

	api := fa.Group("/api")
	authenticated := authMiddleware.AuthMiddleware(a.Auth, a.Log.Named("auth"))
	adminOnly := authMiddleware.OnlyRoles("Admin access required", userModel.RoleAdmin)

	a.Log.Info("mounting auth routes")
	authRoute.AuthRoutes(api,
		authController.NewAuthController(a.Auth, !cfg.IsDevelopment()),
		middlewares.LoginRateLimiter(cfg.RateLimit),
		authenticated,
	)

	a.Log.Info("mounting initiative routes")
	initiativeRoute.InitiativeRoutes(api,
		initiativeController.NewInitiativeController(a.Initiatives, a.Images, cfg.Upload),
		authenticated, adminOnly,
	)
}
