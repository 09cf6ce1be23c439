package routes

import (
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"tamilvalam_backend/internals/app"
	"tamilvalam_backend/internals/middlewares"
	"tamilvalam_backend/internals/middlewares/logger"
)

// NewServer builds the Fiber app with the middleware stack and every route.
func NewServer(a *app.App) *fiber.App {
	cfg := a.Config
	httpLog := a.Log.Named("http")

	fa := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		BodyLimit:             cfg.Upload.BodyLimit(),
		ReadTimeout:           cfg.RequestTimeout,
		WriteTimeout:          2 * cfg.RequestTimeout,
		ErrorHandler:          middlewares.ErrorHandler(httpLog),
	})

	fa.Use(requestid.New())
	fa.Use(logger.LoggerMiddleware(httpLog))
	fa.Use(middlewares.RecoveryMiddleware(httpLog))
	fa.Use(middlewares.CorsMiddleware(cfg.CORS))
	fa.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	fa.Use(etag.New())
	if cfg.RateLimit.Max > 0 {
		fa.Use(middlewares.GlobalRateLimiter(cfg.RateLimit))
	}
	fa.Use(middlewares.RequestTimeout(cfg.RequestTimeout))

	SetupRoutes(fa, a)
	return fa
}
