// file: internals/middlewares/setup.go
package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/helmet"

	"jobintake_backend/internals/configs"
	"jobintake_backend/internals/middlewares/logger"
)

// SetupMiddlewares mounts the process-wide stack in order and returns the
// submit limiter for the route layer. store may be nil.
func SetupMiddlewares(app *fiber.App, cfg *configs.AppConfig, store fiber.Storage) (submitLimiter fiber.Handler) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestContext(cfg.RequestTimeout))
	app.Use(logger.LoggerMiddleware())
	app.Use(helmet.New(helmet.Config{
		// attachments are embedded by the HR dashboard on another origin
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(CorsMiddleware(cfg.CORSOrigins))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(GlobalRateLimiter(cfg.RateLimit, store))

	return SubmitRateLimiter(cfg.RateLimit, store)
}
