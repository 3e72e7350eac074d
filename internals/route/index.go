// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"jobintake_backend/internals/constants"
	"jobintake_backend/internals/features/applications/controller"
	"jobintake_backend/internals/features/applications/repository"
	applicationRoute "jobintake_backend/internals/features/applications/route"
	"jobintake_backend/internals/features/applications/service"
	"jobintake_backend/internals/helpers/storage"
	"jobintake_backend/internals/middlewares/auth"
)

var startTime = time.Now()

// Deps is everything the route layer wires into controllers.
type Deps struct {
	DB            *gorm.DB
	Repo          *repository.ApplicationRepository
	Store         *storage.LocalStore
	Uploads       *service.UploadService
	Seed          controller.SampleSeeder
	SubmitLimiter fiber.Handler
	JWTSecret     string
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, d.DB)

	api := app.Group("/api")

	// ===================== PUBLIC =====================
	log.Println("[INFO] Mounting public application routes...")
	applicationRoute.ApplicationPublicRoutes(api,
		controller.NewSubmitController(d.Repo, d.Uploads), d.SubmitLimiter)

	// ===================== HR =====================
	log.Println("[INFO] Mounting HR routes (Auth + RoleCheck)...")
	applicationRoute.ApplicationHRRoutes(api,
		controller.NewApplicationController(d.Repo, d.Store, d.Seed),
		auth.AdminAuth(d.JWTSecret),
		auth.OnlyRolesSlice(constants.RoleErrorHR("the HR dashboard"), constants.HRAndAbove, d.JWTSecret != ""),
	)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Route not found")
	})
}
