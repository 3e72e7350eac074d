// file: internals/features/applications/route/application_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"jobintake_backend/internals/features/applications/controller"
)

// ApplicationPublicRoutes mounts the candidate-facing endpoint.
// Prefix: /api
func ApplicationPublicRoutes(api fiber.Router, ctl *controller.SubmitController, submitLimiter fiber.Handler) {
	if submitLimiter != nil {
		api.Post("/submit", submitLimiter, ctl.Submit)
		return
	}
	api.Post("/submit", ctl.Submit)
}

// ApplicationHRRoutes mounts the dashboard endpoints. guard runs before each
// handler; the paths share /api with the public route so a group-level Use
// would leak the guard onto /api/submit.
func ApplicationHRRoutes(api fiber.Router, ctl *controller.ApplicationController, guard ...fiber.Handler) {
	hr := func(h fiber.Handler) []fiber.Handler {
		hs := make([]fiber.Handler, 0, len(guard)+1)
		hs = append(hs, guard...)
		return append(hs, h)
	}

	// =========================
	// 📋 APPLICATIONS
	// =========================
	api.Get("/applications", hr(ctl.List)...)
	api.Get("/applications/export", hr(ctl.Export)...) // before /:id
	api.Get("/applications/:id", hr(ctl.GetByID)...)
	api.Put("/applications/:id", hr(ctl.UpdateStatus)...)
	api.Delete("/applications/:id", hr(ctl.Delete)...)

	// =========================
	// 🧹 MAINTENANCE
	// =========================
	api.Delete("/clear", hr(ctl.Clear)...)
	api.Post("/sample-data", hr(ctl.SampleData)...)

	// =========================
	// 📎 FILES
	// =========================
	api.Get("/files/:filename", hr(ctl.ServeFile)...)
	api.Get("/download/:type/:id", hr(ctl.Download)...)
}
