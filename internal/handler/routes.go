package handler

import (
	"trivia-gen/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the upload page, the health check and the session API.
func RegisterRoutes(app *fiber.App, sessions *SessionHandler, health *HealthHandler, vm *middleware.ValidationMiddleware) {
	app.Get("/", Index)
	app.Get("/healthz", health.Health)

	api := app.Group("/api")
	api.Post("/sessions", sessions.CreateSession)
	api.Get("/sessions/:id", vm.ValidateSessionID(), sessions.GetSession)
	api.Delete("/sessions/:id", vm.ValidateSessionID(), sessions.EndSession)
	api.Put("/sessions/:id/file", vm.ValidateSessionID(), sessions.SelectFile)
	api.Post("/sessions/:id/submit", vm.ValidateSessionID(), sessions.Submit)
}
