package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// NewApp builds the fiber application with middleware and every route.
func NewApp(handler *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "cyclekit",
		DisableStartupMessage: true,
		ErrorHandler:          handler.errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Output: handler.accessLog,
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	if handler.metrics != nil {
		app.Use(handler.metrics.Middleware())
	}
	app.Use(handler.LanguageMiddleware)

	RegisterRoutes(app, handler)
	return app
}

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	if handler.metrics != nil {
		app.Get("/metrics", handler.metrics.Handler())
	}

	api := app.Group("/api", handler.AuthRequired)
	api.Post("/preview", handler.PreviewCycle)

	cycles := api.Group("/cycles")
	cycles.Post("", handler.CreateCycle)
	cycles.Get("/:id", handler.GetCycle)
	cycles.Patch("/:id", handler.UpdateCycle)
	cycles.Delete("/:id", handler.DeleteCycle)
	cycles.Get("/:id/events", handler.GetCycleEvents)

	customers := api.Group("/customers/:customer")
	customers.Get("/reminders", handler.ListReminders)
	customers.Get("/reminders.ics", handler.ExportReminderCalendar)

	api.Post("/reminders/:id/sent", handler.MarkReminderSent)
}
