package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	credits := api.Group("/credits", handler.AuthRequired)
	credits.Get("/balance", handler.GetBalance)
	credits.Post("/consume", handler.VerifiedEmailRequired, handler.Consume)
	credits.Post("/add", handler.VerifiedEmailRequired, handler.AddCredits)
	credits.Get("/transactions", handler.ListTransactions)
	credits.Get("/export/summary", handler.ExportSummary)
	credits.Get("/export/csv", handler.ExportCSV)
	credits.Get("/export/json", handler.ExportJSON)

	api.Get("/achievements", handler.AuthRequired, handler.ListAchievements)
	api.Get("/notifications", handler.AuthRequired, handler.ListNotifications)

	admin := api.Group("/admin", handler.AdminKeyRequired)
	admin.Post("/users/:id/credits", handler.GrantCredits)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
