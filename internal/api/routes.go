package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ona-rest/ona/internal/middleware"
	"github.com/ona-rest/ona/internal/models"
)

// SetupRoutes configures the health check and the JSON API
func SetupRoutes(app *fiber.App, h *Handlers) {
	app.Get("/health", h.HealthCheck)

	api := app.Group("/api")
	admin := middleware.AdminOnly(h.session)

	auth := api.Group("/admin/auth")
	auth.Get("/", h.CheckAuth)
	auth.Post("/", h.Login)
	auth.Delete("/", h.Logout)

	n := api.Group("/news")
	n.Get("/", h.ListNews)
	n.Post("/", admin, middleware.ValidateBody[models.ArticleInput](h.validator), h.CreateNews)
	n.Get("/:id", h.GetNews)
	n.Put("/:id", admin, middleware.ValidateBody[models.ArticlePatch](h.validator), h.UpdateNews)
	n.Delete("/:id", admin, h.DeleteNews)

	api.Post("/upload", admin, h.Upload)
}
