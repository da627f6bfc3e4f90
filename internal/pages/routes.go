package pages

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"

	"github.com/ona-rest/ona/internal/middleware"
)

// SetupRoutes mounts the static assets, the admin panel and the localized site.
// The localized catch-all goes last so /admin and /static win.
func SetupRoutes(app *fiber.App, h *Handlers) {
	app.Use("/static", filesystem.New(filesystem.Config{
		Root:   Static(),
		MaxAge: 86400,
	}))

	admin := app.Group("/admin", middleware.AdminPage(h.session, loginPath))
	admin.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/admin/news", fiber.StatusFound)
	})
	admin.Get("/login", h.AdminLogin)
	admin.Get("/news", h.AdminNews)
	admin.Get("/news/new", h.AdminNew)
	admin.Get("/news/:id", h.AdminEdit)

	app.Get("/", h.Root)

	site := app.Group("/:locale", middleware.Locale(h.bundle, h.session.Secure))
	site.Get("/", h.Home)
	site.Get("/about", h.About)
	site.Get("/news", h.NewsList)
	site.Get("/news/:id", h.Article)
	site.Get("/contact", h.Contact)
	site.Post("/contact", h.SubmitContact)
	site.Get("/book", h.Book)
	site.Post("/book", h.SubmitBook)
	site.Get("/voucher", h.Voucher)
}
