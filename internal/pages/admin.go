package pages

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ona-rest/ona/internal/middleware"
	"github.com/ona-rest/ona/internal/models"
	"github.com/ona-rest/ona/internal/news"
)

const loginPath = "/admin/login"

// AdminLogin renders the login form, or skips it when the session is already valid
func (h *Handlers) AdminLogin(c *fiber.Ctx) error {
	if h.session.Valid(c) {
		return c.Redirect("/admin/news", fiber.StatusFound)
	}
	t := middleware.Translator(c, h.bundle)
	return c.Render("admin/login", h.view(c, t.T("Admin.login")), adminLayout)
}

// AdminNews lists every article including drafts
func (h *Handlers) AdminNews(c *fiber.Ctx) error {
	t := middleware.Translator(c, h.bundle)

	articles, err := h.news.List(c.UserContext(), false)
	if err != nil {
		return err
	}

	data := h.view(c, t.T("Admin.news"))
	data["Articles"] = articles
	return c.Render("admin/news", data, adminLayout)
}

// AdminNew renders an empty article form
func (h *Handlers) AdminNew(c *fiber.Ctx) error {
	t := middleware.Translator(c, h.bundle)

	data := h.view(c, t.T("Admin.newArticle"))
	data["Article"] = &models.Article{}
	data["New"] = true
	return c.Render("admin/form", data, adminLayout)
}

// AdminEdit renders the form for an existing article
func (h *Handlers) AdminEdit(c *fiber.Ctx) error {
	t := middleware.Translator(c, h.bundle)

	article, err := h.news.Get(c.UserContext(), c.Params("id"), true)
	if errors.Is(err, news.ErrNotFound) {
		return fiber.ErrNotFound
	}
	if err != nil {
		return err
	}

	data := h.view(c, t.T("Admin.editArticle"))
	data["Article"] = article
	data["New"] = false
	return c.Render("admin/form", data, adminLayout)
}
