package pages

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ona-rest/ona/internal/carousel"
	"github.com/ona-rest/ona/internal/i18n"
	"github.com/ona-rest/ona/internal/logger"
	"github.com/ona-rest/ona/internal/middleware"
	"github.com/ona-rest/ona/internal/news"
)

const (
	mainLayout  = "layouts/main"
	adminLayout = "layouts/admin"

	latestNews = 6
	courses    = 5
	tableCards = 5
)

var navItems = []struct {
	Key  string
	Path string
}{
	{"Nav.home", ""},
	{"Nav.aboutUs", "about"},
	{"Nav.news", "news"},
	{"Nav.contact", "contact"},
	{"Nav.bookTable", "book"},
}

type Handlers struct {
	news      *news.Service
	bundle    *i18n.Bundle
	session   middleware.Session
	validator *middleware.Validator
}

func NewHandlers(svc *news.Service, bundle *i18n.Bundle, session middleware.Session) *Handlers {
	return &Handlers{
		news:      svc,
		bundle:    bundle,
		session:   session,
		validator: middleware.NewValidator(),
	}
}

// view is the binding every template receives
func (h *Handlers) view(c *fiber.Ctx, title string) fiber.Map {
	t := middleware.Translator(c, h.bundle)
	locale := t.Locale()

	// the path below the locale prefix, so the language switch lands on the same page
	rest := c.Path()
	if after, ok := strings.CutPrefix(rest, "/"+locale+"/"); ok {
		rest = after
	} else {
		rest = ""
	}

	return fiber.Map{
		"T":         t,
		"Locale":    locale,
		"Alternate": t.Alternate(),
		"Rest":      rest,
		"Nav":       navItems,
		"Title":     title,
		"Admin":     middleware.IsAdmin(c, h.session),
	}
}

// Root redirects to the locale picked from the cookie or Accept-Language
func (h *Handlers) Root(c *fiber.Ctx) error {
	locale := h.bundle.Negotiate(c.Cookies(middleware.LocaleCookie), c.Get(fiber.HeaderAcceptLanguage))
	return c.Redirect("/"+locale, fiber.StatusFound)
}

type slide struct {
	Index int
	Role  carousel.Role
	Style template.CSS
	Image string
}

type card struct {
	Index  int
	Offset int
	Style  template.CSS
	Image  string
}

// Home renders the landing page
func (h *Handlers) Home(c *fiber.Ctx) error {
	t := middleware.Translator(c, h.bundle)

	latest, err := h.news.Latest(c.UserContext(), latestNews)
	if err != nil {
		// the landing page still renders without the news strip
		logger.Get().Error().Err(err).Msg("Failed to load latest news")
	}

	gallery, err := carousel.NewGallery(courses)
	if err != nil {
		return err
	}
	slides := make([]slide, courses)
	for i := range slides {
		slides[i] = slide{
			Index: i,
			Role:  gallery.Role(i),
			Style: template.CSS(gallery.Layout(i).Style()),
			Image: courseImage(i),
		}
	}

	stack, err := carousel.NewStack(tableCards)
	if err != nil {
		return err
	}
	cards := make([]card, tableCards)
	for i := range cards {
		cards[i] = card{
			Index:  i,
			Offset: stack.Offset(i),
			Style:  template.CSS(stack.Layout(i).Style()),
			Image:  tableImage(i),
		}
	}

	config, err := carousel.ScriptConfig(courses, tableCards)
	if err != nil {
		return err
	}
	animation, err := config.JSON()
	if err != nil {
		return err
	}

	data := h.view(c, t.T("Meta.title"))
	data["Latest"] = latest
	data["Slides"] = slides
	data["Cards"] = cards
	data["Animation"] = animation
	return c.Render("home", data, mainLayout)
}

func courseImage(i int) string {
	return "/static/img/course-" + strconv.Itoa(i+1) + ".svg"
}

func tableImage(i int) string {
	return "/static/img/table-" + strconv.Itoa(i+1) + ".svg"
}

// About renders the story page
func (h *Handlers) About(c *fiber.Ctx) error {
	t := middleware.Translator(c, h.bundle)
	data := h.view(c, t.T("AboutPage.heroTitle"))
	data["Values"] = numbered(t, "AboutPage.value", 3)
	return c.Render("about", data, mainLayout)
}

// Voucher renders the gift voucher page
func (h *Handlers) Voucher(c *fiber.Ctx) error {
	t := middleware.Translator(c, h.bundle)
	data := h.view(c, t.T("VoucherPage.heroTitle"))

	options := make([]item, 4)
	for i := range options {
		key := "VoucherPage.option" + strconv.Itoa(i+1)
		options[i] = item{Title: t.T(key), Text: t.T(key + "Desc")}
	}
	data["Options"] = options
	data["Steps"] = numbered(t, "VoucherPage.step", 3)
	return c.Render("voucher", data, mainLayout)
}

type item struct {
	Number int
	Title  string
	Text   string
}

// numbered reads prefix1Title/prefix1Text style message pairs
func numbered(t *i18n.Translator, prefix string, n int) []item {
	items := make([]item, n)
	for i := range items {
		k := prefix + strconv.Itoa(i+1)
		items[i] = item{Number: i + 1, Title: t.T(k + "Title"), Text: t.T(k + "Text")}
	}
	return items
}

// NewsList renders every published article, newest first
func (h *Handlers) NewsList(c *fiber.Ctx) error {
	t := middleware.Translator(c, h.bundle)

	articles, err := h.news.List(c.UserContext(), true)
	if err != nil {
		return err
	}

	data := h.view(c, t.T("NewsPage.heroTitle"))
	data["Articles"] = articles
	return c.Render("news", data, mainLayout)
}

// Article renders one published article. Drafts are not found.
func (h *Handlers) Article(c *fiber.Ctx) error {
	t := middleware.Translator(c, h.bundle)

	article, err := h.news.Get(c.UserContext(), c.Params("id"), false)
	if errors.Is(err, news.ErrNotFound) {
		return fiber.ErrNotFound
	}
	if err != nil {
		return err
	}

	data := h.view(c, t.Text(article.Title))
	data["Article"] = article
	return c.Render("article", data, mainLayout)
}

// ErrorPage renders the localized error page for the error handler
func (h *Handlers) ErrorPage(c *fiber.Ctx, code int) error {
	t := middleware.Translator(c, h.bundle)

	title, text := t.T("Errors.serverTitle"), t.T("Errors.serverText")
	if code == fiber.StatusNotFound {
		title, text = t.T("Errors.notFoundTitle"), t.T("Errors.notFoundText")
	}

	data := h.view(c, title)
	data["Code"] = code
	data["Status"] = http.StatusText(code)
	data["Message"] = text
	return c.Render("error", data, mainLayout)
}
