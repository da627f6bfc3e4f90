package pages

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ona-rest/ona/internal/cache"
	"github.com/ona-rest/ona/internal/i18n"
	"github.com/ona-rest/ona/internal/logger"
	"github.com/ona-rest/ona/internal/media"
	"github.com/ona-rest/ona/internal/middleware"
	"github.com/ona-rest/ona/internal/models"
	"github.com/ona-rest/ona/internal/news"
	"github.com/ona-rest/ona/internal/storage"
)

const secret = "s3cret"

type nopHost struct{}

func (nopHost) Upload(context.Context, media.Upload) (*media.Asset, error) { return &media.Asset{}, nil }
func (nopHost) Delete(context.Context, string) error                      { return nil }

func newTestApp(t *testing.T) (*fiber.App, *news.Service) {
	t.Helper()
	svc := news.NewService(storage.NewMemoryStore(), cache.NewMemoryClient(), nopHost{}, time.Minute)
	h := NewHandlers(svc, i18n.MustDefault("bg"), middleware.Session{Secret: secret})

	app := fiber.New(fiber.Config{
		Views:        NewEngine(),
		ErrorHandler: middleware.NewErrorHandler(h.ErrorPage),
	})
	SetupRoutes(app, h)
	return app, svc
}

func get(t *testing.T, app *fiber.App, path string, mods ...func(*http.Request)) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, m := range mods {
		m(req)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func withAdmin(r *http.Request) {
	r.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: secret})
}

func article(title string) models.ArticleInput {
	return models.ArticleInput{
		Title:   models.LocalizedText{BG: title + " БГ", EN: title},
		Excerpt: models.LocalizedText{BG: "Кратко", EN: "Short"},
		Content: models.LocalizedText{BG: "Първи абзац.\n\nВтори абзац.", EN: "First paragraph.\n\nSecond paragraph."},
	}
}

func TestRootRedirectsToNegotiatedLocale(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := get(t, app, "/", func(r *http.Request) { r.Header.Set("Accept-Language", "en-GB,en;q=0.9") })
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/en", resp.Header.Get(fiber.HeaderLocation))

	resp, _ = get(t, app, "/", func(r *http.Request) {
		r.Header.Set("Accept-Language", "en")
		r.AddCookie(&http.Cookie{Name: middleware.LocaleCookie, Value: "bg"})
	})
	assert.Equal(t, "/bg", resp.Header.Get(fiber.HeaderLocation))
}

func TestHome(t *testing.T) {
	app, svc := newTestApp(t)

	resp, body := get(t, app, "/en")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<html lang="en">`)
	assert.Contains(t, body, "No news articles yet.")
	assert.Contains(t, body, `data-role="main"`)
	assert.Contains(t, body, `data-role="peek"`)
	assert.Contains(t, body, `data-offset="0"`)
	assert.Contains(t, body, `data-parallax="-20"`)
	assert.Contains(t, body, "&#34;settle&#34;", "transitions are precomputed for the script")
	assert.Contains(t, body, `href="/bg"`, "language switch")

	published := true
	in := article("Autumn")
	in.Published = &published
	_, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	_, body = get(t, app, "/bg")
	assert.Contains(t, body, "Autumn БГ")
	assert.NotContains(t, body, "Няма новини все още.")
}

func TestUnknownLocaleIsNotFound(t *testing.T) {
	app, _ := newTestApp(t)
	resp, body := get(t, app, "/de/about")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Страницата не е намерена")
}

func TestStaticPages(t *testing.T) {
	app, _ := newTestApp(t)

	for path, want := range map[string]string{
		"/en/about":   "About ONA",
		"/bg/contact": "Контакти",
		"/en/book":    "21:00",
		"/en/voucher": "400 лв.",
	} {
		resp, body := get(t, app, path)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		assert.Contains(t, body, want, path)
	}
}

func TestNewsPagesShowOnlyPublished(t *testing.T) {
	app, svc := newTestApp(t)
	ctx := context.Background()

	draft, err := svc.Create(ctx, article("Secret draft"))
	require.NoError(t, err)

	first, err := svc.Create(ctx, article("Older"))
	require.NoError(t, err)
	_, err = svc.SetPublished(ctx, first.ID, true)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	second, err := svc.Create(ctx, article("Newer"))
	require.NoError(t, err)
	_, err = svc.SetPublished(ctx, second.ID, true)
	require.NoError(t, err)

	_, body := get(t, app, "/en/news")
	assert.NotContains(t, body, "Secret draft")
	assert.Contains(t, body, "news-card--featured")
	assert.Less(t, strings.Index(body, "Newer"), strings.Index(body, "Older"), "newest first")

	resp, body := get(t, app, "/en/news/"+second.ID)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<p>First paragraph.</p><p>Second paragraph.</p>")

	resp, body = get(t, app, "/en/news/"+draft.ID)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Page not found")
}

func TestBookingForm(t *testing.T) {
	app, _ := newTestApp(t)

	var logs bytes.Buffer
	restore := logger.Replace(zerolog.New(&logs))
	defer restore()

	resp, body := postForm(t, app, "/en/book", url.Values{"date": {"tomorrow"}, "time": {"03:00"}})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Choose a valid date.")
	assert.Contains(t, body, "This field is required.")

	resp, body = postForm(t, app, "/en/book", url.Values{
		"date":   {"2026-12-31"},
		"time":   {"19:30"},
		"guests": {"2 guests"},
		"name":   {"Maria"},
		"phone":  {"+359 88 000 0000"},
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "We will confirm your booking by phone.")

	assert.Contains(t, logs.String(), "Booking request received")
	assert.Contains(t, logs.String(), `"locale":"en"`)
	assert.NotContains(t, logs.String(), "Maria")
	assert.NotContains(t, logs.String(), "+359")
}

func TestContactForm(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := postForm(t, app, "/bg/contact", url.Values{"name": {"Иван"}, "email": {"nope"}, "message": {"Здравейте"}})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Въведете валиден имейл адрес.")
	assert.Contains(t, body, `value="Иван"`, "input is kept")

	resp, body = postForm(t, app, "/bg/contact", url.Values{"name": {"Иван"}, "email": {"ivan@example.com"}, "message": {"Здравейте"}})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Благодарим! Ще ви отговорим скоро.")
}

func TestAdminPages(t *testing.T) {
	app, svc := newTestApp(t)
	draft, err := svc.Create(context.Background(), article("Draft one"))
	require.NoError(t, err)

	resp, _ := get(t, app, "/admin/news")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get(fiber.HeaderLocation))

	resp, body := get(t, app, "/admin/login")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "data-login")

	resp, _ = get(t, app, "/admin/login", withAdmin)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode, "logged in admins skip the form")

	resp, body = get(t, app, "/admin/news", withAdmin)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Draft one")
	assert.Contains(t, body, "badge--draft")

	resp, body = get(t, app, "/admin/news/"+draft.ID, withAdmin)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `data-id="`+draft.ID+`"`)

	resp, body = get(t, app, "/admin/news/new", withAdmin)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `data-new="true"`)

	resp, _ = get(t, app, "/admin/news/000000000000000000000000", withAdmin)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestStaticAssets(t *testing.T) {
	app, _ := newTestApp(t)

	for _, path := range []string{"/static/js/app.js", "/static/js/admin.js", "/static/css/site.css", "/static/img/course-1.svg"} {
		resp, _ := get(t, app, path)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
	}
}
