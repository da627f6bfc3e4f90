package api

import (
	"crypto/subtle"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ona-rest/ona/internal/cache"
	"github.com/ona-rest/ona/internal/config"
	"github.com/ona-rest/ona/internal/logger"
	"github.com/ona-rest/ona/internal/media"
	"github.com/ona-rest/ona/internal/middleware"
	"github.com/ona-rest/ona/internal/models"
	"github.com/ona-rest/ona/internal/news"
)

type Handlers struct {
	config    *config.Config
	news      *news.Service
	cache     cache.Store
	session   middleware.Session
	validator *middleware.Validator
	started   time.Time
}

func NewHandlers(cfg *config.Config, svc *news.Service, c cache.Store) *Handlers {
	return &Handlers{
		config: cfg,
		news:   svc,
		cache:  c,
		session: middleware.Session{
			Secret: cfg.AdminSessionSecret,
			MaxAge: cfg.SessionMaxAge,
			Secure: cfg.IsProduction(),
		},
		validator: middleware.NewValidator(),
		started:   time.Now(),
	}
}

// Session is the admin cookie handling shared with the HTML admin pages
func (h *Handlers) Session() middleware.Session {
	return h.session
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// notFoundOr maps store misses to 404 and everything else to 500
func notFoundOr(c *fiber.Ctx, err error, msg string) error {
	if errors.Is(err, news.ErrNotFound) {
		return errorJSON(c, fiber.StatusNotFound, "Not found")
	}
	logger.Get().Error().Err(err).Str("path", c.Path()).Msg(msg)
	return errorJSON(c, fiber.StatusInternalServerError, msg)
}

// validationJSON answers with the same body ValidateBody uses
func validationJSON(c *fiber.Ctx, verr *news.ValidationError) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"error":  "Validation failed",
		"fields": verr.Fields,
	})
}

// HealthCheck handles the /health endpoint
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
		"time":   time.Now().Format(time.RFC3339),
	})
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// CheckAuth handles GET /api/admin/auth
func (h *Handlers) CheckAuth(c *fiber.Ctx) error {
	if !h.session.Valid(c) {
		return errorJSON(c, fiber.StatusUnauthorized, "Not authenticated")
	}
	return c.JSON(fiber.Map{"authenticated": true})
}

// Login handles POST /api/admin/auth
func (h *Handlers) Login(c *fiber.Ctx) error {
	log := logger.Get()
	ctx := c.UserContext()
	ip := c.IP()

	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	failures, err := h.cache.FailedLogins(ctx, ip)
	if err != nil {
		log.Warn().Err(err).Str("ip", ip).Msg("Login throttle read failed")
	}
	if h.config.LoginMaxAttempts > 0 && failures >= int64(h.config.LoginMaxAttempts) {
		log.Warn().Str("ip", ip).Int64("failures", failures).Msg("Login throttled")
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(h.config.LoginWindow.Seconds())))
		return errorJSON(c, fiber.StatusTooManyRequests, "Too many login attempts")
	}

	// evaluate both comparisons so timing does not reveal which one failed
	userOK := equal(req.Username, h.config.AdminUsername)
	passOK := equal(req.Password, h.config.AdminPassword)
	if !userOK || !passOK {
		if _, err := h.cache.RecordFailedLogin(ctx, ip, h.config.LoginWindow); err != nil {
			log.Warn().Err(err).Str("ip", ip).Msg("Login throttle write failed")
		}
		log.Warn().Str("ip", ip).Msg("Invalid admin credentials")
		return errorJSON(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	if err := h.cache.ResetFailedLogins(ctx, ip); err != nil {
		log.Warn().Err(err).Str("ip", ip).Msg("Login throttle reset failed")
	}

	h.session.Issue(c)
	log.Info().Str("ip", ip).Msg("Admin logged in")
	return c.JSON(fiber.Map{"success": true})
}

// Logout handles DELETE /api/admin/auth
func (h *Handlers) Logout(c *fiber.Ctx) error {
	h.session.Clear(c)
	return c.JSON(fiber.Map{"success": true})
}

// ListNews handles GET /api/news. Visitors without a session only ever see published articles.
func (h *Handlers) ListNews(c *fiber.Ctx) error {
	publishedOnly := c.QueryBool("published") || !middleware.IsAdmin(c, h.session)

	articles, err := h.news.List(c.UserContext(), publishedOnly)
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error listing news")
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to list news")
	}
	if articles == nil {
		articles = []models.Article{}
	}
	return c.JSON(articles)
}

// GetNews handles GET /api/news/:id
func (h *Handlers) GetNews(c *fiber.Ctx) error {
	article, err := h.news.Get(c.UserContext(), c.Params("id"), middleware.IsAdmin(c, h.session))
	if err != nil {
		return notFoundOr(c, err, "Failed to get news item")
	}
	return c.JSON(article)
}

// CreateNews handles POST /api/news
func (h *Handlers) CreateNews(c *fiber.Ctx) error {
	in := middleware.Body[models.ArticleInput](c)

	article, err := h.news.Create(c.UserContext(), *in)
	var verr *news.ValidationError
	if errors.As(err, &verr) {
		return validationJSON(c, verr)
	}
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error creating news item")
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create news item")
	}
	return c.Status(fiber.StatusCreated).JSON(article)
}

// UpdateNews handles PUT /api/news/:id
func (h *Handlers) UpdateNews(c *fiber.Ctx) error {
	patch := middleware.Body[models.ArticlePatch](c)

	article, err := h.news.Update(c.UserContext(), c.Params("id"), *patch)
	if errors.Is(err, news.ErrEmptyPatch) {
		return errorJSON(c, fiber.StatusBadRequest, "Nothing to update")
	}
	var verr *news.ValidationError
	if errors.As(err, &verr) {
		return validationJSON(c, verr)
	}
	if err != nil {
		return notFoundOr(c, err, "Failed to update news item")
	}
	return c.JSON(article)
}

// DeleteNews handles DELETE /api/news/:id
func (h *Handlers) DeleteNews(c *fiber.Ctx) error {
	if err := h.news.Delete(c.UserContext(), c.Params("id")); err != nil {
		return notFoundOr(c, err, "Failed to delete news item")
	}
	return c.JSON(fiber.Map{"success": true})
}

// Upload handles POST /api/upload
func (h *Handlers) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "No file provided")
	}
	if header.Size > h.config.MaxFileSize {
		return errorJSON(c, fiber.StatusRequestEntityTooLarge, "File too large")
	}

	file, err := header.Open()
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "No file provided")
	}
	defer file.Close()

	// one byte over the limit is enough to reject
	data, err := io.ReadAll(io.LimitReader(file, h.config.MaxFileSize+1))
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error reading upload")
		return errorJSON(c, fiber.StatusBadRequest, "Failed to read file")
	}

	asset, err := h.news.Upload(c.UserContext(), media.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, h.config.MaxFileSize)

	switch {
	case errors.Is(err, media.ErrEmpty):
		return errorJSON(c, fiber.StatusBadRequest, "No file provided")
	case errors.Is(err, media.ErrTooLarge):
		return errorJSON(c, fiber.StatusRequestEntityTooLarge, "File too large")
	case errors.Is(err, media.ErrNotImage):
		return errorJSON(c, fiber.StatusUnsupportedMediaType, "File must be an image")
	case err != nil:
		logger.Get().Error().Err(err).Str("filename", header.Filename).Msg("Error uploading image")
		return errorJSON(c, fiber.StatusBadGateway, "Upload failed")
	}

	return c.JSON(asset)
}
