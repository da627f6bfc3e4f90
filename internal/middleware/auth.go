package middleware

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ona-rest/ona/internal/logger"
)

// SessionCookie is the name of the admin session cookie
const SessionCookie = "admin_session"

// Session issues and checks the shared-secret admin cookie
type Session struct {
	// Secret is the cookie value that proves a login. Required.
	Secret string

	// MaxAge of the issued cookie. Default: 7 days
	MaxAge time.Duration

	// Secure marks the cookie HTTPS only
	Secure bool
}

// Valid reports whether the request carries the session cookie
func (s Session) Valid(c *fiber.Ctx) bool {
	if s.Secret == "" {
		return false
	}
	value := c.Cookies(SessionCookie)
	return value != "" && subtle.ConstantTimeCompare([]byte(value), []byte(s.Secret)) == 1
}

// Issue sets the session cookie on the response
func (s Session) Issue(c *fiber.Ctx) {
	maxAge := s.MaxAge
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    s.Secret,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Clear expires the session cookie
func (s Session) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// AuthConfig defines the config for the admin session middleware
type AuthConfig struct {
	// Next defines a function to skip middleware.
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Session checks the cookie.
	// Required.
	Session Session

	// ErrorHandler defines a function which is executed for a missing or wrong session.
	// Optional. Default: 401 Unauthorized
	ErrorHandler fiber.ErrorHandler

	// ContextKey is the key used to flag the request as admin.
	// Optional. Default: "admin"
	ContextKey string
}

// ConfigDefault is the default config
var ConfigDefault = AuthConfig{
	Next: nil,
	ErrorHandler: func(c *fiber.Ctx, err error) error {
		logger.Get().Warn().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", c.IP()).
			Err(err).
			Msg("Admin authentication failed")

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	},
	ContextKey: "admin",
}

var errNoSession = errors.New("missing or invalid admin session")

// NewAuth creates the admin session gate
func NewAuth(config AuthConfig) fiber.Handler {
	cfg := config
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = ConfigDefault.ErrorHandler
	}
	if cfg.ContextKey == "" {
		cfg.ContextKey = ConfigDefault.ContextKey
	}

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		if !cfg.Session.Valid(c) {
			return cfg.ErrorHandler(c, errNoSession)
		}

		c.Locals(cfg.ContextKey, true)
		return c.Next()
	}
}

// AdminOnly gates JSON API routes
func AdminOnly(s Session) fiber.Handler {
	return NewAuth(AuthConfig{Session: s})
}

// AdminPage gates HTML admin routes, sending visitors without a session to the login page
func AdminPage(s Session, loginPath string) fiber.Handler {
	return NewAuth(AuthConfig{
		Session: s,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == loginPath
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Redirect(loginPath, fiber.StatusFound)
		},
	})
}

// IsAdmin reports whether an earlier gate marked the request as admin,
// falling back to checking the cookie on routes that are open to everyone.
func IsAdmin(c *fiber.Ctx, s Session) bool {
	if ok, _ := c.Locals(ConfigDefault.ContextKey).(bool); ok {
		return true
	}
	return s.Valid(c)
}
