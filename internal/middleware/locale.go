package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ona-rest/ona/internal/i18n"
)

// LocaleCookie remembers the last locale a visitor browsed in
const LocaleCookie = "NEXT_LOCALE"

const (
	localeKey     = "locale"
	translatorKey = "t"
)

// Locale validates the :locale route param and stores its translator.
// Unknown locales are a 404.
func Locale(bundle *i18n.Bundle, secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		locale := c.Params("locale")
		if !bundle.Supports(locale) {
			return fiber.ErrNotFound
		}

		if c.Cookies(LocaleCookie) != locale {
			c.Cookie(&fiber.Cookie{
				Name:     LocaleCookie,
				Value:    locale,
				Path:     "/",
				MaxAge:   int((365 * 24 * time.Hour).Seconds()),
				Secure:   secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		c.Locals(localeKey, locale)
		c.Locals(translatorKey, bundle.Translator(locale))
		return c.Next()
	}
}

// Translator returns the translator stored by Locale, or one negotiated from the request
func Translator(c *fiber.Ctx, bundle *i18n.Bundle) *i18n.Translator {
	if t, ok := c.Locals(translatorKey).(*i18n.Translator); ok {
		return t
	}
	return bundle.Translator(bundle.Negotiate(c.Cookies(LocaleCookie), c.Get(fiber.HeaderAcceptLanguage)))
}
