package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/ona-rest/ona/internal/logger"
)

// bodyKey is where ValidateBody stores the parsed body
const bodyKey = "body"

// FieldErrors maps a field path such as "title.en" to the failed rule
type FieldErrors map[string]string

// Validator is a struct that holds the validator instance
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports fields by their json or form names
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return &Validator{validate: v}
}

// Validate validates the struct
func (v *Validator) Validate(s any) error {
	return v.validate.Struct(s)
}

// Fields validates s and returns the failures, or nil when s is valid
func (v *Validator) Fields(s any) FieldErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"": err.Error()}
	}

	fields := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		// drop the root struct name
		path := fe.Namespace()
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}
		fields[path] = fe.Tag()
	}
	return fields
}

// ValidateBody parses the request body into a fresh T per request and validates it.
// Handlers read the result with Body.
func ValidateBody[T any](v *Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := new(T)
		if err := c.BodyParser(body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
				"msg":   err.Error(),
			})
		}

		if fields := v.Fields(body); fields != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "Validation failed",
				"fields": fields,
			})
		}

		c.Locals(bodyKey, body)
		return c.Next()
	}
}

// Body returns the value stored by ValidateBody
func Body[T any](c *fiber.Ctx) *T {
	body, _ := c.Locals(bodyKey).(*T)
	return body
}

// ErrorPage renders an HTML error page for status code
type ErrorPage func(c *fiber.Ctx, code int) error

// NewErrorHandler answers /api requests with JSON and everything else with the error page
func NewErrorHandler(page ErrorPage) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		event := logger.Get().Error()
		if code < fiber.StatusInternalServerError {
			event = logger.Get().Debug()
		}
		event.
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", code).
			Msg("HTTP error")

		if strings.HasPrefix(c.Path(), "/api/") || page == nil {
			return c.Status(code).JSON(fiber.Map{
				"error": http.StatusText(code),
			})
		}

		c.Status(code)
		if rerr := page(c, code); rerr != nil {
			logger.Get().Error().Err(rerr).Msg("Failed to render error page")
			return c.Status(code).SendString(http.StatusText(code))
		}
		return nil
	}
}
