package pages

import (
	"slices"

	"github.com/gofiber/fiber/v2"

	"github.com/ona-rest/ona/internal/i18n"
	"github.com/ona-rest/ona/internal/logger"
	"github.com/ona-rest/ona/internal/middleware"
)

// BookingForm is a table reservation request
type BookingForm struct {
	Date   string `form:"date" validate:"required,datetime=2006-01-02"`
	Time   string `form:"time" validate:"required"`
	Guests string `form:"guests" validate:"required"`
	Name   string `form:"name" validate:"required,max=120"`
	Phone  string `form:"phone" validate:"required,max=40"`
	Email  string `form:"email" validate:"omitempty,email"`
	Notes  string `form:"notes" validate:"max=2000"`
}

// ContactForm is a message from the contact page
type ContactForm struct {
	Name    string `form:"name" validate:"required,max=120"`
	Email   string `form:"email" validate:"required,email"`
	Subject string `form:"subject" validate:"max=200"`
	Message string `form:"message" validate:"required,max=5000"`
}

// fieldMessages turns validator rules into catalog messages
func fieldMessages(t *i18n.Translator, fields middleware.FieldErrors) map[string]string {
	out := make(map[string]string, len(fields))
	for field, rule := range fields {
		switch rule {
		case "email":
			out[field] = t.T("Forms.email")
		case "datetime":
			out[field] = t.T("Forms.date")
		default:
			out[field] = t.T("Forms.required")
		}
	}
	return out
}

func (h *Handlers) renderBook(c *fiber.Ctx, form BookingForm, errs map[string]string, sent bool) error {
	t := middleware.Translator(c, h.bundle)

	data := h.view(c, t.T("BookPage.heroTitle"))
	data["TimeSlots"] = t.List("BookPage.timeSlots")
	data["GuestOptions"] = t.List("BookPage.guestOptions")
	data["Info"] = numbered(t, "BookPage.info", 3)
	data["Form"] = form
	data["Errors"] = errs
	data["Sent"] = sent
	return c.Render("book", data, mainLayout)
}

// Book renders the reservation page
func (h *Handlers) Book(c *fiber.Ctx) error {
	return h.renderBook(c, BookingForm{}, nil, false)
}

// SubmitBook validates a reservation request and logs it for the front of house
func (h *Handlers) SubmitBook(c *fiber.Ctx) error {
	t := middleware.Translator(c, h.bundle)

	var form BookingForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}

	fields := h.validator.Fields(form)
	if fields == nil {
		fields = middleware.FieldErrors{}
	}
	if _, bad := fields["time"]; !bad && !slices.Contains(t.List("BookPage.timeSlots"), form.Time) {
		fields["time"] = "oneof"
	}
	if _, bad := fields["guests"]; !bad && !slices.Contains(t.List("BookPage.guestOptions"), form.Guests) {
		fields["guests"] = "oneof"
	}
	if len(fields) > 0 {
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderBook(c, form, fieldMessages(t, fields), false)
	}

	// guest details stay out of the logs
	logger.Get().Info().
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Str("date", form.Date).
		Str("time", form.Time).
		Str("guests", form.Guests).
		Bool("has_email", form.Email != "").
		Str("locale", t.Locale()).
		Msg("Booking request received")

	return h.renderBook(c, BookingForm{}, nil, true)
}

func (h *Handlers) renderContact(c *fiber.Ctx, form ContactForm, errs map[string]string, sent bool) error {
	t := middleware.Translator(c, h.bundle)

	data := h.view(c, t.T("ContactPage.heroTitle"))
	data["Form"] = form
	data["Errors"] = errs
	data["Sent"] = sent
	return c.Render("contact", data, mainLayout)
}

// Contact renders the contact page
func (h *Handlers) Contact(c *fiber.Ctx) error {
	return h.renderContact(c, ContactForm{}, nil, false)
}

// SubmitContact validates a message and logs it
func (h *Handlers) SubmitContact(c *fiber.Ctx) error {
	t := middleware.Translator(c, h.bundle)

	var form ContactForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}

	if fields := h.validator.Fields(form); fields != nil {
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderContact(c, form, fieldMessages(t, fields), false)
	}

	logger.Get().Info().
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Int("subject_length", len(form.Subject)).
		Int("message_length", len(form.Message)).
		Str("locale", t.Locale()).
		Msg("Contact message received")

	return h.renderContact(c, ContactForm{}, nil, true)
}
