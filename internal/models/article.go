package models

import (
	"strings"
	"time"
)

// Supported locales
const (
	LocaleBG = "bg"
	LocaleEN = "en"
)

// Locales lists every locale a localized field must carry
var Locales = []string{LocaleBG, LocaleEN}

// LocalizedText holds one string per supported locale
type LocalizedText struct {
	BG string `json:"bg" bson:"bg" validate:"required"`
	EN string `json:"en" bson:"en" validate:"required"`
}

// Get returns the variant for locale, falling back to the other locale when empty.
func (t LocalizedText) Get(locale string) string {
	primary, fallback := t.BG, t.EN
	if locale == LocaleEN {
		primary, fallback = t.EN, t.BG
	}
	if strings.TrimSpace(primary) != "" {
		return primary
	}
	return fallback
}

// Complete reports whether both locale variants are non-blank.
func (t LocalizedText) Complete() bool {
	return strings.TrimSpace(t.BG) != "" && strings.TrimSpace(t.EN) != ""
}

// Article is a news article managed from the admin panel
type Article struct {
	ID            string        `json:"_id"`
	Title         LocalizedText `json:"title"`
	Excerpt       LocalizedText `json:"excerpt"`
	Content       LocalizedText `json:"content"`
	Image         string        `json:"image"`
	ImagePublicID string        `json:"imagePublicId"`
	Published     bool          `json:"published"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// ArticleInput is the body accepted when creating an article
type ArticleInput struct {
	Title         LocalizedText `json:"title"`
	Excerpt       LocalizedText `json:"excerpt"`
	Content       LocalizedText `json:"content"`
	Image         string        `json:"image" validate:"omitempty,url"`
	ImagePublicID string        `json:"imagePublicId"`
	Published     *bool         `json:"published"`
}

// NewArticle builds a draft article from the input. Published defaults to false.
func (in ArticleInput) NewArticle() *Article {
	a := &Article{
		Title:         in.Title,
		Excerpt:       in.Excerpt,
		Content:       in.Content,
		Image:         in.Image,
		ImagePublicID: in.ImagePublicID,
	}
	if in.Published != nil {
		a.Published = *in.Published
	}
	return a
}

// ArticlePatch is the body accepted when editing an article. Absent fields are left untouched.
type ArticlePatch struct {
	Title         *LocalizedText `json:"title" validate:"omitempty"`
	Excerpt       *LocalizedText `json:"excerpt" validate:"omitempty"`
	Content       *LocalizedText `json:"content" validate:"omitempty"`
	Image         *string        `json:"image" validate:"omitempty,url"`
	ImagePublicID *string        `json:"imagePublicId"`
	Published     *bool          `json:"published"`
}

// Empty reports whether the patch changes nothing.
func (p ArticlePatch) Empty() bool {
	return p.Title == nil && p.Excerpt == nil && p.Content == nil &&
		p.Image == nil && p.ImagePublicID == nil && p.Published == nil
}

// Apply mutates a in place with every field present in the patch.
func (p ArticlePatch) Apply(a *Article) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Excerpt != nil {
		a.Excerpt = *p.Excerpt
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.Image != nil {
		a.Image = *p.Image
	}
	if p.ImagePublicID != nil {
		a.ImagePublicID = *p.ImagePublicID
	}
	if p.Published != nil {
		a.Published = *p.Published
	}
}
