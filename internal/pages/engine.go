// Package pages renders the localized public site and the admin panel.
package pages

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/template/html/v2"

	"github.com/ona-rest/ona/internal/carousel"
	"github.com/ona-rest/ona/internal/content"
	"github.com/ona-rest/ona/internal/i18n"
	"github.com/ona-rest/ona/internal/models"
)

//go:embed views
var viewsFS embed.FS

//go:embed static
var staticFS embed.FS

// Static is the /static asset tree
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// NewEngine builds the view engine over the embedded templates
func NewEngine() *html.Engine {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		panic(err)
	}

	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFuncMap(funcs())
	return engine
}

// newsCard is the binding of the news card partial
type newsCard struct {
	Article  models.Article
	Locale   string
	ReadMore string
	Featured bool
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"reveal": func(delay ...float64) template.HTMLAttr {
			r := carousel.DefaultReveal()
			if len(delay) > 0 {
				r = r.WithDelay(delay[0])
			}
			return r.Attrs()
		},
		"letters": func() template.HTMLAttr {
			return carousel.DefaultLetters().Attrs()
		},
		"split": carousel.SplitLetters,
		"parallax": func(section string, i int) template.HTMLAttr {
			speeds := carousel.NewsSpeeds
			if section == "heritage" {
				speeds = carousel.HeritageSpeeds
			}
			return carousel.ParallaxAttr(speeds, i)
		},
		"date": func(t time.Time, locale string) string {
			return i18n.FormatDate(t, locale)
		},
		"isoDate": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"text": func(lt models.LocalizedText, locale string) string {
			return lt.Get(locale)
		},
		"paragraphs": content.Paragraphs,
		"truncate":   content.Truncate,
		"path": func(locale string, parts ...string) string {
			p := "/" + locale
			for _, part := range parts {
				if part = strings.Trim(part, "/"); part != "" {
					p += "/" + part
				}
			}
			return p
		},
		"seq": func(n int) []int {
			s := make([]int, n)
			for i := range s {
				s[i] = i
			}
			return s
		},
		"inc": func(i int) int { return i + 1 },
		"card": func(a models.Article, locale, readMore string, featured bool) newsCard {
			return newsCard{Article: a, Locale: locale, ReadMore: readMore, Featured: featured}
		},
	}
}
