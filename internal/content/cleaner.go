package content

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/ona-rest/ona/internal/models"
)

var (
	controlChars = regexp.MustCompile(`[\x00-\x08\x0B-\x1F\x7F]`)
	blankLines   = regexp.MustCompile(`\n{3,}`)
)

// Cleaner strips markup and normalizes whitespace in article text.
// Article text is stored as plain text and escaped by the templates on output.
type Cleaner struct {
	policy *bluemonday.Policy
}

func NewCleaner() *Cleaner {
	return &Cleaner{policy: bluemonday.StrictPolicy()}
}

func (c *Cleaner) strip(s string) string {
	s = c.policy.Sanitize(s)
	return html.UnescapeString(s)
}

// Line cleans single-line text such as titles and excerpts
func (c *Cleaner) Line(s string) string {
	s = c.strip(s)
	s = controlChars.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// Body cleans multi-paragraph text, keeping paragraph breaks
func (c *Cleaner) Body(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = c.strip(s)
	s = controlChars.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	s = strings.Join(lines, "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func (c *Cleaner) line(t models.LocalizedText) models.LocalizedText {
	return models.LocalizedText{BG: c.Line(t.BG), EN: c.Line(t.EN)}
}

func (c *Cleaner) body(t models.LocalizedText) models.LocalizedText {
	return models.LocalizedText{BG: c.Body(t.BG), EN: c.Body(t.EN)}
}

// Input cleans every localized field of a create body
func (c *Cleaner) Input(in *models.ArticleInput) {
	in.Title = c.line(in.Title)
	in.Excerpt = c.line(in.Excerpt)
	in.Content = c.body(in.Content)
	in.Image = strings.TrimSpace(in.Image)
	in.ImagePublicID = strings.TrimSpace(in.ImagePublicID)
}

// Patch cleans the localized fields present in an edit body
func (c *Cleaner) Patch(p *models.ArticlePatch) {
	if p.Title != nil {
		t := c.line(*p.Title)
		p.Title = &t
	}
	if p.Excerpt != nil {
		t := c.line(*p.Excerpt)
		p.Excerpt = &t
	}
	if p.Content != nil {
		t := c.body(*p.Content)
		p.Content = &t
	}
	if p.Image != nil {
		s := strings.TrimSpace(*p.Image)
		p.Image = &s
	}
	if p.ImagePublicID != nil {
		s := strings.TrimSpace(*p.ImagePublicID)
		p.ImagePublicID = &s
	}
}

// Paragraphs splits body text on blank lines
func Paragraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Truncate shortens s to at most max runes, cutting on a word boundary and appending an ellipsis
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}

	runes := []rune(s)
	cut := string(runes[:max-1])
	if i := strings.LastIndexAny(cut, " \n\t"); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:-") + "…"
}
