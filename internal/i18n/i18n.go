package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/ona-rest/ona/internal/models"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Catalog holds the flattened messages of one locale. Keys are "Namespace.key".
type Catalog struct {
	Locale   string
	Messages map[string]string
	Lists    map[string][]string
}

type catalogFile struct {
	Locale   string                         `yaml:"locale"`
	Messages map[string]map[string]string   `yaml:"messages"`
	Lists    map[string]map[string][]string `yaml:"lists"`
}

func parseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if file.Locale == "" {
		return nil, fmt.Errorf("catalog has no locale")
	}

	c := &Catalog{
		Locale:   file.Locale,
		Messages: make(map[string]string),
		Lists:    make(map[string][]string),
	}
	for ns, entries := range file.Messages {
		for key, value := range entries {
			c.Messages[ns+"."+key] = value
		}
	}
	for ns, entries := range file.Lists {
		for key, values := range entries {
			c.Lists[ns+"."+key] = values
		}
	}
	return c, nil
}

// Keys returns the sorted message keys
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.Messages))
	for k := range c.Messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Bundle is the set of catalogs the site is served in
type Bundle struct {
	catalogs map[string]*Catalog
	fallback string
	matcher  language.Matcher
	tags     []string
}

// Load reads every locales/*.yaml catalog from fsys
func Load(fsys fs.FS, fallback string) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, err
	}

	b := &Bundle{catalogs: make(map[string]*Catalog), fallback: fallback}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		c, err := parseCatalog(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", p, err)
		}
		b.catalogs[c.Locale] = c
	}
	if _, ok := b.catalogs[fallback]; !ok {
		return nil, fmt.Errorf("no catalog for fallback locale %q", fallback)
	}

	// the fallback goes first so the matcher prefers it on a tie
	b.tags = []string{fallback}
	for locale := range b.catalogs {
		if locale != fallback {
			b.tags = append(b.tags, locale)
		}
	}
	sort.Strings(b.tags[1:])

	supported := make([]language.Tag, 0, len(b.tags))
	for _, t := range b.tags {
		supported = append(supported, language.Make(t))
	}
	b.matcher = language.NewMatcher(supported)
	return b, nil
}

// Default loads the catalogs compiled into the binary
func Default(fallback string) (*Bundle, error) {
	return Load(localeFS, fallback)
}

// MustDefault is Default for callers that cannot recover from a broken build
func MustDefault(fallback string) *Bundle {
	b, err := Default(fallback)
	if err != nil {
		panic(err)
	}
	return b
}

// Locales lists the served locales, fallback first
func (b *Bundle) Locales() []string {
	return append([]string(nil), b.tags...)
}

// Fallback is the locale used when nothing else matches
func (b *Bundle) Fallback() string {
	return b.fallback
}

// Supports reports whether locale has a catalog
func (b *Bundle) Supports(locale string) bool {
	_, ok := b.catalogs[locale]
	return ok
}

// Catalog returns the catalog for locale, or nil
func (b *Bundle) Catalog(locale string) *Catalog {
	return b.catalogs[locale]
}

// Negotiate picks a locale. A supported cookie value wins over the Accept-Language header.
func (b *Bundle) Negotiate(cookie, acceptLanguage string) string {
	if b.Supports(cookie) {
		return cookie
	}
	if strings.TrimSpace(acceptLanguage) == "" {
		return b.fallback
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return b.fallback
	}
	_, index, confidence := b.matcher.Match(tags...)
	if confidence == language.No {
		return b.fallback
	}
	return b.tags[index]
}

// Translator returns a Translator for locale, using the fallback for unknown locales
func (b *Bundle) Translator(locale string) *Translator {
	c, ok := b.catalogs[locale]
	if !ok {
		c = b.catalogs[b.fallback]
	}
	return &Translator{catalog: c, fallback: b.catalogs[b.fallback], bundle: b}
}

// Translator resolves keys for one locale
type Translator struct {
	catalog  *Catalog
	fallback *Catalog
	bundle   *Bundle
}

// Locale is the locale the translator serves
func (t *Translator) Locale() string {
	return t.catalog.Locale
}

// T looks key up in the locale, then in the fallback locale. A missing key renders as itself.
func (t *Translator) T(key string) string {
	if v, ok := t.catalog.Messages[key]; ok {
		return v
	}
	if v, ok := t.fallback.Messages[key]; ok {
		return v
	}
	return key
}

// List looks up a list message the same way T does
func (t *Translator) List(key string) []string {
	if v, ok := t.catalog.Lists[key]; ok {
		return v
	}
	return t.fallback.Lists[key]
}

// Text picks the side of a bilingual field that matches the translator locale
func (t *Translator) Text(lt models.LocalizedText) string {
	return lt.Get(t.catalog.Locale)
}

// Alternate is the first other served locale, used by the language switch
func (t *Translator) Alternate() string {
	for _, l := range t.bundle.tags {
		if l != t.catalog.Locale {
			return l
		}
	}
	return t.catalog.Locale
}
