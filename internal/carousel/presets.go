package carousel

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"
)

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Reveal fades and lifts the children of an element into view on scroll
type Reveal struct {
	Y        float64
	Duration float64
	Stagger  float64
	Start    string
	Delay    float64
}

func DefaultReveal() Reveal {
	return Reveal{Y: 60, Duration: 0.7, Stagger: 0.2, Start: "top 85%"}
}

// WithDelay returns a copy starting delay seconds later
func (r Reveal) WithDelay(delay float64) Reveal {
	r.Delay = delay
	return r
}

// Attrs renders the preset as data attributes for the page script
func (r Reveal) Attrs() template.HTMLAttr {
	return template.HTMLAttr(fmt.Sprintf(
		`data-reveal data-reveal-y="%s" data-reveal-duration="%s" data-reveal-stagger="%s" data-reveal-start="%s" data-reveal-delay="%s"`,
		num(r.Y), num(r.Duration), num(r.Stagger), template.HTMLEscapeString(r.Start), num(r.Delay)))
}

// Letters animates a heading one letter at a time
type Letters struct {
	Duration float64
	Stagger  float64
	Start    string
	Delay    float64
}

func DefaultLetters() Letters {
	return Letters{Duration: 0.4, Stagger: 0.03, Start: "top 85%"}
}

func (l Letters) Attrs() template.HTMLAttr {
	return template.HTMLAttr(fmt.Sprintf(
		`data-letters data-letters-duration="%s" data-letters-stagger="%s" data-letters-start="%s" data-letters-delay="%s"`,
		num(l.Duration), num(l.Stagger), template.HTMLEscapeString(l.Start), num(l.Delay)))
}

// SplitLetters wraps every rune of text in a span. Spaces become non-breaking so the spans keep their width.
func SplitLetters(text string) template.HTML {
	var b strings.Builder
	for _, r := range text {
		b.WriteString(`<span class="letter">`)
		if r == ' ' {
			b.WriteString("&nbsp;")
		} else {
			b.WriteString(template.HTMLEscapeString(string(r)))
		}
		b.WriteString(`</span>`)
	}
	return template.HTML(b.String())
}

// Parallax speeds in pixels of travel per scroll of the section, one per image
var (
	HeritageSpeeds = []float64{-20, 25, -15}
	NewsSpeeds     = []float64{-25, 18, -30, 15, -22, 28}
)

// Speed picks speeds[i] cyclically
func Speed(speeds []float64, i int) float64 {
	if len(speeds) == 0 {
		return 0
	}
	return speeds[i%len(speeds)]
}

// ParallaxAttr renders the speed for image i
func ParallaxAttr(speeds []float64, i int) template.HTMLAttr {
	return template.HTMLAttr(fmt.Sprintf(`data-parallax="%s"`, num(Speed(speeds, i))))
}
