// Package carousel holds the slide and card-stack state machines behind the
// home page sections. The server renders the initial layout from it and
// precomputes every transition for the browser script to replay.
package carousel

import (
	"errors"
	"fmt"
)

var (
	// ErrAnimating is returned when a transition is requested before the previous one completed
	ErrAnimating = errors.New("transition in progress")
	// ErrTooFew is returned for sequences that cannot cycle
	ErrTooFew = errors.New("at least two items are required")
)

// Role is the position a slide holds in the gallery
type Role string

const (
	RoleMain   Role = "main"
	RolePeek   Role = "peek"
	RoleHidden Role = "hidden"
)

// Layout places a slide. Left and Width are percentages of the track.
type Layout struct {
	Left    float64 `json:"left"`
	Width   float64 `json:"width"`
	Z       int     `json:"zIndex"`
	Opacity float64 `json:"opacity"`
}

// Style renders the layout as an inline CSS declaration
func (l Layout) Style() string {
	return fmt.Sprintf("left:%s%%;width:%s%%;z-index:%d;opacity:%s",
		num(l.Left), num(l.Width), l.Z, num(l.Opacity))
}

var (
	mainLayout   = Layout{Left: 0, Width: 62, Z: 2, Opacity: 1}
	peekLayout   = Layout{Left: 64, Width: 38, Z: 1, Opacity: 1}
	hiddenLayout = Layout{Left: 110, Width: 38, Z: 0, Opacity: 0}
	exitLayout   = Layout{Left: -62, Width: 62, Z: 2, Opacity: 0}
	// the incoming peek starts off-screen but visible so it slides in
	enterLayout = Layout{Left: 110, Width: 38, Z: 1, Opacity: 1}
)

const (
	GalleryDuration = 0.7
	GalleryEase     = "power2.inOut"
)

// Tween moves one item between two layouts
type Tween struct {
	Index    int     `json:"index"`
	From     Layout  `json:"from"`
	To       Layout  `json:"to"`
	Duration float64 `json:"duration"`
	Ease     string  `json:"ease"`
}

// Placement snaps one item to a layout without animating
type Placement struct {
	Index  int    `json:"index"`
	Layout Layout `json:"layout"`
}

// Transition is everything that moves during one Advance.
// Settle is applied once the tweens finish.
type Transition struct {
	From   int         `json:"from"`
	To     int         `json:"to"`
	Tweens []Tween     `json:"tweens"`
	Settle []Placement `json:"settle"`
}

// Gallery is the courses slideshow: one main slide, the next one peeking, the rest hidden
type Gallery struct {
	n         int
	current   int
	animating bool
}

func NewGallery(n int) (*Gallery, error) {
	if n < 2 {
		return nil, ErrTooFew
	}
	return &Gallery{n: n}, nil
}

func (g *Gallery) Len() int        { return g.n }
func (g *Gallery) Current() int    { return g.current }
func (g *Gallery) Animating() bool { return g.animating }

func (g *Gallery) next(i int) int {
	return (i + 1) % g.n
}

// Role of slide i for the current index
func (g *Gallery) Role(i int) Role {
	switch i {
	case g.current:
		return RoleMain
	case g.next(g.current):
		return RolePeek
	default:
		return RoleHidden
	}
}

// Layout of slide i for the current index
func (g *Gallery) Layout(i int) Layout {
	return RoleLayout(g.Role(i))
}

// RoleLayout is the resting layout of a role
func RoleLayout(r Role) Layout {
	switch r {
	case RoleMain:
		return mainLayout
	case RolePeek:
		return peekLayout
	default:
		return hiddenLayout
	}
}

// Advance starts the transition to the next slide. The index only moves on Complete.
func (g *Gallery) Advance() (*Transition, error) {
	if g.animating {
		return nil, ErrAnimating
	}
	g.animating = true

	out := g.current
	in := g.next(out)
	peek := g.next(in)

	t := &Transition{From: out, To: in}
	if peek == out {
		// two slides: the outgoing one becomes the peek directly
		t.Tweens = append(t.Tweens, g.tween(out, mainLayout, peekLayout))
	} else {
		t.Tweens = append(t.Tweens,
			g.tween(out, mainLayout, exitLayout),
			g.tween(peek, enterLayout, peekLayout),
		)
		t.Settle = append(t.Settle, Placement{Index: out, Layout: hiddenLayout})
	}
	t.Tweens = append(t.Tweens, g.tween(in, peekLayout, mainLayout))
	return t, nil
}

func (g *Gallery) tween(i int, from, to Layout) Tween {
	return Tween{Index: i, From: from, To: to, Duration: GalleryDuration, Ease: GalleryEase}
}

// Complete commits the running transition
func (g *Gallery) Complete() {
	if !g.animating {
		return
	}
	g.current = g.next(g.current)
	g.animating = false
}
