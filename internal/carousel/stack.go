package carousel

import "fmt"

// CardLayout places a card in the stack. X and Y are pixels, Rotation degrees.
type CardLayout struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Z        int     `json:"zIndex"`
	Opacity  float64 `json:"opacity"`
	Scale    float64 `json:"scale"`
}

func (l CardLayout) Style() string {
	return fmt.Sprintf("transform:translate(%spx,%spx) rotate(%sdeg) scale(%s);z-index:%d;opacity:%s",
		num(l.X), num(l.Y), num(l.Rotation), num(l.Scale), l.Z, num(l.Opacity))
}

var swipeOutLayout = CardLayout{X: -600, Y: -100, Rotation: -15, Opacity: 0, Scale: 1}

const (
	SwipeDuration    = 0.6
	SwipeEase        = "power2.inOut"
	FollowerDuration = 0.5
	FollowerEase     = "power2.out"
)

// CardTween moves one card between two layouts
type CardTween struct {
	Index    int        `json:"index"`
	From     CardLayout `json:"from"`
	To       CardLayout `json:"to"`
	Duration float64    `json:"duration"`
	Ease     string     `json:"ease"`
}

// CardPlacement snaps one card to a layout without animating
type CardPlacement struct {
	Index  int        `json:"index"`
	Layout CardLayout `json:"layout"`
}

// Swipe is the outgoing card plus the cards moving up behind it.
// Settle puts the outgoing card at the back once its tween finishes.
type Swipe struct {
	From      int           `json:"from"`
	To        int           `json:"to"`
	Out       CardTween     `json:"out"`
	Followers []CardTween   `json:"followers"`
	Settle    CardPlacement `json:"settle"`
}

// Stack is the table section's deck of photos; the front card swipes away to the back
type Stack struct {
	n         int
	current   int
	animating bool
}

func NewStack(n int) (*Stack, error) {
	if n < 2 {
		return nil, ErrTooFew
	}
	return &Stack{n: n}, nil
}

func (s *Stack) Len() int        { return s.n }
func (s *Stack) Current() int    { return s.current }
func (s *Stack) Animating() bool { return s.animating }

// Offset is how far card i sits behind the front card
func (s *Stack) Offset(i int) int {
	return ((i-s.current)%s.n + s.n) % s.n
}

// Layout of card i for the current front card
func (s *Stack) Layout(i int) CardLayout {
	return OffsetLayout(s.Offset(i), s.n)
}

// OffsetLayout is the resting layout of a card offset cards behind the front of an n card stack
func OffsetLayout(offset, n int) CardLayout {
	switch offset {
	case 0:
		return CardLayout{X: 0, Y: 0, Rotation: 0, Z: n, Opacity: 1, Scale: 1}
	case 1:
		return CardLayout{X: 20, Y: 20, Rotation: 2, Z: n - 1, Opacity: 1, Scale: 0.97}
	case 2:
		return CardLayout{X: 40, Y: 40, Rotation: 4, Z: n - 2, Opacity: 0.7, Scale: 0.94}
	default:
		return CardLayout{X: 0, Y: 0, Rotation: 0, Z: 0, Opacity: 0, Scale: 0.9}
	}
}

// SwipeNext swipes the front card out. The front index moves on Complete.
func (s *Stack) SwipeNext() (*Swipe, error) {
	if s.animating {
		return nil, ErrAnimating
	}
	s.animating = true

	front := s.current
	sw := &Swipe{
		From: front,
		To:   (front + 1) % s.n,
		Out: CardTween{
			Index:    front,
			From:     s.Layout(front),
			To:       swipeOutLayout,
			Duration: SwipeDuration,
			Ease:     SwipeEase,
		},
		Settle: CardPlacement{Index: front, Layout: OffsetLayout(s.n-1, s.n)},
	}

	for i := 0; i < s.n; i++ {
		if i == front {
			continue
		}
		offset := s.Offset(i)
		sw.Followers = append(sw.Followers, CardTween{
			Index:    i,
			From:     OffsetLayout(offset, s.n),
			To:       OffsetLayout(offset-1, s.n),
			Duration: FollowerDuration,
			Ease:     FollowerEase,
		})
	}
	return sw, nil
}

// Complete commits the swipe; the outgoing card rejoins at the back
func (s *Stack) Complete() {
	if !s.animating {
		return
	}
	s.current = (s.current + 1) % s.n
	s.animating = false
}
