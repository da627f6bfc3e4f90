package carousel

import "encoding/json"

// Config is what the page script replays: one precomputed step per index,
// so the browser never derives layouts on its own
type Config struct {
	Gallery struct {
		Steps []Transition `json:"steps"`
	} `json:"gallery"`
	Stack struct {
		Steps []Swipe `json:"steps"`
	} `json:"stack"`
}

// GallerySteps runs a gallery of n slides through one full cycle.
// Step i is the transition that starts with slide i in front.
func GallerySteps(n int) ([]Transition, error) {
	g, err := NewGallery(n)
	if err != nil {
		return nil, err
	}

	steps := make([]Transition, 0, n)
	for i := 0; i < n; i++ {
		t, err := g.Advance()
		if err != nil {
			return nil, err
		}
		steps = append(steps, *t)
		g.Complete()
	}
	return steps, nil
}

// StackSteps runs a stack of n cards through one full cycle
func StackSteps(n int) ([]Swipe, error) {
	s, err := NewStack(n)
	if err != nil {
		return nil, err
	}

	steps := make([]Swipe, 0, n)
	for i := 0; i < n; i++ {
		sw, err := s.SwipeNext()
		if err != nil {
			return nil, err
		}
		steps = append(steps, *sw)
		s.Complete()
	}
	return steps, nil
}

// ScriptConfig builds the steps for a gallery of slides and a stack of cards
func ScriptConfig(slides, cards int) (Config, error) {
	var c Config
	var err error

	if c.Gallery.Steps, err = GallerySteps(slides); err != nil {
		return Config{}, err
	}
	if c.Stack.Steps, err = StackSteps(cards); err != nil {
		return Config{}, err
	}
	return c, nil
}

// JSON renders the config for a data attribute
func (c Config) JSON() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
