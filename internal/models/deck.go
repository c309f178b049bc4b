package models

import "time"

// Deck is an ordered presentation: a title plus its slides and the theme
// they render with.
type Deck struct {
	Title  string   `json:"title"`
	Theme  string   `json:"theme"`
	Slides []*Slide `json:"slides"`
}

// SlideByID returns the slide with the given identity, or nil.
func (d *Deck) SlideByID(id string) *Slide {
	for _, s := range d.Slides {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// SlideIndex returns the position of the slide with the given identity,
// or -1 when absent.
func (d *Deck) SlideIndex(id string) int {
	for i, s := range d.Slides {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the deck.
func (d *Deck) Clone() *Deck {
	dup := &Deck{Title: d.Title, Theme: d.Theme, Slides: make([]*Slide, len(d.Slides))}
	for i, s := range d.Slides {
		dup.Slides[i] = s.Clone()
	}
	return dup
}

// Session is one in-memory editing session wrapping a deck. Sessions are
// never persisted; an expired or restarted process loses them by design.
type Session struct {
	ID        string    `json:"id"`
	Deck      *Deck     `json:"deck"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
