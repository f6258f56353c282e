package review

import "sync"

const maxStars = 5

// StarsView paints the first n symbols of the rating control as filled.
type StarsView interface {
	Paint(filled int)
}

// StarRating holds the state of one five-star control: hover previews a value,
// click commits it, leaving without a click reverts to the last committed one.
type StarRating struct {
	mu        sync.Mutex
	view      StarsView
	committed int
}

// NewStarRating binds the control to its view.
func NewStarRating(view StarsView) *StarRating {
	return &StarRating{view: view}
}

// Hover previews the hovered value without committing it.
func (s *StarRating) Hover(value int) {
	s.view.Paint(clampStars(value))
}

// Commit fixes the clicked value; it ends up in the hidden rating field.
func (s *StarRating) Commit(value int) {
	value = clampStars(value)
	s.mu.Lock()
	s.committed = value
	s.mu.Unlock()
	s.view.Paint(value)
}

// Leave reverts the display to the last committed value, zero if none.
func (s *StarRating) Leave() {
	s.mu.Lock()
	committed := s.committed
	s.mu.Unlock()
	s.view.Paint(committed)
}

// Committed returns the committed rating, zero when nothing was clicked yet.
func (s *StarRating) Committed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed
}

func clampStars(value int) int {
	if value < 0 {
		return 0
	}
	if value > maxStars {
		return maxStars
	}
	return value
}
