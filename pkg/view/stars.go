package view

import "gametracker/pkg/models"

// StarRating is the interactive five-star input. Hovering previews a value,
// clicking commits it.
type StarRating struct {
	value int
	hover int
}

func clampStars(n int) int {
	return max(0, min(n, models.MaxStars))
}

func (s *StarRating) Hover(n int) { s.hover = clampStars(n) }

func (s *StarRating) Leave() { s.hover = 0 }

func (s *StarRating) Set(n int) { s.value = clampStars(n) }

func (s StarRating) Value() int { return s.value }

// Display is the number of filled stars: the hovered value while hovering,
// the committed value otherwise.
func (s StarRating) Display() int {
	if s.hover > 0 {
		return s.hover
	}
	return s.value
}

func (s StarRating) Fill() []bool {
	return StarFill(s.Display())
}
