package view

import (
	"time"

	"gametracker/pkg/models"
)

const reviewDateLayout = "January 2, 2006"

type GameCard struct {
	ID          string
	Name        string
	Platform    string
	CoverURL    string
	Status      models.Status
	StatusLabel string
	StatusColor string
	HoursPlayed int
	Completed   bool
	Stars       int
	StarFill    []bool
}

func NewGameCard(g models.Game) GameCard {
	return GameCard{
		ID:          g.ID,
		Name:        g.Name,
		Platform:    g.Platform,
		CoverURL:    g.CoverURL,
		Status:      g.Status,
		StatusLabel: g.Status.Label(),
		StatusColor: StatusColor(g.Status),
		HoursPlayed: g.HoursPlayed,
		Completed:   g.Completed,
		Stars:       g.Stars,
		StarFill:    StarFill(g.Stars),
	}
}

type ReviewCard struct {
	ID       string
	Author   string
	Text     string
	Date     string
	Stars    int
	StarFill []bool
}

func NewReviewCard(r models.Review) ReviewCard {
	return ReviewCard{
		ID:       r.ID,
		Author:   r.Author,
		Text:     r.Text,
		Date:     FormatReviewDate(r.CreatedAt),
		Stars:    r.Stars,
		StarFill: StarFill(r.Stars),
	}
}

func StatusColor(s models.Status) string {
	switch s {
	case models.StatusToPlay:
		return "#FFA500"
	case models.StatusPlaying:
		return "#4CAF50"
	case models.StatusCompleted:
		return "#2196F3"
	case models.StatusAbandoned:
		return "#F44336"
	}
	return "#999"
}

// StarFill reports, for each of the five stars, whether it is filled.
func StarFill(n int) []bool {
	fill := make([]bool, models.MaxStars)
	for i := range fill {
		fill[i] = i < n
	}
	return fill
}

func FormatReviewDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(reviewDateLayout)
}
