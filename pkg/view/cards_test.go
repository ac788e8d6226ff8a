package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gametracker/pkg/models"
)

func TestStatusColor(t *testing.T) {
	assert.Equal(t, "#FFA500", StatusColor(models.StatusToPlay))
	assert.Equal(t, "#4CAF50", StatusColor(models.StatusPlaying))
	assert.Equal(t, "#2196F3", StatusColor(models.StatusCompleted))
	assert.Equal(t, "#F44336", StatusColor(models.StatusAbandoned))
	assert.Equal(t, "#999", StatusColor("Wishlist"))
}

func TestNewGameCard(t *testing.T) {
	card := NewGameCard(models.Game{ID: "1", Name: "Celeste", Status: models.StatusCompleted, Completed: true, Stars: 2, HoursPlayed: 20})

	assert.Equal(t, "Completed", card.StatusLabel)
	assert.Equal(t, "#2196F3", card.StatusColor)
	assert.Equal(t, []bool{true, true, false, false, false}, card.StarFill)
	assert.True(t, card.Completed)
}

func TestNewReviewCard(t *testing.T) {
	card := NewReviewCard(models.Review{
		ID:        "r1",
		Author:    "ana",
		Stars:     5,
		CreatedAt: time.Date(2024, time.December, 25, 23, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, "December 25, 2024", card.Date)
	assert.Equal(t, []bool{true, true, true, true, true}, card.StarFill)

	assert.Empty(t, NewReviewCard(models.Review{}).Date)
}
