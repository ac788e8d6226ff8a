package view

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gametracker/pkg/models"
)

func TestShellStartsOnLibrary(t *testing.T) {
	backend := new(mockBackend)
	backend.On("ListGames", mock.Anything).Return([]models.Game{hades}, nil)
	shell := NewShell(context.Background(), backend, nil)
	defer shell.Close()

	assert.Equal(t, ScreenLibrary, shell.Screen())
	_, selected := shell.Selected()
	assert.False(t, selected)

	lib, err := shell.Library()
	require.NoError(t, err)
	lib.Await()
	_, err = shell.Reviews()
	assert.ErrorIs(t, err, ErrWrongScreen)
}

func TestShellSwitchesScreens(t *testing.T) {
	backend := new(mockBackend)
	backend.On("ListGames", mock.Anything).Return([]models.Game{hades}, nil)
	backend.On("ListReviews", mock.Anything, "g1").Return(sampleReviews(), nil)
	shell := NewShell(context.Background(), backend, nil)
	defer shell.Close()

	lib, err := shell.Library()
	require.NoError(t, err)
	lib.Await()
	game, ok := lib.Game("g1")
	require.True(t, ok)

	shell.ShowReviews(game)

	assert.Equal(t, ScreenReviews, shell.Screen())
	selected, ok := shell.Selected()
	require.True(t, ok)
	assert.Equal(t, hades, selected)
	_, err = shell.Library()
	assert.ErrorIs(t, err, ErrWrongScreen)

	reviews, err := shell.Reviews()
	require.NoError(t, err)
	reviews.Await()
	assert.Len(t, reviews.Render().Reviews, 3)

	shell.ShowLibrary()

	assert.Equal(t, ScreenLibrary, shell.Screen())
	_, ok = shell.Selected()
	assert.False(t, ok)
	lib, err = shell.Library()
	require.NoError(t, err)
	lib.Await()
	backend.AssertNumberOfCalls(t, "ListGames", 2)
}

func TestShowLibraryOnLibraryKeepsState(t *testing.T) {
	backend := new(mockBackend)
	backend.On("ListGames", mock.Anything).Return([]models.Game{hades}, nil)
	shell := NewShell(context.Background(), backend, nil)
	defer shell.Close()

	lib, _ := shell.Library()
	lib.Await()
	lib.SetFilter(Filter(models.StatusPlaying))

	shell.ShowLibrary()

	again, err := shell.Library()
	require.NoError(t, err)
	assert.Same(t, lib, again)
	assert.Equal(t, Filter(models.StatusPlaying), again.Filter())
}

func TestScreenString(t *testing.T) {
	assert.Equal(t, "library", ScreenLibrary.String())
	assert.Equal(t, "reviews", ScreenReviews.String())
}
