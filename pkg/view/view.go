// Package view holds the state containers behind each screen of the game
// tracker: the game library, the per-game review list, their modal editors
// and the shell that switches between them.
//
// Every container owns its own state and is safe for concurrent use. Loads
// run in the background, bound to the container's lifetime; mutations run on
// the caller's context and are applied to the owning container only after
// the backend confirms them.
package view

import (
	"context"
	"errors"

	"gametracker/pkg/models"
)

type GameService interface {
	ListGames(ctx context.Context) ([]models.Game, error)
	CreateGame(ctx context.Context, input models.GameInput) (*models.Game, error)
	UpdateGame(ctx context.Context, id string, input models.GameInput) (*models.Game, error)
	DeleteGame(ctx context.Context, id string) (map[string]interface{}, error)
}

type ReviewService interface {
	ListReviews(ctx context.Context, gameID string) ([]models.Review, error)
	CreateReview(ctx context.Context, input models.ReviewInput) (*models.Review, error)
	UpdateReview(ctx context.Context, id string, input models.ReviewInput) (*models.Review, error)
	DeleteReview(ctx context.Context, id string) (map[string]interface{}, error)
}

// Backend is everything the shell needs from the games API.
type Backend interface {
	GameService
	ReviewService
}

var (
	ErrInvalid         = errors.New("form has invalid fields")
	ErrBusy            = errors.New("form is already saving")
	ErrNoForm          = errors.New("no form is open")
	ErrNoPendingDelete = errors.New("no delete is awaiting confirmation")
	ErrUnknownGame     = errors.New("game is not in the library")
	ErrUnknownReview   = errors.New("review is not in the list")
	ErrWrongScreen     = errors.New("screen is not active")
)

// User-facing messages.
const (
	msgLoadGames     = "Error loading the games. Check that the backend is running."
	msgLoadReviews   = "Error loading the reviews."
	msgDeleteGame    = "Error deleting the game."
	msgDeleteReview  = "Error deleting the review."
	msgSaveGame      = "Error saving the game. Check your connection to the backend."
	msgSaveReview    = "Error saving the review. Check your connection."
	msgNameRequired  = "The game name is required."
	msgPlatformReq   = "The platform is required."
	msgTextRequired  = "The review text is required."
	msgStarsRequired = "You must select a rating."
)

// Mode selects what an editor does on submit: create a new entity or edit
// an existing one.
type Mode[T any] interface {
	isMode(T)
}

type Create[T any] struct{}

func (Create[T]) isMode(T) {}

type Edit[T any] struct {
	Entity T
}

func (Edit[T]) isMode(T) {}

// PendingDelete describes an entity waiting for the user to confirm its
// deletion.
type PendingDelete struct {
	ID    string
	Label string
}
