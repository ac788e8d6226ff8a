package view

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gametracker/pkg/models"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) ListGames(ctx context.Context) ([]models.Game, error) {
	args := m.Called(ctx)
	games, _ := args.Get(0).([]models.Game)
	return games, args.Error(1)
}

func (m *mockBackend) CreateGame(ctx context.Context, input models.GameInput) (*models.Game, error) {
	args := m.Called(ctx, input)
	game, _ := args.Get(0).(*models.Game)
	return game, args.Error(1)
}

func (m *mockBackend) UpdateGame(ctx context.Context, id string, input models.GameInput) (*models.Game, error) {
	args := m.Called(ctx, id, input)
	game, _ := args.Get(0).(*models.Game)
	return game, args.Error(1)
}

func (m *mockBackend) DeleteGame(ctx context.Context, id string) (map[string]interface{}, error) {
	args := m.Called(ctx, id)
	body, _ := args.Get(0).(map[string]interface{})
	return body, args.Error(1)
}

func (m *mockBackend) ListReviews(ctx context.Context, gameID string) ([]models.Review, error) {
	args := m.Called(ctx, gameID)
	reviews, _ := args.Get(0).([]models.Review)
	return reviews, args.Error(1)
}

func (m *mockBackend) CreateReview(ctx context.Context, input models.ReviewInput) (*models.Review, error) {
	args := m.Called(ctx, input)
	review, _ := args.Get(0).(*models.Review)
	return review, args.Error(1)
}

func (m *mockBackend) UpdateReview(ctx context.Context, id string, input models.ReviewInput) (*models.Review, error) {
	args := m.Called(ctx, id, input)
	review, _ := args.Get(0).(*models.Review)
	return review, args.Error(1)
}

func (m *mockBackend) DeleteReview(ctx context.Context, id string) (map[string]interface{}, error) {
	args := m.Called(ctx, id)
	body, _ := args.Get(0).(map[string]interface{})
	return body, args.Error(1)
}

var deleted = map[string]interface{}{"mensaje": "ok"}
