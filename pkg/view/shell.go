package view

import (
	"context"
	"log/slog"
	"sync"

	"gametracker/pkg/logger"
	"gametracker/pkg/models"
)

type Screen int

const (
	ScreenLibrary Screen = iota
	ScreenReviews
)

func (s Screen) String() string {
	switch s {
	case ScreenLibrary:
		return "library"
	case ScreenReviews:
		return "reviews"
	}
	return "unknown"
}

// Shell switches between the library and the reviews of the selected game.
// Only the active screen is mounted; leaving a screen closes it.
type Shell struct {
	backend Backend
	log     *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc

	mu       sync.Mutex
	screen   Screen
	selected *models.Game
	library  *Library
	reviews  *ReviewList
}

func NewShell(ctx context.Context, backend Backend, log *slog.Logger) *Shell {
	if log == nil {
		log = logger.Discard()
	}
	ctx, cancel := context.WithCancel(ctx)
	s := &Shell{
		backend: backend,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
		screen:  ScreenLibrary,
	}
	s.library = NewLibrary(ctx, backend, log.With(slog.String("view", "library")))
	return s
}

// ShowReviews selects game and switches to its reviews.
func (s *Shell) ShowReviews(game models.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = &game
	if s.screen == ScreenReviews && s.reviews != nil {
		s.reviews.SetGame(game)
		return
	}
	if s.library != nil {
		s.library.Close()
		s.library = nil
	}
	s.reviews = NewReviewList(s.ctx, s.backend, game, s.log.With(slog.String("view", "reviews")))
	s.screen = ScreenReviews
}

// ShowLibrary clears the selection and mounts a fresh library.
func (s *Shell) ShowLibrary() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = nil
	if s.screen == ScreenLibrary && s.library != nil {
		return
	}
	if s.reviews != nil {
		s.reviews.Close()
		s.reviews = nil
	}
	s.library = NewLibrary(s.ctx, s.backend, s.log.With(slog.String("view", "library")))
	s.screen = ScreenLibrary
}

func (s *Shell) Screen() Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen
}

func (s *Shell) Selected() (models.Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return models.Game{}, false
	}
	return *s.selected, true
}

// Library returns the mounted library, or ErrWrongScreen while the reviews
// are shown.
func (s *Shell) Library() (*Library, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.library == nil {
		return nil, ErrWrongScreen
	}
	return s.library, nil
}

func (s *Shell) Reviews() (*ReviewList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reviews == nil {
		return nil, ErrWrongScreen
	}
	return s.reviews, nil
}

// Close tears down the mounted screen and cancels its in-flight loads.
func (s *Shell) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.library != nil {
		s.library.Close()
	}
	if s.reviews != nil {
		s.reviews.Close()
	}
	s.cancel()
}
