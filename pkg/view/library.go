package view

import (
	"context"
	"log/slog"
	"sync"

	"gametracker/pkg/logger"
	"gametracker/pkg/models"
)

// Library is the top-level list of games.
type Library struct {
	svc   GameService
	log   *slog.Logger
	games *collection[models.Game]

	mu            sync.Mutex
	filter        Filter
	form          *GameForm
	pendingDelete *models.Game
	alert         string
}

// NewLibrary mounts the library: the first load starts immediately and is
// cancelled when ctx ends or Close is called.
func NewLibrary(ctx context.Context, svc GameService, log *slog.Logger) *Library {
	if log == nil {
		log = logger.Discard()
	}
	l := &Library{
		svc:    svc,
		log:    log,
		filter: FilterAll,
	}
	l.games = newCollection(ctx, svc.ListGames, func(g models.Game) string { return g.ID }, log)
	l.games.reload()
	return l
}

// Reload refetches the whole collection; it is also the retry action after
// a failed load.
func (l *Library) Reload() { l.games.reload() }

// Await blocks until the in-flight load, if any, has been applied.
func (l *Library) Await() { l.games.await() }

func (l *Library) Close() { l.games.close() }

func (l *Library) SetFilter(f Filter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.filter = f
}

func (l *Library) Filter() Filter {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter
}

// Game returns the held copy of the game with the given id.
func (l *Library) Game(id string) (models.Game, bool) {
	return l.games.find(id)
}

func (l *Library) OpenCreateForm() *GameForm {
	return l.openForm(Create[models.Game]{})
}

func (l *Library) OpenEditForm(id string) (*GameForm, error) {
	g, ok := l.games.find(id)
	if !ok {
		return nil, ErrUnknownGame
	}
	return l.openForm(Edit[models.Game]{Entity: g}), nil
}

func (l *Library) openForm(mode Mode[models.Game]) *GameForm {
	l.mu.Lock()
	defer l.mu.Unlock()
	var form *GameForm
	form = NewGameForm(l.svc, mode, func(saved *models.GameInput) {
		l.closeForm(form, saved)
	}, l.log)
	l.form = form
	return form
}

// Form is the open editor, or nil.
func (l *Library) Form() *GameForm {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.form
}

func (l *Library) closeForm(form *GameForm, saved *models.GameInput) {
	l.mu.Lock()
	if l.form == form {
		l.form = nil
	}
	l.mu.Unlock()
	if saved != nil {
		l.games.reload()
	}
}

// RequestDelete asks for confirmation before deleting the game.
func (l *Library) RequestDelete(id string) error {
	g, ok := l.games.find(id)
	if !ok {
		return ErrUnknownGame
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pendingDelete = &g
	return nil
}

// ResolveDelete answers the pending confirmation. Declining leaves the
// backend and the collection untouched; confirming deletes the game and, once
// the backend agrees, drops it from the collection without a refetch.
func (l *Library) ResolveDelete(ctx context.Context, confirmed bool) error {
	l.mu.Lock()
	target := l.pendingDelete
	l.pendingDelete = nil
	l.mu.Unlock()

	if target == nil {
		return ErrNoPendingDelete
	}
	if !confirmed {
		return nil
	}
	if _, err := l.svc.DeleteGame(ctx, target.ID); err != nil {
		l.log.Error("deleting game failed", slog.String("id", target.ID), logger.Err(err))
		l.mu.Lock()
		l.alert = msgDeleteGame
		l.mu.Unlock()
		return err
	}
	l.games.commitDelete(target.ID)
	return nil
}

type LibraryPage struct {
	Loading       bool
	Error         string
	Filter        Filter
	Filters       []FilterOption
	Stats         LibraryStats
	Games         []GameCard
	EmptyMessage  string
	Form          *GameFormView
	PendingDelete *PendingDelete
	Alert         string
}

type FilterOption struct {
	Value  Filter
	Label  string
	Active bool
}

// Render derives the page from the current state and consumes the pending
// alert.
func (l *Library) Render() LibraryPage {
	items, loading, loadErr := l.games.state()

	l.mu.Lock()
	filter := l.filter
	form := l.form
	pending := l.pendingDelete
	alert := l.alert
	l.alert = ""
	l.mu.Unlock()

	page := LibraryPage{
		Loading: loading,
		Filter:  filter,
		Alert:   alert,
	}
	for _, f := range Filters() {
		page.Filters = append(page.Filters, FilterOption{Value: f, Label: f.Label(), Active: f == filter})
	}
	if loading {
		return page
	}
	if loadErr != nil {
		page.Error = msgLoadGames
		return page
	}

	page.Stats = ComputeLibraryStats(items)
	for _, g := range FilterGames(items, filter) {
		page.Games = append(page.Games, NewGameCard(g))
	}
	if len(page.Games) == 0 {
		page.EmptyMessage = EmptyLibraryMessage(filter)
	}
	if form != nil {
		v := form.View()
		page.Form = &v
	}
	if pending != nil {
		page.PendingDelete = &PendingDelete{ID: pending.ID, Label: pending.Name}
	}
	return page
}
