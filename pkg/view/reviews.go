package view

import (
	"context"
	"log/slog"
	"sync"

	"gametracker/pkg/logger"
	"gametracker/pkg/models"
)

// ReviewList shows the reviews of one game.
type ReviewList struct {
	svc    ReviewService
	log    *slog.Logger
	parent context.Context

	mu            sync.Mutex
	game          models.Game
	reviews       *collection[models.Review]
	form          *ReviewForm
	pendingDelete *models.Review
	alert         string
}

func NewReviewList(ctx context.Context, svc ReviewService, game models.Game, log *slog.Logger) *ReviewList {
	if log == nil {
		log = logger.Discard()
	}
	r := &ReviewList{
		svc:    svc,
		log:    log,
		parent: ctx,
		game:   game,
	}
	r.reviews = r.mount(game.ID)
	return r
}

func (r *ReviewList) mount(gameID string) *collection[models.Review] {
	fetch := func(ctx context.Context) ([]models.Review, error) {
		return r.svc.ListReviews(ctx, gameID)
	}
	c := newCollection(r.parent, fetch, func(rv models.Review) string { return rv.ID }, r.log.With(slog.String("game", gameID)))
	c.reload()
	return c
}

func (r *ReviewList) current() *collection[models.Review] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reviews
}

// SetGame points the list at game. A different game id tears down the held
// reviews and fetches the new game's; the same id only refreshes the header.
func (r *ReviewList) SetGame(game models.Game) {
	r.mu.Lock()
	defer r.mu.Unlock()
	changed := game.ID != r.game.ID
	r.game = game
	if !changed {
		return
	}
	r.reviews.close()
	r.reviews = r.mount(game.ID)
	r.form = nil
	r.pendingDelete = nil
}

func (r *ReviewList) Game() models.Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game
}

func (r *ReviewList) Reload() { r.current().reload() }

func (r *ReviewList) Await() { r.current().await() }

func (r *ReviewList) Close() { r.current().close() }

func (r *ReviewList) Review(id string) (models.Review, bool) {
	return r.current().find(id)
}

func (r *ReviewList) OpenCreateForm() *ReviewForm {
	return r.openForm(Create[models.Review]{})
}

func (r *ReviewList) OpenEditForm(id string) (*ReviewForm, error) {
	rv, ok := r.current().find(id)
	if !ok {
		return nil, ErrUnknownReview
	}
	return r.openForm(Edit[models.Review]{Entity: rv}), nil
}

func (r *ReviewList) openForm(mode Mode[models.Review]) *ReviewForm {
	r.mu.Lock()
	defer r.mu.Unlock()
	var form *ReviewForm
	form = NewReviewForm(r.svc, mode, r.game.ID, func(saved *models.ReviewInput) {
		r.closeForm(form, saved)
	}, r.log)
	r.form = form
	return form
}

func (r *ReviewList) Form() *ReviewForm {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.form
}

func (r *ReviewList) closeForm(form *ReviewForm, saved *models.ReviewInput) {
	r.mu.Lock()
	if r.form == form {
		r.form = nil
	}
	reviews := r.reviews
	r.mu.Unlock()
	if saved != nil {
		reviews.reload()
	}
}

func (r *ReviewList) RequestDelete(id string) error {
	rv, ok := r.current().find(id)
	if !ok {
		return ErrUnknownReview
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingDelete = &rv
	return nil
}

func (r *ReviewList) ResolveDelete(ctx context.Context, confirmed bool) error {
	r.mu.Lock()
	target := r.pendingDelete
	r.pendingDelete = nil
	reviews := r.reviews
	r.mu.Unlock()

	if target == nil {
		return ErrNoPendingDelete
	}
	if !confirmed {
		return nil
	}
	if _, err := r.svc.DeleteReview(ctx, target.ID); err != nil {
		r.log.Error("deleting review failed", slog.String("id", target.ID), logger.Err(err))
		r.mu.Lock()
		r.alert = msgDeleteReview
		r.mu.Unlock()
		return err
	}
	reviews.commitDelete(target.ID)
	return nil
}

type ReviewsPage struct {
	Game          GameCard
	Loading       bool
	Error         string
	Stats         ReviewStats
	Average       string
	Reviews       []ReviewCard
	Empty         bool
	Form          *ReviewFormView
	PendingDelete *PendingDelete
	Alert         string
}

func (r *ReviewList) Render() ReviewsPage {
	r.mu.Lock()
	game := r.game
	reviews := r.reviews
	form := r.form
	pending := r.pendingDelete
	alert := r.alert
	r.alert = ""
	r.mu.Unlock()

	items, loading, loadErr := reviews.state()
	page := ReviewsPage{
		Game:    NewGameCard(game),
		Loading: loading,
		Alert:   alert,
	}
	if loading {
		return page
	}
	if loadErr != nil {
		page.Error = msgLoadReviews
		return page
	}

	page.Stats = ComputeReviewStats(items)
	page.Average = page.Stats.AverageLabel()
	for _, rv := range items {
		page.Reviews = append(page.Reviews, NewReviewCard(rv))
	}
	page.Empty = len(items) == 0
	if form != nil {
		v := form.View()
		page.Form = &v
	}
	if pending != nil {
		page.PendingDelete = &PendingDelete{ID: pending.ID, Label: pending.Author}
	}
	return page
}
