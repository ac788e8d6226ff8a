package view

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"gametracker/pkg/logger"
	"gametracker/pkg/models"
)

// ReviewForm is the modal editor for one review of gameID.
type ReviewForm struct {
	svc    ReviewService
	mode   Mode[models.Review]
	gameID string
	done   func(*models.ReviewInput)
	log    *slog.Logger

	mu     sync.Mutex
	author string
	text   string
	stars  StarRating
	saving bool
	err    string
}

func NewReviewForm(svc ReviewService, mode Mode[models.Review], gameID string, done func(*models.ReviewInput), log *slog.Logger) *ReviewForm {
	if log == nil {
		log = logger.Discard()
	}
	f := &ReviewForm{
		svc:    svc,
		mode:   mode,
		gameID: gameID,
		done:   done,
		log:    log,
		author: models.AnonymousAuthor,
	}
	if edit, ok := mode.(Edit[models.Review]); ok {
		r := edit.Entity
		if r.Author != "" {
			f.author = r.Author
		}
		f.text = r.Text
		f.stars.Set(r.Stars)
	}
	return f
}

func (f *ReviewForm) SetAuthor(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.author = v
}

func (f *ReviewForm) SetText(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = v
}

func (f *ReviewForm) HoverStar(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stars.Hover(n)
}

func (f *ReviewForm) LeaveStars() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stars.Leave()
}

func (f *ReviewForm) ClickStar(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stars.Set(n)
}

func (f *ReviewForm) validateLocked() (models.ReviewInput, string) {
	input := models.ReviewInput{
		Author: strings.TrimSpace(f.author),
		Text:   strings.TrimSpace(f.text),
		Stars:  f.stars.Value(),
		GameID: f.gameID,
	}
	if input.Author == "" {
		input.Author = models.AnonymousAuthor
	}
	if edit, ok := f.mode.(Edit[models.Review]); ok && edit.Entity.GameID != "" {
		input.GameID = edit.Entity.GameID
	}
	if input.Text == "" {
		return input, msgTextRequired
	}
	if input.Stars == 0 {
		return input, msgStarsRequired
	}
	return input, ""
}

func (f *ReviewForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.saving {
		f.mu.Unlock()
		return ErrBusy
	}
	input, msg := f.validateLocked()
	if msg != "" {
		f.err = msg
		f.mu.Unlock()
		return ErrInvalid
	}
	f.saving = true
	f.err = ""
	f.mu.Unlock()

	var err error
	switch m := f.mode.(type) {
	case Create[models.Review]:
		_, err = f.svc.CreateReview(ctx, input)
	case Edit[models.Review]:
		_, err = f.svc.UpdateReview(ctx, m.Entity.ID, input)
	}

	f.mu.Lock()
	f.saving = false
	if err != nil {
		f.err = msgSaveReview
	}
	f.mu.Unlock()

	if err != nil {
		f.log.Error("saving review failed", logger.Err(err))
		return err
	}
	f.done(&input)
	return nil
}

func (f *ReviewForm) Cancel() error {
	f.mu.Lock()
	saving := f.saving
	f.mu.Unlock()
	if saving {
		return ErrBusy
	}
	f.done(nil)
	return nil
}

type ReviewFormView struct {
	Editing     bool
	Title       string
	SubmitLabel string
	Author      string
	Text        string
	TextLength  int
	Stars       int
	StarFill    []bool
	Saving      bool
	Error       string
}

func (f *ReviewForm) View() ReviewFormView {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, editing := f.mode.(Edit[models.Review])
	v := ReviewFormView{
		Editing:     editing,
		Title:       "New Review",
		SubmitLabel: "Publish Review",
		Author:      f.author,
		Text:        f.text,
		TextLength:  len([]rune(f.text)),
		Stars:       f.stars.Value(),
		StarFill:    f.stars.Fill(),
		Saving:      f.saving,
		Error:       f.err,
	}
	if editing {
		v.Title = "Edit Review"
		v.SubmitLabel = "Update"
	}
	if f.saving {
		v.SubmitLabel = "Saving..."
	}
	return v
}
