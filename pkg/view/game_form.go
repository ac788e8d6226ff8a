package view

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"gametracker/pkg/logger"
	"gametracker/pkg/models"
)

// GameForm is the modal editor for one game. done receives the submitted
// payload after a successful save, or nil when the user cancels.
type GameForm struct {
	svc  GameService
	mode Mode[models.Game]
	done func(*models.GameInput)
	log  *slog.Logger

	mu        sync.Mutex
	name      string
	platform  string
	coverURL  string
	status    models.Status
	hours     int
	completed bool
	stars     StarRating
	saving    bool
	err       string
}

func NewGameForm(svc GameService, mode Mode[models.Game], done func(*models.GameInput), log *slog.Logger) *GameForm {
	if log == nil {
		log = logger.Discard()
	}
	f := &GameForm{
		svc:    svc,
		mode:   mode,
		done:   done,
		log:    log,
		status: models.StatusToPlay,
	}
	if edit, ok := mode.(Edit[models.Game]); ok {
		g := edit.Entity
		f.name = g.Name
		f.platform = g.Platform
		f.coverURL = g.CoverURL
		if g.Status.Valid() {
			f.status = g.Status
		}
		f.hours = clampHours(g.HoursPlayed)
		f.completed = g.Completed
		f.stars.Set(g.Stars)
	}
	return f
}

func clampHours(h int) int {
	return max(0, min(h, models.MaxHoursPlayed))
}

func (f *GameForm) SetName(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.name = v
}

func (f *GameForm) SetPlatform(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.platform = v
}

func (f *GameForm) SetCoverURL(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.coverURL = v
}

// SetStatus ignores values outside the four known statuses.
func (f *GameForm) SetStatus(s models.Status) {
	if !s.Valid() {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = s
}

func (f *GameForm) SetHours(h int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hours = clampHours(h)
}

func (f *GameForm) SetCompleted(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = v
}

func (f *GameForm) HoverStar(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stars.Hover(n)
}

func (f *GameForm) LeaveStars() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stars.Leave()
}

func (f *GameForm) ClickStar(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stars.Set(n)
}

func (f *GameForm) validateLocked() (models.GameInput, string) {
	input := models.GameInput{
		Name:        strings.TrimSpace(f.name),
		Platform:    strings.TrimSpace(f.platform),
		CoverURL:    strings.TrimSpace(f.coverURL),
		Status:      f.status,
		HoursPlayed: f.hours,
		Completed:   f.completed,
		Stars:       f.stars.Value(),
	}
	if input.Name == "" {
		return input, msgNameRequired
	}
	if input.Platform == "" {
		return input, msgPlatformReq
	}
	return input, ""
}

// Submit validates the fields and saves them. Validation failures never
// reach the backend; every failure leaves a message on the form.
func (f *GameForm) Submit(ctx context.Context) error {
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
	case Create[models.Game]:
		_, err = f.svc.CreateGame(ctx, input)
	case Edit[models.Game]:
		_, err = f.svc.UpdateGame(ctx, m.Entity.ID, input)
	}

	f.mu.Lock()
	f.saving = false
	if err != nil {
		f.err = msgSaveGame
	}
	f.mu.Unlock()

	if err != nil {
		f.log.Error("saving game failed", logger.Err(err))
		return err
	}
	f.done(&input)
	return nil
}

// Cancel discards the edits without contacting the backend.
func (f *GameForm) Cancel() error {
	f.mu.Lock()
	saving := f.saving
	f.mu.Unlock()
	if saving {
		return ErrBusy
	}
	f.done(nil)
	return nil
}

type GameFormView struct {
	Editing     bool
	Title       string
	SubmitLabel string
	Name        string
	Platform    string
	CoverURL    string
	Status      models.Status
	Statuses    []StatusOption
	HoursPlayed int
	MaxHours    int
	Completed   bool
	Stars       int
	StarFill    []bool
	Saving      bool
	Error       string
}

type StatusOption struct {
	Value    models.Status
	Label    string
	Selected bool
}

func (f *GameForm) View() GameFormView {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, editing := f.mode.(Edit[models.Game])
	v := GameFormView{
		Editing:     editing,
		Title:       "Add New Game",
		SubmitLabel: "Create Game",
		Name:        f.name,
		Platform:    f.platform,
		CoverURL:    f.coverURL,
		Status:      f.status,
		HoursPlayed: f.hours,
		MaxHours:    models.MaxHoursPlayed,
		Completed:   f.completed,
		Stars:       f.stars.Value(),
		StarFill:    f.stars.Fill(),
		Saving:      f.saving,
		Error:       f.err,
	}
	if editing {
		v.Title = "Edit Game"
		v.SubmitLabel = "Update"
	}
	if f.saving {
		v.SubmitLabel = "Saving..."
	}
	for _, s := range models.Statuses {
		v.Statuses = append(v.Statuses, StatusOption{Value: s, Label: s.Label(), Selected: s == f.status})
	}
	return v
}
