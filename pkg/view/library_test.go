package view

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"gametracker/pkg/models"
)

type LibrarySuite struct {
	suite.Suite
	backend *mockBackend
	library *Library
}

func TestLibrarySuite(t *testing.T) {
	suite.Run(t, new(LibrarySuite))
}

func (s *LibrarySuite) SetupTest() {
	s.backend = new(mockBackend)
}

func (s *LibrarySuite) TearDownTest() {
	if s.library != nil {
		s.library.Close()
		s.library.Await()
		s.library = nil
	}
}

func (s *LibrarySuite) mount(games []models.Game) {
	s.backend.On("ListGames", mock.Anything).Return(games, nil).Once()
	s.library = NewLibrary(context.Background(), s.backend, nil)
	s.library.Await()
}

func sampleGames() []models.Game {
	return []models.Game{
		{ID: "1", Name: "Hades", Platform: "PC", Status: models.StatusPlaying, HoursPlayed: 12, Stars: 4},
		{ID: "2", Name: "Celeste", Platform: "Switch", Status: models.StatusCompleted, HoursPlayed: 20, Completed: true, Stars: 5},
		{ID: "3", Name: "Elden Ring", Platform: "PS5", Status: models.StatusAbandoned, HoursPlayed: 8},
	}
}

func cardIDs(cards []GameCard) []string {
	ids := make([]string, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	return ids
}

func (s *LibrarySuite) TestMountLoadsGames() {
	s.mount(sampleGames())

	page := s.library.Render()

	s.False(page.Loading)
	s.Empty(page.Error)
	s.Equal([]string{"1", "2", "3"}, cardIDs(page.Games))
	s.Equal(LibraryStats{Total: 3, Completed: 1, Hours: 40}, page.Stats)
	s.Empty(page.EmptyMessage)
	s.Equal(FilterAll, page.Filter)
	s.Len(page.Filters, 5)
}

func (s *LibrarySuite) TestFilterByStatus() {
	s.mount([]models.Game{
		{ID: "1", Status: models.StatusPlaying},
		{ID: "2", Status: models.StatusCompleted},
	})

	s.library.SetFilter(Filter(models.StatusCompleted))
	page := s.library.Render()

	s.Equal([]string{"2"}, cardIDs(page.Games))
	s.Empty(page.EmptyMessage)
}

func (s *LibrarySuite) TestStatsIgnoreFilter() {
	s.mount(sampleGames())

	s.library.SetFilter(Filter(models.StatusToPlay))
	page := s.library.Render()

	s.Empty(page.Games)
	s.Equal(`You have no games in status "To play".`, page.EmptyMessage)
	s.Equal(40, page.Stats.Hours)
	s.Equal(3, page.Stats.Total)
}

func (s *LibrarySuite) TestEmptyLibraryMessage() {
	s.mount(nil)

	page := s.library.Render()

	s.Equal("Your library is empty! Add your first game.", page.EmptyMessage)
	s.Zero(page.Stats.Total)
}

func (s *LibrarySuite) TestLoadFailureThenRetry() {
	s.backend.On("ListGames", mock.Anything).Return(nil, errors.New("connection refused")).Once()
	s.library = NewLibrary(context.Background(), s.backend, nil)
	s.library.Await()

	page := s.library.Render()
	s.Equal(msgLoadGames, page.Error)
	s.Empty(page.Games)

	s.backend.On("ListGames", mock.Anything).Return(sampleGames(), nil).Once()
	s.library.Reload()
	s.library.Await()

	page = s.library.Render()
	s.Empty(page.Error)
	s.Len(page.Games, 3)
}

func (s *LibrarySuite) TestDeclinedDeleteChangesNothing() {
	s.mount(sampleGames())

	s.Require().NoError(s.library.RequestDelete("2"))
	s.Equal(&PendingDelete{ID: "2", Label: "Celeste"}, s.library.Render().PendingDelete)

	s.Require().NoError(s.library.ResolveDelete(context.Background(), false))

	s.backend.AssertNotCalled(s.T(), "DeleteGame", mock.Anything, mock.Anything)
	page := s.library.Render()
	s.Len(page.Games, 3)
	s.Nil(page.PendingDelete)
}

func (s *LibrarySuite) TestConfirmedDeleteSplicesWithoutRefetch() {
	s.mount(sampleGames())
	s.backend.On("DeleteGame", mock.Anything, "2").Return(deleted, nil).Once()

	s.Require().NoError(s.library.RequestDelete("2"))
	s.Require().NoError(s.library.ResolveDelete(context.Background(), true))
	s.library.Await()

	page := s.library.Render()
	s.Equal([]string{"1", "3"}, cardIDs(page.Games))
	s.Equal(LibraryStats{Total: 2, Completed: 0, Hours: 20}, page.Stats)
	s.backend.AssertNumberOfCalls(s.T(), "ListGames", 1)
}

func (s *LibrarySuite) TestFailedDeleteRaisesAlertOnce() {
	s.mount(sampleGames())
	s.backend.On("DeleteGame", mock.Anything, "1").Return(nil, errors.New("500")).Once()

	s.Require().NoError(s.library.RequestDelete("1"))
	s.Error(s.library.ResolveDelete(context.Background(), true))

	page := s.library.Render()
	s.Equal(msgDeleteGame, page.Alert)
	s.Len(page.Games, 3)
	s.Empty(s.library.Render().Alert)
}

func (s *LibrarySuite) TestResolveWithoutRequest() {
	s.mount(nil)
	s.ErrorIs(s.library.ResolveDelete(context.Background(), true), ErrNoPendingDelete)
	s.ErrorIs(s.library.RequestDelete("missing"), ErrUnknownGame)
}

func (s *LibrarySuite) TestCreateRefetchesOnSave() {
	s.mount(nil)
	form := s.library.OpenCreateForm()
	form.SetName("  Hades ")
	form.SetPlatform("PC")
	form.ClickStar(4)

	want := models.GameInput{Name: "Hades", Platform: "PC", Status: models.StatusToPlay, Stars: 4}
	s.backend.On("CreateGame", mock.Anything, want).Return(&models.Game{ID: "9"}, nil).Once()
	s.backend.On("ListGames", mock.Anything).Return([]models.Game{{ID: "9", Name: "Hades"}}, nil).Once()

	s.Require().NoError(form.Submit(context.Background()))
	s.library.Await()

	page := s.library.Render()
	s.Nil(page.Form)
	s.Nil(s.library.Form())
	s.Equal([]string{"9"}, cardIDs(page.Games))
	s.backend.AssertNumberOfCalls(s.T(), "ListGames", 2)
}

func (s *LibrarySuite) TestCancelOnlyDismisses() {
	s.mount(sampleGames())
	form, err := s.library.OpenEditForm("1")
	s.Require().NoError(err)
	s.NotNil(s.library.Render().Form)

	s.Require().NoError(form.Cancel())

	s.Nil(s.library.Render().Form)
	s.backend.AssertNumberOfCalls(s.T(), "ListGames", 1)
	s.backend.AssertNotCalled(s.T(), "UpdateGame", mock.Anything, mock.Anything, mock.Anything)
}

func (s *LibrarySuite) TestEditSubmitsUpdateWithID() {
	s.mount(sampleGames())
	form, err := s.library.OpenEditForm("2")
	s.Require().NoError(err)
	s.True(form.View().Editing)
	s.Equal("Celeste", form.View().Name)

	form.SetHours(25)
	want := models.GameInput{Name: "Celeste", Platform: "Switch", Status: models.StatusCompleted, HoursPlayed: 25, Completed: true, Stars: 5}
	s.backend.On("UpdateGame", mock.Anything, "2", want).Return(&models.Game{ID: "2"}, nil).Once()
	s.backend.On("ListGames", mock.Anything).Return(sampleGames(), nil).Once()

	s.Require().NoError(form.Submit(context.Background()))
	s.library.Await()
	s.backend.AssertExpectations(s.T())
}

func (s *LibrarySuite) TestOpenEditUnknownGame() {
	s.mount(nil)
	_, err := s.library.OpenEditForm("nope")
	s.ErrorIs(err, ErrUnknownGame)
}

func (s *LibrarySuite) TestStaleLoadAfterDeleteIsReissued() {
	games := sampleGames()
	s.mount(games)

	release := make(chan struct{})
	s.backend.On("ListGames", mock.Anything).Run(func(mock.Arguments) { <-release }).Return(games, nil).Once()
	s.backend.On("ListGames", mock.Anything).Return(games[1:], nil).Once()
	s.backend.On("DeleteGame", mock.Anything, "1").Return(deleted, nil).Once()

	s.library.Reload()
	s.Require().NoError(s.library.RequestDelete("1"))
	s.Require().NoError(s.library.ResolveDelete(context.Background(), true))
	close(release)
	s.library.Await()

	page := s.library.Render()
	s.Equal([]string{"2", "3"}, cardIDs(page.Games))
	s.backend.AssertNumberOfCalls(s.T(), "ListGames", 3)
}

func (s *LibrarySuite) TestClosedLibraryIgnoresLateLoad() {
	release := make(chan struct{})
	var loadCtx context.Context
	s.backend.On("ListGames", mock.Anything).Run(func(args mock.Arguments) {
		loadCtx = args.Get(0).(context.Context)
		<-release
	}).Return(sampleGames(), nil).Once()

	lib := NewLibrary(context.Background(), s.backend, nil)
	lib.Close()
	close(release)
	lib.Await()

	s.ErrorIs(loadCtx.Err(), context.Canceled)
	s.Empty(lib.Render().Games)
}

func (s *LibrarySuite) TestSecondSubmitWhileSavingIsRejected() {
	s.mount(nil)
	form := s.library.OpenCreateForm()
	form.SetName("Hades")
	form.SetPlatform("PC")

	release := make(chan struct{})
	s.backend.On("CreateGame", mock.Anything, mock.Anything).Run(func(mock.Arguments) { <-release }).
		Return(nil, errors.New("timeout")).Once()

	done := make(chan error, 1)
	go func() { done <- form.Submit(context.Background()) }()
	s.Eventually(func() bool { return form.View().Saving }, time.Second, time.Millisecond)

	s.ErrorIs(form.Submit(context.Background()), ErrBusy)
	s.ErrorIs(form.Cancel(), ErrBusy)
	close(release)

	s.Error(<-done)
	v := form.View()
	s.False(v.Saving)
	s.Equal(msgSaveGame, v.Error)
	s.NotNil(s.library.Form())
	s.backend.AssertNumberOfCalls(s.T(), "CreateGame", 1)
}
