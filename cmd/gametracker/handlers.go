package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"gametracker/pkg/logger"
	"gametracker/pkg/models"
	"gametracker/pkg/view"
)

// shellOf returns the shell of the caller's session, starting a session and
// setting its cookie when the browser has none or an expired one.
func shellOf(c *gin.Context) *view.Shell {
	id, _ := c.Cookie(sessionCookie)
	sess := store.Get(id)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, sess.ID, int(cookieTTL/time.Second), "/", "", false, true)
	return sess.Shell
}

// seeOther sends the browser back to the current screen after an intent.
func seeOther(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

// finish answers an intent. Unknown ids are the only failures reported
// directly; everything else is shown on the next render.
func finish(c *gin.Context, err error) {
	switch {
	case errors.Is(err, view.ErrUnknownGame), errors.Is(err, view.ErrUnknownReview):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		seeOther(c)
	}
}

func indexHandler(c *gin.Context) {
	shell := shellOf(c)
	if reviews, err := shell.Reviews(); err == nil {
		page := reviews.Render()
		c.HTML(http.StatusOK, "reviews.html", gin.H{"Page": page, "Refresh": page.Loading})
		return
	}
	lib, err := shell.Library()
	if err != nil {
		appLog.Error("no screen mounted", logger.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no screen is mounted"})
		return
	}
	page := lib.Render()
	c.HTML(http.StatusOK, "library.html", gin.H{"Page": page, "Refresh": page.Loading})
}

// libraryOf returns the mounted library. When the reviews are shown it
// redirects and reports false.
func libraryOf(c *gin.Context) (*view.Library, bool) {
	lib, err := shellOf(c).Library()
	if err != nil {
		seeOther(c)
		return nil, false
	}
	return lib, true
}

func reviewsOf(c *gin.Context) (*view.ReviewList, bool) {
	reviews, err := shellOf(c).Reviews()
	if err != nil {
		seeOther(c)
		return nil, false
	}
	return reviews, true
}

func libraryRetryHandler(c *gin.Context) {
	lib, ok := libraryOf(c)
	if !ok {
		return
	}
	lib.Reload()
	seeOther(c)
}

func libraryFilterHandler(c *gin.Context) {
	lib, ok := libraryOf(c)
	if !ok {
		return
	}
	filter, err := view.ParseFilter(c.PostForm("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lib.SetFilter(filter)
	seeOther(c)
}

func newGameHandler(c *gin.Context) {
	lib, ok := libraryOf(c)
	if !ok {
		return
	}
	lib.OpenCreateForm()
	seeOther(c)
}

func editGameHandler(c *gin.Context) {
	lib, ok := libraryOf(c)
	if !ok {
		return
	}
	_, err := lib.OpenEditForm(c.Param("id"))
	finish(c, err)
}

func requestGameDeleteHandler(c *gin.Context) {
	lib, ok := libraryOf(c)
	if !ok {
		return
	}
	finish(c, lib.RequestDelete(c.Param("id")))
}

func resolveGameDeleteHandler(c *gin.Context) {
	lib, ok := libraryOf(c)
	if !ok {
		return
	}
	finish(c, lib.ResolveDelete(c.Request.Context(), c.PostForm("confirm") == "yes"))
}

func showReviewsHandler(c *gin.Context) {
	shell := shellOf(c)
	lib, err := shell.Library()
	if err != nil {
		seeOther(c)
		return
	}
	game, ok := lib.Game(c.Param("id"))
	if !ok {
		finish(c, view.ErrUnknownGame)
		return
	}
	shell.ShowReviews(game)
	seeOther(c)
}

type formAction struct {
	kind string
	star int
}

const (
	actionSave   = "save"
	actionCancel = "cancel"
	actionStar   = "star"
)

// parseAction reads the button that submitted an editor: save, cancel or
// star:N.
func parseAction(s string) (formAction, error) {
	switch s {
	case actionSave, actionCancel:
		return formAction{kind: s}, nil
	}
	if n, ok := strings.CutPrefix(s, actionStar+":"); ok {
		star, err := strconv.Atoi(n)
		if err != nil || star < 1 || star > models.MaxStars {
			return formAction{}, fmt.Errorf("invalid star %q", n)
		}
		return formAction{kind: actionStar, star: star}, nil
	}
	return formAction{}, fmt.Errorf("unknown form action %q", s)
}

type gameFormFields struct {
	Action    string `form:"action" binding:"required"`
	Name      string `form:"name"`
	Platform  string `form:"platform"`
	CoverURL  string `form:"coverURL"`
	Status    string `form:"status"`
	Hours     int    `form:"hours"`
	Completed bool   `form:"completed"`
}

func gameFormHandler(c *gin.Context) {
	lib, ok := libraryOf(c)
	if !ok {
		return
	}
	form := lib.Form()
	if form == nil {
		finish(c, view.ErrNoForm)
		return
	}
	var fields gameFormFields
	if err := c.ShouldBind(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	action, err := parseAction(fields.Action)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form.SetName(fields.Name)
	form.SetPlatform(fields.Platform)
	form.SetCoverURL(fields.CoverURL)
	form.SetStatus(models.Status(fields.Status))
	form.SetHours(fields.Hours)
	form.SetCompleted(fields.Completed)

	switch action.kind {
	case actionSave:
		err = form.Submit(c.Request.Context())
	case actionCancel:
		err = form.Cancel()
	case actionStar:
		form.ClickStar(action.star)
	}
	finish(c, err)
}

func backToLibraryHandler(c *gin.Context) {
	shellOf(c).ShowLibrary()
	seeOther(c)
}

func reviewsRetryHandler(c *gin.Context) {
	reviews, ok := reviewsOf(c)
	if !ok {
		return
	}
	reviews.Reload()
	seeOther(c)
}

func newReviewHandler(c *gin.Context) {
	reviews, ok := reviewsOf(c)
	if !ok {
		return
	}
	reviews.OpenCreateForm()
	seeOther(c)
}

func editReviewHandler(c *gin.Context) {
	reviews, ok := reviewsOf(c)
	if !ok {
		return
	}
	_, err := reviews.OpenEditForm(c.Param("id"))
	finish(c, err)
}

func requestReviewDeleteHandler(c *gin.Context) {
	reviews, ok := reviewsOf(c)
	if !ok {
		return
	}
	finish(c, reviews.RequestDelete(c.Param("id")))
}

func resolveReviewDeleteHandler(c *gin.Context) {
	reviews, ok := reviewsOf(c)
	if !ok {
		return
	}
	finish(c, reviews.ResolveDelete(c.Request.Context(), c.PostForm("confirm") == "yes"))
}

type reviewFormFields struct {
	Action string `form:"action" binding:"required"`
	Author string `form:"author"`
	Text   string `form:"text"`
}

func reviewFormHandler(c *gin.Context) {
	reviews, ok := reviewsOf(c)
	if !ok {
		return
	}
	form := reviews.Form()
	if form == nil {
		finish(c, view.ErrNoForm)
		return
	}
	var fields reviewFormFields
	if err := c.ShouldBind(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	action, err := parseAction(fields.Action)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form.SetAuthor(fields.Author)
	form.SetText(fields.Text)

	switch action.kind {
	case actionSave:
		err = form.Submit(c.Request.Context())
	case actionCancel:
		err = form.Cancel()
	case actionStar:
		form.ClickStar(action.star)
	}
	finish(c, err)
}
