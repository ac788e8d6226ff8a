package main

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"gametracker/pkg/apiclient"
	"gametracker/pkg/config"
	"gametracker/pkg/logger"
	"gametracker/pkg/session"
	"gametracker/pkg/view"
)

const (
	sessionCookie = "gt_session"
	sweepInterval = time.Minute
)

//go:embed templates/*.html
var templatesFS embed.FS

var (
	store     *session.Store
	appLog    = logger.Discard()
	cookieTTL = 30 * time.Minute
	// Backend calls end only with their context.
	httpClient = &http.Client{}
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	appLog = logger.New("gametracker")

	client := apiclient.New(cfg.BackendURL, httpClient, logger.New("apiclient"))
	viewLog := logger.New("view")
	store = session.NewStore(cfg.SessionTTL, func() *view.Shell {
		return view.NewShell(context.Background(), client, viewLog)
	})
	cookieTTL = cfg.SessionTTL

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go store.Run(ctx, sweepInterval)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: newRouter(),
	}
	go func() {
		appLog.Info("game tracker starting", slog.String("addr", cfg.Addr()), slog.String("backend", cfg.BackendURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("server error", logger.Err(err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	appLog.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		appLog.Error("shutdown", logger.Err(err))
	}
	store.Close()
}

func newRouter() *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(template.Must(template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")))

	r.GET("/", indexHandler)

	lib := r.Group("/library")
	lib.POST("/retry", libraryRetryHandler)
	lib.POST("/filter", libraryFilterHandler)
	lib.POST("/games/new", newGameHandler)
	lib.POST("/games/:id/edit", editGameHandler)
	lib.POST("/games/:id/delete", requestGameDeleteHandler)
	lib.POST("/delete", resolveGameDeleteHandler)
	lib.POST("/games/:id/reviews", showReviewsHandler)
	lib.POST("/form", gameFormHandler)

	rev := r.Group("/reviews")
	rev.POST("/back", backToLibraryHandler)
	rev.POST("/retry", reviewsRetryHandler)
	rev.POST("/new", newReviewHandler)
	rev.POST("/:id/edit", editReviewHandler)
	rev.POST("/:id/delete", requestReviewDeleteHandler)
	rev.POST("/delete", resolveReviewDeleteHandler)
	rev.POST("/form", reviewFormHandler)

	r.GET("/manage/health", healthCheck)
	return r
}

type starSlot struct {
	Value  int
	Filled bool
}

// starSlots lists the stars from highest to lowest. The input lays them out
// right to left so hovering one also lights the lower stars before it.
func starSlots(fill []bool) []starSlot {
	slots := make([]starSlot, 0, len(fill))
	for i := len(fill) - 1; i >= 0; i-- {
		slots = append(slots, starSlot{Value: i + 1, Filled: fill[i]})
	}
	return slots
}

type confirmDialog struct {
	Action string
	Label  string
}

var templateFuncs = template.FuncMap{
	"starSlots": starSlots,
	"confirmAction": func(action string, p *view.PendingDelete) confirmDialog {
		return confirmDialog{Action: action, Label: p.Label}
	},
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}
