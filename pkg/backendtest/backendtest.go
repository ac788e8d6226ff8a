// Package backendtest runs an in-process copy of the games backend contract
// (/api/juegos and /api/resenas) for tests.
package backendtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gametracker/pkg/models"
)

type gameRecord struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Platform    string `gorm:"not null"`
	CoverURL    string
	Status      string `gorm:"size:20;not null"`
	HoursPlayed int
	Completed   bool
	Stars       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type reviewRecord struct {
	ID        string `gorm:"primaryKey"`
	GameID    string `gorm:"index;not null"`
	Author    string
	Text      string `gorm:"not null"`
	Stars     int    `gorm:"not null;check:stars >= 1 AND stars <= 5"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Server is a running fake backend. URL is the API base URL, ending in /api.
type Server struct {
	URL string
	DB  *gorm.DB

	httpServer *httptest.Server
	mu         sync.Mutex
	calls      map[string]int
	failures   map[string]int
}

// New starts a fake backend with its own in-memory database and registers
// its shutdown with t.Cleanup.
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := openDB()
	if err != nil {
		t.Fatalf("backendtest: %v", err)
	}

	s := &Server{
		DB:       db,
		calls:    make(map[string]int),
		failures: make(map[string]int),
	}
	s.httpServer = httptest.NewServer(s.router())
	s.URL = s.httpServer.URL + "/api"

	t.Cleanup(func() {
		s.httpServer.Close()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return s
}

func openDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&gameRecord{}, &reviewRecord{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(s.track)

	api := r.Group("/api")
	api.GET("/juegos", s.listGames)
	api.GET("/juegos/:id", s.getGame)
	api.POST("/juegos", s.createGame)
	api.PUT("/juegos/:id", s.updateGame)
	api.DELETE("/juegos/:id", s.deleteGame)
	api.GET("/resenas", s.listReviews)
	api.GET("/resenas/:id", s.getReview)
	api.POST("/resenas", s.createReview)
	api.PUT("/resenas/:id", s.updateReview)
	api.DELETE("/resenas/:id", s.deleteReview)
	return r
}

// Route keys have the form "GET /api/juegos/:id".
func routeKey(method, route string) string {
	return method + " " + route
}

func (s *Server) track(c *gin.Context) {
	key := routeKey(c.Request.Method, c.FullPath())

	s.mu.Lock()
	s.calls[key]++
	status := s.failures[key]
	delete(s.failures, key)
	s.mu.Unlock()

	if status != 0 {
		c.AbortWithStatusJSON(status, gin.H{"error": "injected failure"})
		return
	}
	c.Next()
}

// Calls reports how many requests reached the given route, e.g.
// Calls("POST", "/api/juegos").
func (s *Server) Calls(method, route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[routeKey(method, route)]
}

// TotalCalls reports every request received so far.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// FailNext makes the next request to the route answer with status.
func (s *Server) FailNext(method, route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[routeKey(method, route)] = status
}

// SeedGame stores a game directly and returns it with its assigned id.
func (s *Server) SeedGame(t testing.TB, in models.GameInput) models.Game {
	t.Helper()
	rec := gameFromInput(uuid.NewString(), in)
	if err := s.DB.Create(&rec).Error; err != nil {
		t.Fatalf("seed game: %v", err)
	}
	return rec.toModel()
}

func (s *Server) SeedReview(t testing.TB, in models.ReviewInput) models.Review {
	t.Helper()
	rec := reviewFromInput(uuid.NewString(), in)
	if err := s.DB.Create(&rec).Error; err != nil {
		t.Fatalf("seed review: %v", err)
	}
	return rec.toModel()
}

func (s *Server) GameCount() int64 {
	var n int64
	s.DB.Model(&gameRecord{}).Count(&n)
	return n
}

func (s *Server) ReviewCount() int64 {
	var n int64
	s.DB.Model(&reviewRecord{}).Count(&n)
	return n
}

func gameFromInput(id string, in models.GameInput) gameRecord {
	return gameRecord{
		ID:          id,
		Name:        in.Name,
		Platform:    in.Platform,
		CoverURL:    in.CoverURL,
		Status:      string(in.Status),
		HoursPlayed: in.HoursPlayed,
		Completed:   in.Completed,
		Stars:       in.Stars,
	}
}

func (g gameRecord) toModel() models.Game {
	return models.Game{
		ID:          g.ID,
		Name:        g.Name,
		Platform:    g.Platform,
		CoverURL:    g.CoverURL,
		Status:      models.Status(g.Status),
		HoursPlayed: g.HoursPlayed,
		Completed:   g.Completed,
		Stars:       g.Stars,
	}
}

func reviewFromInput(id string, in models.ReviewInput) reviewRecord {
	return reviewRecord{
		ID:     id,
		GameID: in.GameID,
		Author: in.Author,
		Text:   in.Text,
		Stars:  in.Stars,
	}
}

func (r reviewRecord) toModel() models.Review {
	return models.Review{
		ID:        r.ID,
		GameID:    r.GameID,
		Author:    r.Author,
		Text:      r.Text,
		Stars:     r.Stars,
		CreatedAt: r.CreatedAt,
	}
}

func (s *Server) listGames(c *gin.Context) {
	var records []gameRecord
	if err := s.DB.Order("created_at").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	games := make([]models.Game, len(records))
	for i, rec := range records {
		games[i] = rec.toModel()
	}
	c.JSON(http.StatusOK, games)
}

func (s *Server) getGame(c *gin.Context) {
	var rec gameRecord
	if err := s.DB.First(&rec, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	c.JSON(http.StatusOK, rec.toModel())
}

func (s *Server) createGame(c *gin.Context) {
	var in models.GameInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if in.Name == "" || in.Platform == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nombre and plataforma are required"})
		return
	}
	rec := gameFromInput(uuid.NewString(), in)
	if err := s.DB.Create(&rec).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rec.toModel())
}

func (s *Server) updateGame(c *gin.Context) {
	var rec gameRecord
	if err := s.DB.First(&rec, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	var in models.GameInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated := gameFromInput(rec.ID, in)
	updated.CreatedAt = rec.CreatedAt
	if err := s.DB.Save(&updated).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated.toModel())
}

func (s *Server) deleteGame(c *gin.Context) {
	result := s.DB.Delete(&gameRecord{}, "id = ?", c.Param("id"))
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	s.DB.Delete(&reviewRecord{}, "game_id = ?", c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"mensaje": "Juego eliminado"})
}

func (s *Server) listReviews(c *gin.Context) {
	query := s.DB.Order("created_at")
	if gameID := c.Query("juegoId"); gameID != "" {
		query = query.Where("game_id = ?", gameID)
	}
	var records []reviewRecord
	if err := query.Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	reviews := make([]models.Review, len(records))
	for i, rec := range records {
		reviews[i] = rec.toModel()
	}
	c.JSON(http.StatusOK, reviews)
}

func (s *Server) getReview(c *gin.Context) {
	var rec reviewRecord
	if err := s.DB.First(&rec, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
		return
	}
	c.JSON(http.StatusOK, rec.toModel())
}

func (s *Server) createReview(c *gin.Context) {
	var in models.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if in.GameID == "" || in.Text == "" || in.Stars < 1 || in.Stars > models.MaxStars {
		c.JSON(http.StatusBadRequest, gin.H{"error": "juego, texto and estrellas 1-5 are required"})
		return
	}
	rec := reviewFromInput(uuid.NewString(), in)
	if err := s.DB.Create(&rec).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rec.toModel())
}

func (s *Server) updateReview(c *gin.Context) {
	var rec reviewRecord
	if err := s.DB.First(&rec, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
		return
	}
	var in models.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated := reviewFromInput(rec.ID, in)
	updated.CreatedAt = rec.CreatedAt
	if err := s.DB.Save(&updated).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated.toModel())
}

func (s *Server) deleteReview(c *gin.Context) {
	result := s.DB.Delete(&reviewRecord{}, "id = ?", c.Param("id"))
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "Reseña eliminada"})
}
