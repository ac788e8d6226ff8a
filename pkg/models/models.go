package models

import (
	"time"
)

type Status string

const (
	StatusToPlay    Status = "Por jugar"
	StatusPlaying   Status = "Jugando"
	StatusCompleted Status = "Completado"
	StatusAbandoned Status = "Abandonado"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusToPlay, StatusPlaying, StatusCompleted, StatusAbandoned}

func (s Status) Valid() bool {
	switch s {
	case StatusToPlay, StatusPlaying, StatusCompleted, StatusAbandoned:
		return true
	}
	return false
}

func (s Status) Label() string {
	switch s {
	case StatusToPlay:
		return "To play"
	case StatusPlaying:
		return "Playing"
	case StatusCompleted:
		return "Completed"
	case StatusAbandoned:
		return "Abandoned"
	}
	return string(s)
}

const (
	MaxHoursPlayed = 500
	MaxStars       = 5
	// AnonymousAuthor replaces a blank review author.
	AnonymousAuthor = "Anonymous"
)

type Game struct {
	ID          string `json:"_id"`
	Name        string `json:"nombre"`
	Platform    string `json:"plataforma"`
	CoverURL    string `json:"portadaURL,omitempty"`
	Status      Status `json:"estado"`
	HoursPlayed int    `json:"horasJugadas"`
	Completed   bool   `json:"completado"`
	Stars       int    `json:"estrellas"`
}

// GameInput is the create/update payload; the backend assigns the id.
type GameInput struct {
	Name        string `json:"nombre"`
	Platform    string `json:"plataforma"`
	CoverURL    string `json:"portadaURL"`
	Status      Status `json:"estado"`
	HoursPlayed int    `json:"horasJugadas"`
	Completed   bool   `json:"completado"`
	Stars       int    `json:"estrellas"`
}

type Review struct {
	ID        string    `json:"_id"`
	GameID    string    `json:"juego"`
	Author    string    `json:"autor"`
	Text      string    `json:"texto"`
	Stars     int       `json:"estrellas"`
	CreatedAt time.Time `json:"fecha"`
}

type ReviewInput struct {
	Author string `json:"autor"`
	Text   string `json:"texto"`
	Stars  int    `json:"estrellas"`
	GameID string `json:"juego"`
}
