package view

import (
	"fmt"
	"strconv"
	"strings"

	"gametracker/pkg/models"
)

// Filter selects which games the library shows: every game, or the games in
// one status.
type Filter string

const FilterAll Filter = "All"

func ParseFilter(s string) (Filter, error) {
	if s == "" || Filter(s) == FilterAll {
		return FilterAll, nil
	}
	if !models.Status(s).Valid() {
		return "", fmt.Errorf("unknown status filter %q", s)
	}
	return Filter(s), nil
}

func (f Filter) Label() string {
	if f == FilterAll {
		return "All"
	}
	return models.Status(f).Label()
}

func (f Filter) Match(g models.Game) bool {
	return f == FilterAll || g.Status == models.Status(f)
}

// Filters lists every filter in the order the library offers them.
func Filters() []Filter {
	out := []Filter{FilterAll}
	for _, s := range models.Statuses {
		out = append(out, Filter(s))
	}
	return out
}

// FilterGames returns games unchanged for FilterAll, otherwise the games
// whose status equals the filter.
func FilterGames(games []models.Game, f Filter) []models.Game {
	if f == FilterAll {
		return games
	}
	out := make([]models.Game, 0, len(games))
	for _, g := range games {
		if f.Match(g) {
			out = append(out, g)
		}
	}
	return out
}

type LibraryStats struct {
	Total     int
	Completed int
	Hours     int
}

// ComputeLibraryStats always works on the unfiltered collection.
func ComputeLibraryStats(games []models.Game) LibraryStats {
	stats := LibraryStats{Total: len(games)}
	for _, g := range games {
		if g.Completed {
			stats.Completed++
		}
		stats.Hours += g.HoursPlayed
	}
	return stats
}

func EmptyLibraryMessage(f Filter) string {
	if f == FilterAll {
		return "Your library is empty! Add your first game."
	}
	return fmt.Sprintf("You have no games in status %q.", f.Label())
}

type ReviewStats struct {
	Count   int
	Average float64
}

// ComputeReviewStats keeps the unrounded mean; an empty list averages 0.
func ComputeReviewStats(reviews []models.Review) ReviewStats {
	stats := ReviewStats{Count: len(reviews)}
	if stats.Count == 0 {
		return stats
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Stars
	}
	stats.Average = float64(sum) / float64(stats.Count)
	return stats
}

// AverageLabel shows the mean with one decimal, "0" for no reviews.
func (s ReviewStats) AverageLabel() string {
	if s.Count == 0 {
		return "0"
	}
	return oneDecimal(s.Average)
}

// oneDecimal rounds the exact binary value of x half up at the first
// decimal, so 1.15 (stored just below) gives 1.1 and 1.25 gives 1.3.
// x must not be negative.
func oneDecimal(x float64) string {
	exact := strconv.FormatFloat(x, 'f', 64, 64)
	dot := strings.IndexByte(exact, '.')
	tenths, _ := strconv.Atoi(exact[:dot] + exact[dot+1:dot+2])
	if exact[dot+2] >= '5' {
		tenths++
	}
	return fmt.Sprintf("%d.%d", tenths/10, tenths%10)
}
