// Package trends aggregates recent match outcomes for the home screen
// snapshot and the result chart.
package trends

import (
	"fmt"
	"time"

	"github.com/pbaille/courtlog/internal/domain"
)

// DefaultWindow is how many recent matches the views consider.
const DefaultWindow = 5

// Snapshot summarizes outcomes over the most recent matches.
type Snapshot struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Splits int `json:"splits"`
	Total  int `json:"total"`
}

// Point is one chart sample: win maps to 1, split sets to 0, loss to -1.
type Point struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Take counts wins/losses/splits over the last window matches. The
// input is expected most-recent-first, as the store returns it.
func Take(matches []domain.Match, window int) Snapshot {
	if window <= 0 {
		window = DefaultWindow
	}
	if window < len(matches) {
		matches = matches[:window]
	}

	var s Snapshot
	for _, m := range matches {
		switch m.Result {
		case domain.ResultWin:
			s.Wins++
		case domain.ResultLoss:
			s.Losses++
		case domain.ResultSplitSets:
			s.Splits++
		}
		s.Total++
	}
	return s
}

// Series returns chart points for the last window matches, oldest first.
func Series(matches []domain.Match, window int) []Point {
	if window <= 0 {
		window = DefaultWindow
	}
	if window < len(matches) {
		matches = matches[:window]
	}

	points := make([]Point, 0, len(matches))
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		points = append(points, Point{
			Date:  shortDate(m.Date),
			Value: resultValue(m.Result),
			Label: fmt.Sprintf("%s (%s)", m.OpponentName, m.Result),
		})
	}
	return points
}

func resultValue(r domain.Result) int {
	switch r {
	case domain.ResultWin:
		return 1
	case domain.ResultLoss:
		return -1
	default:
		return 0
	}
}

func shortDate(date string) string {
	t, err := time.Parse("2006-01-02", domain.DateOnly(date))
	if err != nil {
		return date
	}
	return t.Format("Jan 02")
}
