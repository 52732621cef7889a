package trends

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/courtlog/internal/domain"
)

// Most recent first, as the store returns them.
func sampleMatches() []domain.Match {
	return []domain.Match{
		{OpponentName: "A", Date: "2024-03-05", Result: domain.ResultWin},
		{OpponentName: "B", Date: "2024-03-04", Result: domain.ResultLoss},
		{OpponentName: "C", Date: "2024-03-03", Result: domain.ResultSplitSets},
		{OpponentName: "D", Date: "2024-03-02", Result: domain.ResultWin},
		{OpponentName: "E", Date: "2024-03-01", Result: domain.ResultWin},
		{OpponentName: "F", Date: "2024-02-01", Result: domain.ResultLoss},
	}
}

func TestTake(t *testing.T) {
	snap := Take(sampleMatches(), DefaultWindow)

	// The sixth match falls outside the window.
	assert.Equal(t, Snapshot{Wins: 3, Losses: 1, Splits: 1, Total: 5}, snap)
}

func TestTakeSmallCollection(t *testing.T) {
	snap := Take(sampleMatches()[:2], DefaultWindow)
	assert.Equal(t, Snapshot{Wins: 1, Losses: 1, Total: 2}, snap)

	assert.Equal(t, Snapshot{}, Take(nil, DefaultWindow))
}

func TestTakeZeroWindowDefaults(t *testing.T) {
	assert.Equal(t, Take(sampleMatches(), DefaultWindow), Take(sampleMatches(), 0))
}

func TestSeries(t *testing.T) {
	points := Series(sampleMatches(), DefaultWindow)
	require.Len(t, points, 5)

	// Oldest first for chart rendering.
	assert.Equal(t, Point{Date: "Mar 01", Value: 1, Label: "E (win)"}, points[0])
	assert.Equal(t, Point{Date: "Mar 02", Value: 1, Label: "D (win)"}, points[1])
	assert.Equal(t, Point{Date: "Mar 03", Value: 0, Label: "C (split sets)"}, points[2])
	assert.Equal(t, Point{Date: "Mar 04", Value: -1, Label: "B (loss)"}, points[3])
	assert.Equal(t, Point{Date: "Mar 05", Value: 1, Label: "A (win)"}, points[4])
}

func TestSeriesEmpty(t *testing.T) {
	assert.Empty(t, Series(nil, DefaultWindow))
}
