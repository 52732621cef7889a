package story

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/courtlog/internal/domain"
)

func janeDoe() domain.Match {
	return domain.Match{
		ID:               "m1",
		OpponentName:     "Jane Doe",
		OpponentLevel:    domain.LevelIntermediate,
		Date:             "2024-03-15",
		Result:           domain.ResultWin,
		CourtSurface:     domain.SurfaceClay,
		EnergyRating:     domain.RatingHigh,
		ConfidenceRating: domain.RatingMedium,
		Strengths:        []string{"Serve", "Footwork"},
		Weaknesses:       nil,
		KeyMoment1:       "Broke serve in final set",
		KeyMoment2:       "",
	}
}

func TestTemplate(t *testing.T) {
	got := Template(janeDoe())

	assert.Contains(t, got, "victory")
	assert.Contains(t, got, "Jane Doe")
	assert.Contains(t, got, "clay")
	assert.Contains(t, got, "Friday, March 15, 2024")
	assert.Contains(t, got, "Serve, Footwork")
	assert.Contains(t, got, "various aspects of my game")
	assert.Contains(t, got, "1. Broke serve in final set")
	assert.NotContains(t, got, "2. ")
}

func TestTemplateDeterministic(t *testing.T) {
	m := janeDoe()
	assert.Equal(t, Template(m), Template(m))
}

func TestTemplateResultPhrases(t *testing.T) {
	m := janeDoe()

	m.Result = domain.ResultLoss
	assert.Contains(t, Template(m), "ended in a defeat.")

	m.Result = domain.ResultSplitSets
	assert.Contains(t, Template(m), "ended in a split sets.")
}

func TestTemplateEmptyStrengths(t *testing.T) {
	m := janeDoe()
	m.Strengths = nil

	assert.Contains(t, Template(m), "not clearly defined")
}

func TestTemplateBothKeyMoments(t *testing.T) {
	m := janeDoe()
	m.KeyMoment2 = "Saved two match points"

	got := Template(m)
	require.Contains(t, got, "1. Broke serve in final set")
	require.Contains(t, got, "2. Saved two match points")

	// Moment lines keep their order.
	assert.Less(t, strings.Index(got, "1. "), strings.Index(got, "2. "))
}

func TestTemplateClosingReflection(t *testing.T) {
	got := Template(janeDoe())
	assert.Contains(t, got, "The victory reflects both my preparation and execution")
}
