package story

import (
	"fmt"
	"strings"
	"time"

	"github.com/pbaille/courtlog/internal/domain"
)

// Template builds the deterministic fallback story. Pure function of
// the match record; same input yields the identical string.
func Template(m domain.Match) string {
	result := resultPhrase(m.Result)

	var sb strings.Builder

	fmt.Fprintf(&sb, "Match Diary Entry - %s\n\n", longDate(m.Date))

	fmt.Fprintf(&sb, "Today's match against %s (%s level) on %s court ended in a %s.\n\n",
		m.OpponentName, m.OpponentLevel, m.CourtSurface, result)

	sb.WriteString("**Match Overview:**\n")
	fmt.Fprintf(&sb, "I came into this match feeling %s confidence and %s energy levels. "+
		"The conditions were challenging, playing on %s surface against a %s opponent.\n\n",
		m.ConfidenceRating, m.EnergyRating, m.CourtSurface, m.OpponentLevel)

	sb.WriteString("**Performance Analysis:**\n")
	fmt.Fprintf(&sb, "My strengths today were clearly %s. However, I struggled with %s.\n\n",
		listOr(m.Strengths, "not clearly defined"),
		listOr(m.Weaknesses, "various aspects of my game"))

	sb.WriteString("**Key Moments:**\n")
	if m.KeyMoment1 != "" {
		fmt.Fprintf(&sb, "1. %s\n", m.KeyMoment1)
	}
	if m.KeyMoment2 != "" {
		fmt.Fprintf(&sb, "2. %s\n", m.KeyMoment2)
	}
	sb.WriteString("\n")

	sb.WriteString("**Reflection:**\n")
	fmt.Fprintf(&sb, "This match provided valuable insights into my game. "+
		"The %s reflects both my preparation and execution on the court. "+
		"I'll take these lessons forward to improve in future matches.", result)

	return sb.String()
}

func resultPhrase(r domain.Result) string {
	switch r {
	case domain.ResultWin:
		return "victory"
	case domain.ResultLoss:
		return "defeat"
	default:
		return "split sets"
	}
}

// longDate renders "Friday, March 15, 2024". Unparseable input falls
// through to the raw string so the template stays total.
func longDate(date string) string {
	t, err := time.Parse("2006-01-02", domain.DateOnly(date))
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}
