package domain

import "time"

// OpponentLevel is the self-assessed skill tier of the opponent.
type OpponentLevel string

const (
	LevelBeginner     OpponentLevel = "beginner"
	LevelIntermediate OpponentLevel = "intermediate"
	LevelAdvanced     OpponentLevel = "advanced"
)

// Result is the outcome of a match.
type Result string

const (
	ResultWin       Result = "win"
	ResultLoss      Result = "loss"
	ResultSplitSets Result = "split sets"
)

// Surface is the court surface the match was played on.
type Surface string

const (
	SurfaceHard  Surface = "hard"
	SurfaceClay  Surface = "clay"
	SurfaceGrass Surface = "grass"
	SurfaceOther Surface = "other"
)

// Rating is a coarse self-rating used for energy and confidence.
type Rating string

const (
	RatingLow    Rating = "low"
	RatingMedium Rating = "medium"
	RatingHigh   Rating = "high"
)

// Match represents one logged tennis match
type Match struct {
	ID               string        `json:"id"`
	OpponentName     string        `json:"opponent_name"`
	OpponentLevel    OpponentLevel `json:"opponent_level"`
	Date             string        `json:"date"` // ISO 8601 date
	Result           Result        `json:"result"`
	CourtSurface     Surface       `json:"court_surface"`
	Strengths        []string      `json:"strengths,omitempty"`
	Weaknesses       []string      `json:"weaknesses,omitempty"`
	EnergyRating     Rating        `json:"energy_rating"`
	ConfidenceRating Rating        `json:"confidence_rating"`
	KeyMoment1       string        `json:"key_moment_1,omitempty"`
	KeyMoment2       string        `json:"key_moment_2,omitempty"`
	Story            string        `json:"story,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// MatchUpdate holds the fields of a shallow update. Nil fields are
// left untouched on the stored record.
type MatchUpdate struct {
	OpponentName     *string        `json:"opponent_name,omitempty"`
	OpponentLevel    *OpponentLevel `json:"opponent_level,omitempty"`
	Date             *string        `json:"date,omitempty"`
	Result           *Result        `json:"result,omitempty"`
	CourtSurface     *Surface       `json:"court_surface,omitempty"`
	Strengths        *[]string      `json:"strengths,omitempty"`
	Weaknesses       *[]string      `json:"weaknesses,omitempty"`
	EnergyRating     *Rating        `json:"energy_rating,omitempty"`
	ConfidenceRating *Rating        `json:"confidence_rating,omitempty"`
	KeyMoment1       *string        `json:"key_moment_1,omitempty"`
	KeyMoment2       *string        `json:"key_moment_2,omitempty"`
	Story            *string        `json:"story,omitempty"`
}

// MatchFilters narrows a match collection. Zero-value fields impose
// no constraint; set fields combine with AND.
type MatchFilters struct {
	Result        Result        `json:"result,omitempty"`
	CourtSurface  Surface       `json:"court_surface,omitempty"`
	OpponentLevel OpponentLevel `json:"opponent_level,omitempty"`
	DateFrom      string        `json:"date_from,omitempty"` // inclusive
	DateTo        string        `json:"date_to,omitempty"`   // inclusive
}

// DateOnly reduces an ISO 8601 string to calendar-date granularity.
// ISO dates compare correctly as strings at that granularity.
func DateOnly(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

// Valid reports whether the level is one of the known tiers.
func (l OpponentLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Valid reports whether the result is one of the known outcomes.
func (r Result) Valid() bool {
	switch r {
	case ResultWin, ResultLoss, ResultSplitSets:
		return true
	}
	return false
}

// Valid reports whether the surface is one of the known kinds.
func (s Surface) Valid() bool {
	switch s {
	case SurfaceHard, SurfaceClay, SurfaceGrass, SurfaceOther:
		return true
	}
	return false
}

// Valid reports whether the rating is one of the known grades.
func (r Rating) Valid() bool {
	switch r {
	case RatingLow, RatingMedium, RatingHigh:
		return true
	}
	return false
}
