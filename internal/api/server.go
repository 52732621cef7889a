package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pbaille/courtlog/internal/domain"
	"github.com/pbaille/courtlog/internal/store"
	"github.com/pbaille/courtlog/internal/story"
	"github.com/pbaille/courtlog/internal/trends"
)

// Server handles HTTP requests for the match diary API. This is the
// only contract the UI layer depends on.
type Server struct {
	store     *store.Store
	generator *story.Generator
	addr      string
	log       zerolog.Logger
}

// New creates a new API server
func New(s *store.Store, g *story.Generator, addr string, log zerolog.Logger) *Server {
	return &Server{store: s, generator: g, addr: addr, log: log}
}

// Handler returns the routed handler, CORS included.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Matches
	mux.HandleFunc("GET /matches", s.listMatches)
	mux.HandleFunc("POST /matches", s.createMatch)
	mux.HandleFunc("GET /matches/recent", s.recentMatches)
	mux.HandleFunc("GET /matches/{id}", s.getMatch)
	mux.HandleFunc("PUT /matches/{id}", s.updateMatch)
	mux.HandleFunc("DELETE /matches/{id}", s.deleteMatch)
	mux.HandleFunc("POST /matches/{id}/story", s.generateStory)

	// Trends
	mux.HandleFunc("GET /trends", s.getTrends)

	// Health check
	mux.HandleFunc("GET /health", s.health)

	return withCORS(mux)
}

// Run starts the HTTP server
func (s *Server) Run() error {
	s.log.Info().Str("addr", s.addr).Msg("starting server")
	return http.ListenAndServe(s.addr, s.Handler())
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateMatchRequest is the request body for logging a match.
type CreateMatchRequest struct {
	OpponentName     string               `json:"opponent_name"`
	OpponentLevel    domain.OpponentLevel `json:"opponent_level"`
	Date             string               `json:"date"`
	Result           domain.Result        `json:"result"`
	CourtSurface     domain.Surface       `json:"court_surface"`
	Strengths        []string             `json:"strengths,omitempty"`
	Weaknesses       []string             `json:"weaknesses,omitempty"`
	EnergyRating     domain.Rating        `json:"energy_rating"`
	ConfidenceRating domain.Rating        `json:"confidence_rating"`
	KeyMoment1       string               `json:"key_moment_1,omitempty"`
	KeyMoment2       string               `json:"key_moment_2,omitempty"`
}

func (r CreateMatchRequest) validate() string {
	if strings.TrimSpace(r.OpponentName) == "" {
		return "opponent_name is required"
	}
	if !r.OpponentLevel.Valid() {
		return "opponent_level must be beginner, intermediate or advanced"
	}
	if !r.Result.Valid() {
		return "result must be win, loss or split sets"
	}
	if !r.CourtSurface.Valid() {
		return "court_surface must be hard, clay, grass or other"
	}
	if !r.EnergyRating.Valid() || !r.ConfidenceRating.Valid() {
		return "ratings must be low, medium or high"
	}
	return ""
}

func (s *Server) createMatch(w http.ResponseWriter, r *http.Request) {
	var req CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	match := s.store.Create(domain.Match{
		OpponentName:     strings.TrimSpace(req.OpponentName),
		OpponentLevel:    req.OpponentLevel,
		Date:             req.Date,
		Result:           req.Result,
		CourtSurface:     req.CourtSurface,
		Strengths:        req.Strengths,
		Weaknesses:       req.Weaknesses,
		EnergyRating:     req.EnergyRating,
		ConfidenceRating: req.ConfidenceRating,
		KeyMoment1:       req.KeyMoment1,
		KeyMoment2:       req.KeyMoment2,
	})

	writeJSON(w, http.StatusCreated, match)
}

func (s *Server) listMatches(w http.ResponseWriter, r *http.Request) {
	matches := s.store.List()

	q := r.URL.Query()
	filters := domain.MatchFilters{
		Result:        domain.Result(q.Get("result")),
		CourtSurface:  domain.Surface(q.Get("surface")),
		OpponentLevel: domain.OpponentLevel(q.Get("level")),
		DateFrom:      q.Get("from"),
		DateTo:        q.Get("to"),
	}
	if filters != (domain.MatchFilters{}) {
		matches = store.Filter(matches, filters)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
		"count":   len(matches),
	})
}

func (s *Server) recentMatches(w http.ResponseWriter, r *http.Request) {
	count := trends.DefaultWindow
	if c := r.URL.Query().Get("count"); c != "" {
		if n, err := strconv.Atoi(c); err == nil && n > 0 {
			count = n
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"matches": s.store.Recent(count),
	})
}

func (s *Server) getMatch(w http.ResponseWriter, r *http.Request) {
	match, ok := s.store.GetByID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	writeJSON(w, http.StatusOK, match)
}

func (s *Server) updateMatch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var upd domain.MatchUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The store treats unknown ids as a silent no-op; the HTTP boundary
	// still reports 404 so the UI can tell the difference.
	if _, ok := s.store.GetByID(id); !ok {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}

	s.store.Update(id, upd)

	match, _ := s.store.GetByID(id)
	writeJSON(w, http.StatusOK, match)
}

func (s *Server) deleteMatch(w http.ResponseWriter, r *http.Request) {
	s.store.Delete(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) generateStory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	match, ok := s.store.GetByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}

	text := s.generator.Generate(r.Context(), match)
	s.store.Update(id, domain.MatchUpdate{Story: &text})

	match, _ = s.store.GetByID(id)
	writeJSON(w, http.StatusOK, match)
}

func (s *Server) getTrends(w http.ResponseWriter, r *http.Request) {
	window := trends.DefaultWindow
	if v := r.URL.Query().Get("window"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			window = n
		}
	}

	matches := s.store.List()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"snapshot": trends.Take(matches, window),
		"series":   trends.Series(matches, window),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
