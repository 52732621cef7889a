package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pbaille/courtlog/internal/domain"
)

// matchesKey is the single key the whole collection is serialized under.
const matchesKey = "matches"

// Store handles durable CRUD over the match collection. Storage faults
// never reach the caller: reads degrade to an empty collection and
// writes leave the store unchanged, both logged.
//
// Concurrent writers against the same database file are last-writer-wins
// at the collection level; fine for a single-user local tool.
type Store struct {
	kv  *KV
	log zerolog.Logger
}

// New creates a Store backed by the database at path.
func New(path string, log zerolog.Logger) (*Store, error) {
	kv, err := OpenKV(path)
	if err != nil {
		return nil, err
	}
	return &Store{kv: kv, log: log}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.kv.Close()
}

// List returns the full collection, sorted by date descending. An
// unreadable or corrupt store yields an empty collection.
func (s *Store) List() []domain.Match {
	matches, err := s.load()
	if err != nil {
		s.log.Error().Err(err).Msg("reading matches from storage")
		return nil
	}
	return matches
}

// Create assigns a fresh id and creation timestamp, appends the record,
// re-sorts and persists the collection. The stored record is returned.
func (s *Store) Create(m domain.Match) domain.Match {
	m.ID = uuid.New().String()
	m.CreatedAt = time.Now().UTC()

	matches := append(s.List(), m)
	sortByDate(matches)
	s.persist(matches)

	return m
}

// Update shallow-merges the set fields of upd into the record with the
// given id, then re-sorts and persists. An unknown id is a silent no-op;
// best effort, matching the availability-over-consistency contract.
func (s *Store) Update(id string, upd domain.MatchUpdate) {
	matches := s.List()
	for i := range matches {
		if matches[i].ID != id {
			continue
		}
		apply(&matches[i], upd)
		sortByDate(matches)
		s.persist(matches)
		return
	}
}

// Delete removes the record with the given id if present. Idempotent.
func (s *Store) Delete(id string) {
	matches := s.List()
	kept := matches[:0]
	for _, m := range matches {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(matches) {
		return
	}
	s.persist(kept)
}

// GetByID returns the record with the given id, or ok=false.
func (s *Store) GetByID(id string) (domain.Match, bool) {
	for _, m := range s.List() {
		if m.ID == id {
			return m, true
		}
	}
	return domain.Match{}, false
}

// Recent returns the n most recent matches. A non-positive n yields
// an empty result.
func (s *Store) Recent(n int) []domain.Match {
	if n <= 0 {
		return nil
	}
	matches := s.List()
	if n < len(matches) {
		matches = matches[:n]
	}
	return matches
}

// Filter applies the set predicates conjunctively, preserving input
// order. Pure function, no I/O. Date bounds are inclusive and compared
// at calendar-date granularity.
func Filter(matches []domain.Match, f domain.MatchFilters) []domain.Match {
	out := make([]domain.Match, 0, len(matches))
	for _, m := range matches {
		if f.Result != "" && m.Result != f.Result {
			continue
		}
		if f.CourtSurface != "" && m.CourtSurface != f.CourtSurface {
			continue
		}
		if f.OpponentLevel != "" && m.OpponentLevel != f.OpponentLevel {
			continue
		}
		date := domain.DateOnly(m.Date)
		if f.DateFrom != "" && date < domain.DateOnly(f.DateFrom) {
			continue
		}
		if f.DateTo != "" && date > domain.DateOnly(f.DateTo) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (s *Store) load() ([]domain.Match, error) {
	raw, ok, err := s.kv.Get(matchesKey)
	if err != nil {
		return nil, fmt.Errorf("read matches: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var matches []domain.Match
	if err := json.Unmarshal(raw, &matches); err != nil {
		return nil, fmt.Errorf("decode matches: %w", err)
	}
	return matches, nil
}

func (s *Store) persist(matches []domain.Match) {
	raw, err := json.Marshal(matches)
	if err != nil {
		s.log.Error().Err(err).Msg("encoding matches")
		return
	}
	if err := s.kv.Put(matchesKey, raw); err != nil {
		s.log.Error().Err(err).Msg("writing matches to storage")
	}
}

// sortByDate orders most recent first. Same-day matches keep a
// deterministic order via createdAt, then id.
func sortByDate(matches []domain.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		di, dj := domain.DateOnly(matches[i].Date), domain.DateOnly(matches[j].Date)
		if di != dj {
			return di > dj
		}
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID < matches[j].ID
	})
}

func apply(m *domain.Match, upd domain.MatchUpdate) {
	if upd.OpponentName != nil {
		m.OpponentName = *upd.OpponentName
	}
	if upd.OpponentLevel != nil {
		m.OpponentLevel = *upd.OpponentLevel
	}
	if upd.Date != nil {
		m.Date = *upd.Date
	}
	if upd.Result != nil {
		m.Result = *upd.Result
	}
	if upd.CourtSurface != nil {
		m.CourtSurface = *upd.CourtSurface
	}
	if upd.Strengths != nil {
		m.Strengths = *upd.Strengths
	}
	if upd.Weaknesses != nil {
		m.Weaknesses = *upd.Weaknesses
	}
	if upd.EnergyRating != nil {
		m.EnergyRating = *upd.EnergyRating
	}
	if upd.ConfidenceRating != nil {
		m.ConfidenceRating = *upd.ConfidenceRating
	}
	if upd.KeyMoment1 != nil {
		m.KeyMoment1 = *upd.KeyMoment1
	}
	if upd.KeyMoment2 != nil {
		m.KeyMoment2 = *upd.KeyMoment2
	}
	if upd.Story != nil {
		m.Story = *upd.Story
	}
}
