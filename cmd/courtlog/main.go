package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pbaille/courtlog/internal/api"
	"github.com/pbaille/courtlog/internal/config"
	"github.com/pbaille/courtlog/internal/domain"
	"github.com/pbaille/courtlog/internal/store"
	"github.com/pbaille/courtlog/internal/story"
	"github.com/pbaille/courtlog/internal/trends"
)

var dbPath string

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration")
	}

	// Default database location
	defaultDB := cfg.DBPath
	if defaultDB == "" {
		home, _ := os.UserHomeDir()
		defaultDB = filepath.Join(home, ".courtlog", "courtlog.db")
	}

	rootCmd := &cobra.Command{
		Use:   "courtlog",
		Short: "Tennis match diary with generated match stories",
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "database path")

	rootCmd.AddCommand(addCmd(cfg))
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(editCmd(cfg))
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(storyCmd(cfg))
	rootCmd.AddCommand(recentCmd())
	rootCmd.AddCommand(trendsCmd())
	rootCmd.AddCommand(serveCmd(cfg))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getStore() (*store.Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.New(dbPath, log.Logger)
}

func newGenerator(cfg config.Config) *story.Generator {
	return story.New(story.Options{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.StoryTimeout,
	}, log.Logger)
}

// matchFlags collects every editable field of a match.
type matchFlags struct {
	opponent   string
	level      string
	date       string
	result     string
	surface    string
	strengths  []string
	weaknesses []string
	energy     string
	confidence string
	moment1    string
	moment2    string
}

func (f *matchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.opponent, "opponent", "", "opponent name")
	cmd.Flags().StringVar(&f.level, "level", string(domain.LevelIntermediate), "opponent level (beginner|intermediate|advanced)")
	cmd.Flags().StringVar(&f.date, "date", time.Now().Format("2006-01-02"), "match date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.result, "result", "", "result (win|loss|'split sets')")
	cmd.Flags().StringVar(&f.surface, "surface", string(domain.SurfaceHard), "court surface (hard|clay|grass|other)")
	cmd.Flags().StringArrayVar(&f.strengths, "strength", nil, "a strength today (repeatable)")
	cmd.Flags().StringArrayVar(&f.weaknesses, "weakness", nil, "a weakness today (repeatable)")
	cmd.Flags().StringVar(&f.energy, "energy", string(domain.RatingMedium), "energy rating (low|medium|high)")
	cmd.Flags().StringVar(&f.confidence, "confidence", string(domain.RatingMedium), "confidence rating (low|medium|high)")
	cmd.Flags().StringVar(&f.moment1, "moment1", "", "first key moment")
	cmd.Flags().StringVar(&f.moment2, "moment2", "", "second key moment")
}

func (f *matchFlags) validate() error {
	if strings.TrimSpace(f.opponent) == "" {
		return fmt.Errorf("--opponent is required")
	}
	if !domain.OpponentLevel(f.level).Valid() {
		return fmt.Errorf("invalid level: %s", f.level)
	}
	if !domain.Result(f.result).Valid() {
		return fmt.Errorf("invalid result: %s", f.result)
	}
	if !domain.Surface(f.surface).Valid() {
		return fmt.Errorf("invalid surface: %s", f.surface)
	}
	if !domain.Rating(f.energy).Valid() {
		return fmt.Errorf("invalid energy rating: %s", f.energy)
	}
	if !domain.Rating(f.confidence).Valid() {
		return fmt.Errorf("invalid confidence rating: %s", f.confidence)
	}
	return nil
}

// validateChanged checks only the flags the user actually set, so a
// partial edit stays partial but cannot persist an invalid value.
func (f *matchFlags) validateChanged(cmd *cobra.Command) error {
	changed := cmd.Flags().Changed

	if changed("opponent") && strings.TrimSpace(f.opponent) == "" {
		return fmt.Errorf("--opponent cannot be blank")
	}
	if changed("level") && !domain.OpponentLevel(f.level).Valid() {
		return fmt.Errorf("invalid level: %s", f.level)
	}
	if changed("result") && !domain.Result(f.result).Valid() {
		return fmt.Errorf("invalid result: %s", f.result)
	}
	if changed("surface") && !domain.Surface(f.surface).Valid() {
		return fmt.Errorf("invalid surface: %s", f.surface)
	}
	if changed("energy") && !domain.Rating(f.energy).Valid() {
		return fmt.Errorf("invalid energy rating: %s", f.energy)
	}
	if changed("confidence") && !domain.Rating(f.confidence).Valid() {
		return fmt.Errorf("invalid confidence rating: %s", f.confidence)
	}
	return nil
}

func (f *matchFlags) toMatch() domain.Match {
	return domain.Match{
		OpponentName:     strings.TrimSpace(f.opponent),
		OpponentLevel:    domain.OpponentLevel(f.level),
		Date:             f.date,
		Result:           domain.Result(f.result),
		CourtSurface:     domain.Surface(f.surface),
		Strengths:        f.strengths,
		Weaknesses:       f.weaknesses,
		EnergyRating:     domain.Rating(f.energy),
		ConfidenceRating: domain.Rating(f.confidence),
		KeyMoment1:       f.moment1,
		KeyMoment2:       f.moment2,
	}
}

func addCmd(cfg config.Config) *cobra.Command {
	var flags matchFlags
	var noStory bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a new match",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			match := s.Create(flags.toMatch())

			fmt.Printf("Logged match: %s\n", match.ID[:8])
			fmt.Printf("%s vs %s: %s\n", match.Date, match.OpponentName, match.Result)

			if noStory {
				fmt.Println("(skipped story generation)")
				return nil
			}

			fmt.Print("Generating story... ")
			text := newGenerator(cfg).Generate(cmd.Context(), match)
			s.Update(match.ID, domain.MatchUpdate{Story: &text})
			fmt.Printf("done\n\n%s\n", text)

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noStory, "no-story", false, "skip story generation")
	return cmd
}

func listCmd() *cobra.Command {
	var result, surface, level, from, to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List matches, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			matches := s.List()
			filters := domain.MatchFilters{
				Result:        domain.Result(result),
				CourtSurface:  domain.Surface(surface),
				OpponentLevel: domain.OpponentLevel(level),
				DateFrom:      from,
				DateTo:        to,
			}
			if filters != (domain.MatchFilters{}) {
				matches = store.Filter(matches, filters)
			}

			if len(matches) == 0 {
				fmt.Println("No matches yet. Use 'courtlog add' to log one.")
				return nil
			}

			for _, m := range matches {
				printMatchLine(m)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&result, "result", "", "filter by result")
	cmd.Flags().StringVar(&surface, "surface", "", "filter by court surface")
	cmd.Flags().StringVar(&level, "level", "", "filter by opponent level")
	cmd.Flags().StringVar(&from, "from", "", "filter by date from (inclusive)")
	cmd.Flags().StringVar(&to, "to", "", "filter by date to (inclusive)")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show match details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			match, err := findByPrefix(s, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("ID:         %s\n", match.ID)
			fmt.Printf("Date:       %s\n", match.Date)
			fmt.Printf("Opponent:   %s (%s)\n", match.OpponentName, match.OpponentLevel)
			fmt.Printf("Result:     %s\n", match.Result)
			fmt.Printf("Surface:    %s\n", match.CourtSurface)
			fmt.Printf("Energy:     %s\n", match.EnergyRating)
			fmt.Printf("Confidence: %s\n", match.ConfidenceRating)
			if len(match.Strengths) > 0 {
				fmt.Printf("Strengths:  %s\n", strings.Join(match.Strengths, ", "))
			}
			if len(match.Weaknesses) > 0 {
				fmt.Printf("Weaknesses: %s\n", strings.Join(match.Weaknesses, ", "))
			}
			if match.KeyMoment1 != "" {
				fmt.Printf("Moment 1:   %s\n", match.KeyMoment1)
			}
			if match.KeyMoment2 != "" {
				fmt.Printf("Moment 2:   %s\n", match.KeyMoment2)
			}
			if match.Story != "" {
				fmt.Printf("\n%s\n", match.Story)
			}

			return nil
		},
	}
}

func editCmd(cfg config.Config) *cobra.Command {
	var flags matchFlags
	var noStory bool

	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit a match and regenerate its story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validateChanged(cmd); err != nil {
				return err
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			match, err := findByPrefix(s, args[0])
			if err != nil {
				return err
			}

			upd := flags.toUpdate(cmd)
			s.Update(match.ID, upd)

			match, _ = s.GetByID(match.ID)
			fmt.Printf("Updated match: %s\n", match.ID[:8])

			if noStory {
				return nil
			}

			// An edit invalidates the story; regenerate from the new fields.
			fmt.Print("Regenerating story... ")
			text := newGenerator(cfg).Generate(cmd.Context(), match)
			s.Update(match.ID, domain.MatchUpdate{Story: &text})
			fmt.Printf("done\n\n%s\n", text)

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noStory, "no-story", false, "skip story regeneration")
	return cmd
}

// toUpdate turns only the flags the user actually set into an update.
func (f *matchFlags) toUpdate(cmd *cobra.Command) domain.MatchUpdate {
	var upd domain.MatchUpdate
	changed := cmd.Flags().Changed

	if changed("opponent") {
		v := strings.TrimSpace(f.opponent)
		upd.OpponentName = &v
	}
	if changed("level") {
		v := domain.OpponentLevel(f.level)
		upd.OpponentLevel = &v
	}
	if changed("date") {
		upd.Date = &f.date
	}
	if changed("result") {
		v := domain.Result(f.result)
		upd.Result = &v
	}
	if changed("surface") {
		v := domain.Surface(f.surface)
		upd.CourtSurface = &v
	}
	if changed("strength") {
		upd.Strengths = &f.strengths
	}
	if changed("weakness") {
		upd.Weaknesses = &f.weaknesses
	}
	if changed("energy") {
		v := domain.Rating(f.energy)
		upd.EnergyRating = &v
	}
	if changed("confidence") {
		v := domain.Rating(f.confidence)
		upd.ConfidenceRating = &v
	}
	if changed("moment1") {
		upd.KeyMoment1 = &f.moment1
	}
	if changed("moment2") {
		upd.KeyMoment2 = &f.moment2
	}
	return upd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			match, err := findByPrefix(s, args[0])
			if err != nil {
				return err
			}

			s.Delete(match.ID)
			fmt.Printf("Deleted match: %s\n", match.ID[:8])
			return nil
		},
	}
}

func storyCmd(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "story [id]",
		Short: "Generate (or regenerate) the story for a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			match, err := findByPrefix(s, args[0])
			if err != nil {
				return err
			}

			fmt.Print("Generating story... ")
			text := newGenerator(cfg).Generate(cmd.Context(), match)
			s.Update(match.ID, domain.MatchUpdate{Story: &text})
			fmt.Printf("done\n\n%s\n", text)

			return nil
		},
	}
}

func recentCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recent matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if count <= 0 {
				count = trends.DefaultWindow
			}

			matches := s.Recent(count)
			if len(matches) == 0 {
				fmt.Println("No matches yet. Use 'courtlog add' to log one.")
				return nil
			}

			for _, m := range matches {
				printMatchLine(m)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", trends.DefaultWindow, "number of matches to show")
	return cmd
}

func trendsCmd() *cobra.Command {
	var window int

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Show outcome trends over recent matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			matches := s.List()
			if len(matches) == 0 {
				fmt.Println("No matches available to display.")
				return nil
			}

			snap := trends.Take(matches, window)
			fmt.Printf("Last %d matches: %d wins, %d losses, %d split sets\n\n",
				snap.Total, snap.Wins, snap.Losses, snap.Splits)

			for _, p := range trends.Series(matches, window) {
				marker := "="
				switch {
				case p.Value > 0:
					marker = "+"
				case p.Value < 0:
					marker = "-"
				}
				fmt.Printf("  %s %s  %s\n", marker, p.Date, p.Label)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&window, "window", "n", trends.DefaultWindow, "number of matches to consider")
	return cmd
}

func serveCmd(cfg config.Config) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			// Note: don't defer s.Close() as server runs indefinitely

			server := api.New(s, newGenerator(cfg), addr, log.Logger)
			return server.Run()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", cfg.Addr, "server address")
	return cmd
}

// findByPrefix resolves a full or prefixed id against the collection.
func findByPrefix(s *store.Store, prefix string) (domain.Match, error) {
	for _, m := range s.List() {
		if strings.HasPrefix(m.ID, prefix) {
			return m, nil
		}
	}
	return domain.Match{}, fmt.Errorf("match not found: %s", prefix)
}

func printMatchLine(m domain.Match) {
	fmt.Printf("%s  %s  %-11s %s (%s, %s)\n",
		m.ID[:8], m.Date, m.Result, m.OpponentName, m.OpponentLevel, m.CourtSurface)
}
