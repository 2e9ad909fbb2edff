// Command centotype is a terminal-resident typing trainer: deterministic
// graded training text, live scoring, and a full-screen alternate-buffer
// UI, all driven through the CLI surface spec.md §6 names (play, drill,
// endurance, stats, config).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/centotype/centotype/internal/cache"
	"github.com/centotype/centotype/internal/config"
	"github.com/centotype/centotype/internal/content"
	"github.com/centotype/centotype/internal/engine"
	"github.com/centotype/centotype/internal/persistence"
	"github.com/centotype/centotype/internal/profiler"
	"github.com/centotype/centotype/internal/render"
	"github.com/centotype/centotype/internal/scoring"
	"github.com/centotype/centotype/internal/session"
	"github.com/centotype/centotype/internal/terminal"
)

const version = "0.1.0"

// Exit codes, per spec.md §6.
const (
	exitNormal             = 0
	exitUserQuitSaveFailed = 1
	exitUnsupportedPlatform = 2
	exitTerminalError       = 3
)

// drillLevel is the fixed tier drills run at — spec.md's CLI table
// gives drill no --level flag, only --category, so every drill biases
// a mid-tier level's generator toward one character class rather than
// letting level drift affect drill content.
const drillLevel = content.LevelID(50)

// enduranceLevel runs endurance sessions at the top tier, since
// endurance's allowlist (internal/input.enduranceClasses) already
// admits every character class regardless of level.
const enduranceLevel = content.LevelID(91)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	store, err := persistence.NewFSStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "centotype: %v\n", err)
		return exitTerminalError
	}

	cfg, err := config.Load(store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "centotype: %v\n", err)
		return exitTerminalError
	}

	exitCode := exitNormal

	root := &cobra.Command{
		Use:          "centotype",
		Short:        "Terminal typing trainer with 100 progressive difficulty levels",
		Version:      version,
		SilenceUsage: true,
	}

	var playLevel int
	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Start an arcade-mode session",
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := content.NewLevelID(playLevel)
			if err != nil {
				return err
			}
			exitCode = playSession(store, cfg, logger, session.ModeArcade, level, content.CategoryNone, 0)
			return nil
		},
	}
	playCmd.Flags().IntVarP(&playLevel, "level", "l", 1, "Level to play (1-100)")

	var drillCategory string
	var drillDuration int
	drillCmd := &cobra.Command{
		Use:   "drill",
		Short: "Practice a single character class",
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := parseCategory(drillCategory)
			if err != nil {
				return err
			}
			exitCode = playSession(store, cfg, logger, session.ModeDrill, drillLevel, category,
				time.Duration(drillDuration)*time.Minute)
			return nil
		},
	}
	drillCmd.Flags().StringVarP(&drillCategory, "category", "c", "", "Numbers|Punctuation|Symbols|CamelCase|SnakeCase|Operators")
	drillCmd.Flags().IntVarP(&drillDuration, "duration", "d", 5, "Duration in minutes")
	_ = drillCmd.MarkFlagRequired("category")

	var enduranceDuration int
	enduranceCmd := &cobra.Command{
		Use:   "endurance",
		Short: "Endurance training session",
		RunE: func(cmd *cobra.Command, args []string) error {
			exitCode = playSession(store, cfg, logger, session.ModeEndurance, enduranceLevel, content.CategoryNone,
				time.Duration(enduranceDuration)*time.Minute)
			return nil
		},
	}
	enduranceCmd.Flags().IntVarP(&enduranceDuration, "duration", "d", 15, "Duration in minutes")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print profile summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			exitCode = printStats(store, cmd.OutOrStdout())
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			exitCode = printConfig(cfg, cmd.OutOrStdout())
			return nil
		},
	}

	root.AddCommand(playCmd, drillCmd, enduranceCmd, statsCmd, configCmd, newMCPCmd(store))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUserQuitSaveFailed
	}
	return exitCode
}

func parseCategory(s string) (content.Category, error) {
	switch s {
	case "Numbers":
		return content.CategoryNumbers, nil
	case "Punctuation":
		return content.CategoryPunctuation, nil
	case "Symbols":
		return content.CategorySymbols, nil
	case "CamelCase":
		return content.CategoryCamelCase, nil
	case "SnakeCase":
		return content.CategorySnakeCase, nil
	case "Operators":
		return content.CategoryOperators, nil
	default:
		return "", fmt.Errorf("centotype: unknown drill category %q", s)
	}
}

// playSession wires one full keystroke-to-paint session together: it
// resolves the terminal, the content cache, the scoring/profiling
// collaborators, and the event loop, then persists the result.
//
// budget, if non-zero, bounds the session to that wall-clock duration
// (drill/endurance's --duration); a zero budget (arcade) runs until
// the session completes or the user cancels.
func playSession(store persistence.Store, cfg config.Config, logger zerolog.Logger, mode session.Mode, level content.LevelID, category content.Category, budget time.Duration) int {
	fd := terminal.StdinFd()
	width, height, err := terminal.Size(fd)
	if err != nil {
		width, height = cfg.Display.MinWidth, cfg.Display.MinHeight
	}
	if !terminal.FitsMinimum(width, height) {
		fmt.Fprintf(os.Stderr, "centotype: terminal too small (need %dx%d)\n", terminal.MinWidth, terminal.MinHeight)
		return exitUnsupportedPlatform
	}

	contentCache := cache.New(
		cache.WithCapacity(cfg.Cache.Capacity),
		cache.WithTTL(time.Duration(cfg.Cache.TTLSeconds)*time.Second),
		cache.WithPreloadPolicy(preloadPolicy(cfg.Preload.Policy)),
	)

	seed := content.DefaultSeed(level)
	target, err := contentCache.Get(cache.Key{Level: level, Seed: seed, Category: category})
	if err != nil {
		fmt.Fprintf(os.Stderr, "centotype: %v\n", err)
		return exitTerminalError
	}

	started := time.Now()
	state, err := session.Start(mode, target, started)
	if err != nil {
		fmt.Fprintf(os.Stderr, "centotype: %v\n", err)
		return exitTerminalError
	}

	ctx := context.Background()
	var cancel context.CancelFunc
	if budget > 0 {
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}
	go contentCache.Preload(ctx, cache.Key{Level: level, Seed: seed, Category: category})

	guard := terminal.New(fd, os.Stdout)
	frame := render.NewFrame(width, height)
	loopProfiler := profiler.New()
	classifier := scoring.NewClassifier()

	deps := engine.Deps{
		Keys:       engine.NewStdinKeySource(),
		Cache:      contentCache,
		Classifier: classifier,
		Profiler:   loopProfiler,
		Frame:      frame,
		Out:        func(s string) { os.Stdout.WriteString(s) },
		Logger:     logger,
		TTYFd:      fd,
	}

	loop := engine.NewLoop(deps, state, level, category, mode)
	if err := loop.Run(ctx, guard); err != nil {
		if errors.Is(err, terminal.ErrNotATerminal) {
			fmt.Fprintln(os.Stderr, "centotype: unsupported-platform: stdin is not a terminal")
			return exitUnsupportedPlatform
		}
		fmt.Fprintf(os.Stderr, "centotype: terminal-acquire: %v\n", err)
		return exitTerminalError
	}

	result := finalize(state, classifier, level, mode, category, started)
	if saveErr := persistResult(store, result); saveErr != nil {
		logger.Error().Err(saveErr).Msg("failed to save session result")
		if !state.IsCompleted {
			return exitUserQuitSaveFailed
		}
	}
	return exitNormal
}

func preloadPolicy(s string) cache.PreloadPolicy {
	switch s {
	case "adaptive":
		return cache.PreloadAdaptive
	case "none":
		return cache.PreloadNone
	default:
		return cache.PreloadSequential
	}
}

func finalize(state *session.State, classifier *scoring.Classifier, level content.LevelID, mode session.Mode, category content.Category, started time.Time) persistence.SessionResult {
	now := time.Now()
	var times []time.Time
	for _, k := range state.Keystrokes {
		times = append(times, k.Timestamp)
	}
	metrics := scoring.Compute(classifier, string(state.TargetText), string(state.TypedText), times, state.ActiveDuration(now).Minutes())
	tier := level.Tier()
	return persistence.SessionResult{
		SessionID:  state.SessionID,
		Mode:       mode,
		Level:      level,
		Category:   category,
		Started:    started,
		Ended:      now,
		Completed:  state.IsCompleted || state.IsAtEnd(),
		Metrics:    metrics,
		SkillIndex: scoring.SkillIndex(metrics, tier),
		Tier:       tier,
	}
}

func persistResult(store persistence.Store, result persistence.SessionResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal session result: %w", err)
	}
	if err := store.AppendSession(result.SessionID.String(), data); err != nil {
		return err
	}

	profile, err := loadProfile(store)
	if err != nil {
		return err
	}
	profile.Apply(result)
	profileData, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return store.WriteProfile(profileData)
}

func loadProfile(store persistence.Store) (persistence.Profile, error) {
	data, err := store.ReadProfile()
	if err != nil {
		if persistence.IsNotExist(err) {
			return persistence.NewProfile(), nil
		}
		return persistence.Profile{}, err
	}
	profile := persistence.NewProfile()
	if err := json.Unmarshal(data, &profile); err != nil {
		return persistence.Profile{}, err
	}
	return profile, nil
}

func printStats(store persistence.Store, out interface{ Write([]byte) (int, error) }) int {
	profile, err := loadProfile(store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "centotype: %v\n", err)
		return exitTerminalError
	}
	fmt.Fprintf(out, "Sessions played:   %d\n", profile.SessionCount)
	fmt.Fprintf(out, "Highest tier:      %d\n", profile.HighestTier)
	if !profile.LastPlayed.IsZero() {
		fmt.Fprintf(out, "Last played:       %s\n", profile.LastPlayed.Format(time.RFC3339))
	}
	for level, score := range profile.BestByLevel {
		fmt.Fprintf(out, "Level %3d best:    %.1f\n", level, score)
	}
	for category, score := range profile.BestByCategory {
		fmt.Fprintf(out, "Drill %-12s best: %.1f\n", category, score)
	}
	return exitNormal
}

func printConfig(cfg config.Config, out interface{ Write([]byte) (int, error) }) int {
	data, err := toml.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "centotype: %v\n", err)
		return exitTerminalError
	}
	out.Write(data)
	return exitNormal
}
