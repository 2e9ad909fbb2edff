// Package engine implements the event loop (C11): a single
// cooperatively-scheduled loop polling input, driving the session,
// scoring, and render pipelines, and handling cancellation.
//
// Directly grounded on internal/orchestrator/orchestrator.go's
// Orchestrator.Run: the same context.WithCancel + signal.Notify
// (SIGINT, SIGTERM) + background goroutine that cancels on signal is
// reused almost verbatim, but drives a single-threaded poll loop
// instead of a sync.WaitGroup fan-out — the orchestrator's
// concurrency is *between* independent collectors, the event loop's
// concurrency is bounded to "background preload tasks never touch
// session state" (spec.md §5).
package engine

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/centotype/centotype/internal/cache"
	"github.com/centotype/centotype/internal/content"
	"github.com/centotype/centotype/internal/input"
	"github.com/centotype/centotype/internal/profiler"
	"github.com/centotype/centotype/internal/render"
	"github.com/centotype/centotype/internal/scoring"
	"github.com/centotype/centotype/internal/session"
	"github.com/centotype/centotype/internal/terminal"
)

const (
	pollTimeout     = 10 * time.Millisecond
	renderInterval  = 16 * time.Millisecond
	analyticsTick   = 100 * time.Millisecond
)

// KeySource supplies raw input bytes. Production code wraps a
// goroutine reading os.Stdin into a channel (below); tests supply a
// fake.
type KeySource interface {
	// Poll waits up to timeout for the next key; ok is false on
	// timeout.
	Poll(timeout time.Duration) (r rune, ok bool)
}

// stdinKeySource continuously reads stdin into a buffered channel so
// Poll can honor a timeout — os.Stdin has no portable read-deadline
// API for a TTY, so a background reader goroutine plus a select on
// time.After is the standard way to bound the wait, matching the
// orchestrator's own "goroutine + channel + select" shape.
type stdinKeySource struct {
	runes chan rune
}

// NewStdinKeySource starts the background stdin reader.
func NewStdinKeySource() KeySource {
	s := &stdinKeySource{runes: make(chan rune, 256)}
	go s.readLoop()
	return s
}

func (s *stdinKeySource) readLoop() {
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			close(s.runes)
			return
		}
		if n > 0 {
			s.runes <- rune(buf[0])
		}
	}
}

func (s *stdinKeySource) Poll(timeout time.Duration) (rune, bool) {
	select {
	case r, ok := <-s.runes:
		return r, ok
	case <-time.After(timeout):
		return 0, false
	}
}

// Deps bundles the collaborators one Loop iteration drives.
type Deps struct {
	Keys       KeySource
	Cache      *cache.Cache
	Classifier *scoring.Classifier
	Profiler   *profiler.Profiler
	Frame      *render.Frame
	Out        func(string) // writes a rendered frame, e.g. os.Stdout.WriteString
	Logger     zerolog.Logger
	TTYFd      int // fd to re-measure via terminal.Size on SIGWINCH
}

// Loop drives one session from start to completion or cancellation.
type Loop struct {
	deps       Deps
	state      *session.State
	sanitizer  *input.Sanitizer
	level      content.LevelID
	category   content.Category
	mode       session.Mode
	shouldStop bool
	lastMetrics scoring.Metrics
}

// NewLoop builds a Loop for one session.
func NewLoop(deps Deps, state *session.State, level content.LevelID, category content.Category, mode session.Mode) *Loop {
	return &Loop{
		deps:      deps,
		state:     state,
		sanitizer: input.NewSanitizer(),
		level:     level,
		category:  category,
		mode:      mode,
	}
}

// Run executes the loop until the session completes, the user
// cancels, or ctx is cancelled. It installs its own SIGINT/SIGTERM
// handling so the terminal guard's release always runs, mirroring
// Orchestrator.Run's "signal handling started after all context
// derivations" ordering.
func (l *Loop) Run(ctx context.Context, guard *terminal.Guard) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			l.shouldStop = true
			cancel()
		case <-ctx.Done():
		}
	}()
	defer signal.Stop(sigCh)

	release, err := guard.Acquire()
	if err != nil {
		l.deps.Logger.Error().Err(err).Msg("failed to acquire terminal")
		return err
	}
	defer release()
	defer l.deps.Logger.Debug().Str("session_id", l.state.SessionID.String()).Msg("session ended")

	resize := terminal.NewResizeWatcher()
	defer resize.Stop()

	lastRender := time.Time{}
	lastTick := time.Time{}

	for !l.shouldStop {
		if ctx.Err() != nil {
			l.shouldStop = true
			break
		}

		select {
		case <-resize.C():
			l.handleResize()
		default:
		}

		iterStart := time.Now()
		r, ok := l.pollOnce()
		if ok {
			l.handleKey(r, iterStart)
		} else if time.Since(lastRender) >= renderInterval {
			l.renderFrame()
			lastRender = time.Now()
		} else if time.Since(lastTick) >= analyticsTick {
			l.renderFrame()
			lastTick = time.Now()
		}

		if l.state.IsCompleted || l.state.IsAtEnd() {
			l.shouldStop = true
		}
	}

	return nil
}

// handleResize re-measures the terminal after a SIGWINCH and repaints
// immediately at the new size rather than waiting for the next
// renderInterval tick.
func (l *Loop) handleResize() {
	width, height, err := terminal.Size(l.deps.TTYFd)
	if err != nil {
		l.deps.Logger.Warn().Err(err).Msg("resize: failed to re-measure terminal")
		return
	}
	l.deps.Frame.Resize(width, height)
	l.renderFrame()
}

func (l *Loop) pollOnce() (rune, bool) {
	start := time.Now()
	r, ok := l.deps.Keys.Poll(pollTimeout)
	l.deps.Profiler.Record(profiler.StageInputCapture, time.Since(start))
	return r, ok
}

func (l *Loop) handleKey(r rune, iterStart time.Time) {
	processStart := time.Now()
	tier := l.level.Tier()
	processed := l.Sanitizer().Process(r, l.mode, l.category, tier, processStart)
	l.deps.Profiler.Record(profiler.StageEventProcessing, time.Since(processStart))

	if !processed.Valid {
		return
	}

	stateStart := time.Now()
	l.applyInput(r, processed, processStart)
	l.deps.Profiler.Record(profiler.StageStateUpdate, time.Since(stateStart))

	scoringStart := time.Now()
	l.scoreTick()
	l.deps.Profiler.Record(profiler.StageScoring, time.Since(scoringStart))

	l.renderFrame()
	l.deps.Profiler.Record(profiler.StageTotal, time.Since(iterStart))
}

// Sanitizer exposes the loop's input sanitizer so handleKey can reach
// it without widening Deps; kept as a method for symmetry with the
// other collaborators.
func (l *Loop) Sanitizer() *input.Sanitizer { return l.sanitizer }

// ctrlC is the raw scalar for Ctrl+C, one of the cancellation
// triggers spec.md §4.11 names alongside Escape.
const ctrlC = 0x03

func (l *Loop) applyInput(raw rune, p input.ProcessedInput, now time.Time) {
	switch p.Kind {
	case input.KindCharacter:
		c := p.SanitizedChar
		_ = l.state.AddKeystroke(session.Keystroke{Timestamp: now, Char: &c})
	case input.KindBackspace:
		_ = l.state.AddKeystroke(session.Keystroke{Timestamp: now, Char: nil})
	case input.KindEscape:
		l.shouldStop = true
	case input.KindControl:
		if raw == ctrlC {
			l.shouldStop = true
		}
	}
}

func (l *Loop) scoreTick() {
	now := time.Now()
	var times []time.Time
	for _, k := range l.state.Keystrokes {
		times = append(times, k.Timestamp)
	}
	minutes := l.state.ActiveDuration(now).Minutes()
	l.lastMetrics = scoring.Compute(l.deps.Classifier, string(l.state.TargetText), string(l.state.TypedText), times, minutes)
}

func (l *Loop) renderFrame() {
	renderStart := time.Now()
	snap := l.state.Snapshot(time.Now())
	f := l.deps.Frame
	f.TargetText = []rune(snap.TargetText)
	f.TypedText = []rune(snap.TypedText)
	f.CursorPos = snap.CursorPosition
	f.ProgressPct = progressPercent(snap)
	f.Metrics = render.MetricsStrip{
		WPM:      l.lastMetrics.EffectiveWPM,
		Accuracy: l.lastMetrics.Accuracy,
		Streak:   l.lastMetrics.CurrentStreak,
		Elapsed:  snap.Active.Round(time.Second).String(),
	}
	out := f.Render()
	if l.deps.Out != nil {
		l.deps.Out(out)
	}
	l.deps.Profiler.Record(profiler.StageRender, time.Since(renderStart))
}

func progressPercent(snap session.Snapshot) float64 {
	targetLen := len([]rune(snap.TargetText))
	if targetLen == 0 {
		return 0
	}
	typedLen := len([]rune(snap.TypedText))
	pct := float64(typedLen) / float64(targetLen) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}
