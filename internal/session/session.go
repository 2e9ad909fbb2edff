// Package session implements the session state machine (C5): the
// single mutable record of an in-progress typing session, exclusively
// owned by the event loop.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/centotype/centotype/internal/content"
)

// ErrStateInvalid is returned when an update is rejected because the
// session has already completed, the keystroke predates the session
// start, or the cursor would move out of bounds.
var ErrStateInvalid = errors.New("state-invalid")

// Mode is the training mode a session runs under.
type Mode int

const (
	ModeArcade Mode = iota
	ModeDrill
	ModeEndurance
)

// Keystroke is one recorded input event, per spec.md §3.
type Keystroke struct {
	Timestamp    time.Time
	Char         *rune
	IsCorrection bool
	CursorPos    int
}

// State is the exclusively-owned mutable session record (spec.md §3's
// SessionState). Its fields are graphemes-counted where noted;
// target/typed are tracked as rune slices, which is sufficient in
// practice because C1's vocabulary is ASCII-only, so generated targets
// contain no multi-scalar grapheme clusters. Neither C2 nor C8 rejects
// such clusters; for input that contains them, rune and grapheme
// counts differ.
type State struct {
	SessionID      uuid.UUID
	Mode           Mode
	Category       content.Category
	Level          content.LevelID
	TargetText     []rune
	TypedText      []rune
	CursorPosition int
	StartedAt      time.Time
	PausedDuration time.Duration
	IsPaused       bool
	IsCompleted    bool
	Keystrokes     []Keystroke

	pauseStartedAt time.Time
}

// Start begins a new session for the given mode and target text.
// target must be non-empty, per invariant (v).
func Start(mode Mode, target string, now time.Time) (*State, error) {
	if target == "" {
		return nil, errors.New("session: target_text must be non-empty")
	}
	return &State{
		SessionID:  uuid.New(),
		Mode:       mode,
		TargetText: []rune(target),
		StartedAt:  now,
	}, nil
}

// AddKeystroke applies one keystroke, per the semantics in spec.md
// §4.5. A nil Char means backspace.
func (s *State) AddKeystroke(k Keystroke) error {
	if s.IsCompleted {
		return ErrStateInvalid
	}
	if k.Timestamp.Before(s.StartedAt) {
		return ErrStateInvalid
	}

	switch {
	case k.Char == nil:
		s.backspace()
	case k.IsCorrection:
		s.backspace()
		if err := s.insert(*k.Char); err != nil {
			return err
		}
	default:
		if err := s.insert(*k.Char); err != nil {
			return err
		}
	}

	k.CursorPos = s.CursorPosition
	s.Keystrokes = append(s.Keystrokes, k)
	return nil
}

func (s *State) insert(c rune) error {
	if s.CursorPosition >= len(s.TargetText) {
		return ErrStateInvalid
	}
	typed := make([]rune, 0, len(s.TypedText)+1)
	typed = append(typed, s.TypedText[:s.CursorPosition]...)
	typed = append(typed, c)
	typed = append(typed, s.TypedText[s.CursorPosition:]...)
	s.TypedText = typed
	s.CursorPosition++
	return nil
}

func (s *State) backspace() {
	if s.CursorPosition == 0 {
		return
	}
	typed := make([]rune, 0, len(s.TypedText)-1)
	typed = append(typed, s.TypedText[:s.CursorPosition-1]...)
	typed = append(typed, s.TypedText[s.CursorPosition:]...)
	s.TypedText = typed
	s.CursorPosition--
}

// SetPaused toggles pause state, accumulating wall-clock time spent
// paused into PausedDuration.
func (s *State) SetPaused(paused bool, now time.Time) error {
	if s.IsCompleted {
		return ErrStateInvalid
	}
	if paused == s.IsPaused {
		return nil
	}
	if paused {
		s.pauseStartedAt = now
	} else {
		s.PausedDuration += now.Sub(s.pauseStartedAt)
	}
	s.IsPaused = paused
	return nil
}

// MoveCursor relocates the cursor directly (used by explicit
// navigation, not character entry).
func (s *State) MoveCursor(pos int) error {
	if s.IsCompleted {
		return ErrStateInvalid
	}
	if pos < 0 || pos > len(s.TargetText) {
		return ErrStateInvalid
	}
	s.CursorPosition = pos
	return nil
}

// Complete marks the session finished. Callable both when the typed
// text reaches the target length (automatic completion) and for an
// explicit user-initiated early stop.
func (s *State) Complete() error {
	if s.IsCompleted {
		return ErrStateInvalid
	}
	s.IsCompleted = true
	s.IsPaused = false
	return nil
}

// IsAtEnd reports whether typed_text has reached target_text's length
// and the most recent keystroke was not mid-correction — the
// resolved session-completion trigger (SPEC_FULL.md §9).
func (s *State) IsAtEnd() bool {
	if len(s.TypedText) < len(s.TargetText) {
		return false
	}
	if len(s.Keystrokes) == 0 {
		return true
	}
	return !s.Keystrokes[len(s.Keystrokes)-1].IsCorrection
}

// ActiveDuration returns wall-clock time spent actively typing,
// excluding paused time, as of now.
func (s *State) ActiveDuration(now time.Time) time.Duration {
	paused := s.PausedDuration
	if s.IsPaused {
		paused += now.Sub(s.pauseStartedAt)
	}
	return now.Sub(s.StartedAt) - paused
}

// Snapshot is a read-only, immutable clone of State taken at a tick
// boundary, handed to observers (the renderer, the profiler's
// analytics tick) per spec.md §3's ownership note: the event loop
// never shares the mutable State itself.
type Snapshot struct {
	SessionID      uuid.UUID
	Mode           Mode
	TargetText     string
	TypedText      string
	CursorPosition int
	IsPaused       bool
	IsCompleted    bool
	Active         time.Duration
	KeystrokeCount int
}

// Snapshot takes an immutable copy of the current state.
func (s *State) Snapshot(now time.Time) Snapshot {
	return Snapshot{
		SessionID:      s.SessionID,
		Mode:           s.Mode,
		TargetText:     string(s.TargetText),
		TypedText:      string(s.TypedText),
		CursorPosition: s.CursorPosition,
		IsPaused:       s.IsPaused,
		IsCompleted:    s.IsCompleted,
		Active:         s.ActiveDuration(now),
		KeystrokeCount: len(s.Keystrokes),
	}
}
