// Package terminal implements the TTY guard (C9): scoped acquisition
// and guaranteed restoration of raw mode, the alternate screen buffer,
// and mouse capture.
//
// Structured like kylelemons-goat/termios.TermSettings — capture
// original state, mutate current state, Apply(), with Restore()
// re-applying the captured original — but built on golang.org/x/term
// instead of hand-written cgo tcgetattr/tcsetattr, the idiomatic
// cross-platform choice the rest of the example pack's terminal
// libraries converge on. The literal ANSI sequences for alt-screen
// and mouse-capture toggling are the same ones enumerated in
// kylelemons-goat/term/codes.go.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// State is the guard's state machine, per spec.md §4.9.
type State int

const (
	StateNormal State = iota
	StateRawOnly
	StateAltScreen
	StateTyping
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateRawOnly:
		return "raw_only"
	case StateAltScreen:
		return "alt_screen"
	case StateTyping:
		return "typing"
	default:
		return "unknown"
	}
}

const (
	seqAltScreenEnter   = "\x1b[?1049h"
	seqAltScreenLeave   = "\x1b[?1049l"
	seqMouseCaptureOn   = "\x1b[?1000h\x1b[?1006h"
	seqMouseCaptureOff  = "\x1b[?1006l\x1b[?1000l"
	seqCursorHide       = "\x1b[?25l"
	seqCursorShow       = "\x1b[?25h"
)

// ErrNotATerminal is returned when the guard is asked to acquire raw
// mode on a file descriptor that isn't backed by a TTY.
var ErrNotATerminal = errors.New("terminal: not a tty")

// Guard encapsulates the three independent flags — raw mode,
// alternate screen, mouse capture — spec.md §4.9 requires.
type Guard struct {
	fd       int
	out      io.Writer
	original *term.State
	state    State
}

// New builds a Guard over fd (typically os.Stdin.Fd()) that writes
// its ANSI control sequences to out (typically os.Stdout).
func New(fd int, out io.Writer) *Guard {
	return &Guard{fd: fd, out: out, state: StateNormal}
}

// Acquire establishes raw mode, the alternate screen, and mouse
// capture, and hides the cursor — the scoped acquisition of spec.md
// §4.9. Returns a release function that must be deferred by the
// caller to guarantee restoration on every exit path, including
// panics (the deferred call still runs during a panicking unwind).
func (g *Guard) Acquire() (release func(), err error) {
	if !term.IsTerminal(g.fd) {
		return nil, ErrNotATerminal
	}

	original, err := term.MakeRaw(g.fd)
	if err != nil {
		return nil, fmt.Errorf("terminal: enter raw mode: %w", err)
	}
	g.original = original
	g.state = StateRawOnly

	if _, err := io.WriteString(g.out, seqAltScreenEnter+seqMouseCaptureOn+seqCursorHide); err != nil {
		g.Release()
		return nil, fmt.Errorf("terminal: enter alt screen: %w", err)
	}
	g.state = StateTyping

	return g.Release, nil
}

// Release restores in reverse order — show cursor, disable mouse
// capture, leave alt screen, disable raw mode — best-effort: if one
// step fails, the remaining steps are still attempted, per spec.md
// §4.9.
func (g *Guard) Release() {
	_, _ = io.WriteString(g.out, seqCursorShow+seqMouseCaptureOff+seqAltScreenLeave)
	if g.original != nil {
		_ = term.Restore(g.fd, g.original)
	}
	g.state = StateNormal
}

// EmergencyRestore performs the same restoration sequence best-effort
// from a signal-safe context (e.g. a deferred recover() at main, or a
// signal handler), without requiring a live Guard value — callable
// even if the Guard that acquired the terminal was lost.
func EmergencyRestore(fd int, out io.Writer, original *term.State) {
	_, _ = io.WriteString(out, seqCursorShow+seqMouseCaptureOff+seqAltScreenLeave)
	if original != nil {
		_ = term.Restore(fd, original)
	}
}

// State returns the guard's current state.
func (g *Guard) State() State {
	return g.state
}

// Size returns the current terminal width/height in columns/rows.
func Size(fd int) (width, height int, err error) {
	return term.GetSize(fd)
}

// MinWidth and MinHeight are the minimum supported terminal
// dimensions, per spec.md §4.10.
const (
	MinWidth  = 80
	MinHeight = 24
)

// FitsMinimum reports whether width/height satisfy the minimum
// terminal size this renderer supports.
func FitsMinimum(width, height int) bool {
	return width >= MinWidth && height >= MinHeight
}

// StdinFd is a small convenience wrapper so callers don't need to
// import os solely to get the standard input file descriptor.
func StdinFd() int {
	return int(os.Stdin.Fd())
}
