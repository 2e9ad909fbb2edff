// Package render implements the frame renderer (C10): composing the
// header, text pane, metrics strip, progress bar, and help hint into a
// single batched write, the way kylelemons-goat/term's Region.Draw
// builds one line buffer and positions the cursor once per row rather
// than issuing a write per character.
package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	ansiCursorHome = "\x1b[H"
	ansiClearLine  = "\x1b[2K"
	ansiReset      = "\x1b[0m"

	styleCorrect   = "\x1b[30;42m" // black on green
	styleIncorrect = "\x1b[41;37m" // white on red — WCAG-AA contrast, see Colors below
	styleCursor    = "\x1b[7m"    // reverse video
	styleDim       = "\x1b[2m"
	styleBold      = "\x1b[1m"
)

// Colors documents the foreground/background pairs used for typed
// text so contrast can be audited: white-on-red and black-on-green
// both exceed the WCAG-AA 4.5:1 contrast ratio required by spec.md
// §4.10 for typed-correct/incorrect against the terminal background.
var Colors = struct {
	Correct, Incorrect string
}{Correct: styleCorrect, Incorrect: styleIncorrect}

// Header describes the frame's top line.
type Header struct {
	Mode      string
	Level     int
	SessionID string
}

// MetricsStrip is the live-metrics line (iv in spec.md §4.10).
type MetricsStrip struct {
	WPM      float64
	Accuracy float64
	Streak   int
	Elapsed  string
}

// Frame is everything needed to paint one screen, reused across calls
// rather than rebuilt per frame.
type Frame struct {
	Width, Height int
	Header        Header
	TargetText    []rune
	TypedText     []rune
	CursorPos     int
	Metrics       MetricsStrip
	ProgressPct   float64
	HelpHint      string
	HelpOverlay   []string // non-nil replaces the text pane when shown

	buf strings.Builder
}

// NewFrame allocates a Frame sized for width x height.
func NewFrame(width, height int) *Frame {
	return &Frame{Width: width, Height: height}
}

// Resize updates the dimensions the next Render call lays out against
// — called after a SIGWINCH so a mid-session terminal resize repaints
// at the new size instead of the one measured at session start.
func (f *Frame) Resize(width, height int) {
	f.Width = width
	f.Height = height
}

// Render composes the full frame into a single ANSI byte sequence,
// ready for one terminal write, built in the Frame's internal
// strings.Builder. Reset releases the builder's buffer, so each call
// allocates a fresh one; the renderer does not use profiler.Arena.
func (f *Frame) Render() string {
	f.buf.Reset()

	if !fitsMinimum(f.Width, f.Height) {
		f.buf.WriteString(ansiCursorHome)
		f.buf.WriteString(resizeBanner(f.Width))
		return f.buf.String()
	}

	f.buf.WriteString(ansiCursorHome)
	f.writeHeader()
	if f.HelpOverlay != nil {
		f.writeHelpOverlay()
	} else {
		f.writeTextPane()
	}
	f.writeMetricsStrip()
	f.writeProgressBar()
	f.writeHelpHint()
	return f.buf.String()
}

func fitsMinimum(w, h int) bool {
	return w >= 80 && h >= 24
}

func resizeBanner(width int) string {
	msg := "resize terminal to at least 80x24"
	pad := (width - len(msg)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + msg
}

func (f *Frame) writeHeader() {
	f.buf.WriteString(ansiClearLine)
	fmt.Fprintf(&f.buf, "%s%s | level %d | %s%s\n",
		styleBold, f.Header.Mode, f.Header.Level, f.Header.SessionID, ansiReset)
}

func (f *Frame) writeTextPane() {
	for i, r := range f.TargetText {
		switch {
		case i == f.CursorPos:
			fmt.Fprintf(&f.buf, "%s%c%s", styleCursor, r, ansiReset)
		case i < len(f.TypedText):
			if f.TypedText[i] == r {
				fmt.Fprintf(&f.buf, "%s%c%s", styleCorrect, r, ansiReset)
			} else {
				fmt.Fprintf(&f.buf, "%s%c%s", styleIncorrect, r, ansiReset)
			}
		default:
			fmt.Fprintf(&f.buf, "%s%c%s", styleDim, r, ansiReset)
		}
	}
	f.buf.WriteString("\n")
}

func (f *Frame) writeHelpOverlay() {
	for _, line := range f.HelpOverlay {
		f.buf.WriteString(ansiClearLine)
		f.buf.WriteString(line)
		f.buf.WriteString("\n")
	}
}

func (f *Frame) writeMetricsStrip() {
	f.buf.WriteString(ansiClearLine)
	fmt.Fprintf(&f.buf, "WPM %.0f  ACC %.1f%%  streak %d  %s\n",
		f.Metrics.WPM, f.Metrics.Accuracy, f.Metrics.Streak, f.Metrics.Elapsed)
}

const progressBarWidth = 40

func (f *Frame) writeProgressBar() {
	f.buf.WriteString(ansiClearLine)
	filled := int(f.ProgressPct / 100 * progressBarWidth)
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	if filled < 0 {
		filled = 0
	}
	f.buf.WriteString("[")
	f.buf.WriteString(strings.Repeat("=", filled))
	f.buf.WriteString(strings.Repeat(" ", progressBarWidth-filled))
	fmt.Fprintf(&f.buf, "] %.0f%%\n", f.ProgressPct)
}

func (f *Frame) writeHelpHint() {
	f.buf.WriteString(ansiClearLine)
	f.buf.WriteString(styleDim)
	f.buf.WriteString(f.HelpHint)
	f.buf.WriteString(ansiReset)
}

// VisualWidth returns the terminal cell width of s, accounting for
// East Asian wide characters and combining marks via go-runewidth —
// content the teacher never had to lay out, since its diagnostic
// output was ASCII-only.
func VisualWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateToWidth truncates s to fit within width terminal cells.
func TruncateToWidth(s string, width int) string {
	return runewidth.Truncate(s, width, "")
}
