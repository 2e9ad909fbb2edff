// Package input implements the input sanitizer (C8): turning raw key
// events into ProcessedInput under a per-mode character-class
// allowlist, rate limiting, and the other guards in spec.md §4.8.
// Grounded on internal/executor/security.go's allowlist/sanitize
// idiom, re-expressed for live keystroke events instead of static
// binary paths.
package input

import (
	"regexp"
	"time"
	"unicode"

	"github.com/centotype/centotype/internal/content"
	"github.com/centotype/centotype/internal/session"
)

// Kind classifies one processed input event.
type Kind int

const (
	KindCharacter Kind = iota
	KindBackspace
	KindEnter
	KindEscape
	KindControl
	KindFiltered
	KindOther
)

// Flag records why an event was filtered or specially handled.
type Flag string

const (
	FlagRateLimited      Flag = "rate-limited"
	FlagControlSuppressed Flag = "control-suppressed"
	FlagEscapeSkipped    Flag = "escape-skipped"
	FlagRepetitionAttack Flag = "repetition-attack"
	FlagLengthCapped     Flag = "length-capped"
	FlagForbiddenPattern Flag = "forbidden-pattern"
)

// ProcessedInput is the sanitizer's output for one raw key event.
type ProcessedInput struct {
	Kind          Kind
	SanitizedChar rune
	HasChar       bool
	Valid         bool
	Flags         []Flag
}

const (
	maxEventsPerWindow = 1000
	rateWindow         = time.Second
	maxConsecutiveRepeats = 50
	maxInputBytes      = 10000
	maxInputGraphemes  = 5000
	maxEscapeSkipBytes = 20
)

var forbiddenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\\x[0-9A-Fa-f]{2}`),
	regexp.MustCompile(`\\u[0-9A-Fa-f]{4}`),
	regexp.MustCompile("\x1b\\[[0-9;]*[A-Za-z]"),
}

// classTable mirrors spec.md §4.8's tier->allowed-class table for
// Arcade mode.
type classTable struct {
	letters, digits, punctuation, symbols, tab bool
}

func arcadeClasses(tier int) classTable {
	switch {
	case tier <= 2:
		return classTable{letters: true}
	case tier == 3:
		return classTable{letters: true, digits: true}
	case tier <= 5:
		return classTable{letters: true, digits: true, punctuation: true}
	default:
		return classTable{letters: true, digits: true, punctuation: true, symbols: true, tab: true}
	}
}

func drillClasses(category content.Category) classTable {
	switch category {
	case content.CategoryNumbers:
		return classTable{digits: true}
	case content.CategoryPunctuation:
		return classTable{punctuation: true}
	case content.CategorySymbols:
		return classTable{symbols: true}
	case content.CategoryCamelCase, content.CategorySnakeCase:
		return classTable{letters: true}
	case content.CategoryOperators:
		return classTable{symbols: true}
	default:
		return classTable{letters: true, digits: true, punctuation: true, symbols: true, tab: true}
	}
}

func enduranceClasses() classTable {
	return classTable{letters: true, digits: true, punctuation: true, symbols: true, tab: true}
}

func allowedClasses(mode session.Mode, category content.Category, tier int) classTable {
	switch mode {
	case session.ModeDrill:
		return drillClasses(category)
	case session.ModeEndurance:
		return enduranceClasses()
	default:
		return arcadeClasses(tier)
	}
}

func (t classTable) allows(r rune) bool {
	switch {
	case unicode.IsLetter(r):
		return t.letters
	case unicode.IsDigit(r):
		return t.digits
	case unicode.IsPunct(r):
		return t.punctuation
	case r == '\t':
		return t.tab
	default:
		return t.symbols
	}
}

// rateLimiter holds a rolling window of recent event timestamps,
// matching the teacher's "simple bound, no token-bucket library" style
// (collector.CollectConfig.MaxEventsPerCollector) but sliding rather
// than resetting on a fixed boundary: a burst straddling a window edge
// must still be bounded by the same cap over any trailing second
// (spec.md §4.8 rule 1). Justified stdlib-only since no example in the
// pack pulls in a rate-limiting library for an in-process,
// single-writer counter like this one.
type rateLimiter struct {
	timestamps []time.Time
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{timestamps: make([]time.Time, 0, maxEventsPerWindow)}
}

func (r *rateLimiter) allow(now time.Time) bool {
	cutoff := now.Add(-rateWindow)
	expired := 0
	for expired < len(r.timestamps) && !r.timestamps[expired].After(cutoff) {
		expired++
	}
	if expired > 0 {
		r.timestamps = append(r.timestamps[:0], r.timestamps[expired:]...)
	}
	if len(r.timestamps) >= maxEventsPerWindow {
		return false
	}
	r.timestamps = append(r.timestamps, now)
	return true
}

// Sanitizer processes raw key events into ProcessedInput, holding the
// per-session rate-limiting and escape-skip state spec.md §4.8
// requires across a sequence of events.
type Sanitizer struct {
	limiter       *rateLimiter
	escapeSkipLeft int
	repeatRune    rune
	repeatCount   int
}

// NewSanitizer builds a Sanitizer for one session's input stream.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{limiter: newRateLimiter()}
}

// controlPassthrough reports whether r is a modifier combination
// (Ctrl+C, Ctrl+P) that is tagged Control and forwarded without
// character validation, per rule 2. Other C0 controls fall through to
// the backspace/enter/escape cases or to control-char suppression.
func controlPassthrough(r rune) bool {
	return r == 0x03 || r == 0x10 // Ctrl+C, Ctrl+P
}

// Process classifies one raw rune event under the given mode/category/tier.
func (s *Sanitizer) Process(r rune, mode session.Mode, category content.Category, tier int, now time.Time) ProcessedInput {
	if !s.limiter.allow(now) {
		return ProcessedInput{Kind: KindFiltered, Valid: false, Flags: []Flag{FlagRateLimited}}
	}

	if s.escapeSkipLeft > 0 {
		s.escapeSkipLeft--
		isFinal := r >= 0x40 && r <= 0x7E
		if isFinal {
			s.escapeSkipLeft = 0
		}
		return ProcessedInput{Kind: KindFiltered, Valid: false, Flags: []Flag{FlagEscapeSkipped}}
	}

	if controlPassthrough(r) {
		return ProcessedInput{Kind: KindControl, Valid: true}
	}

	switch r {
	case 0x7F, 0x08:
		s.resetRepeat(0)
		return ProcessedInput{Kind: KindBackspace, Valid: true}
	case '\n', '\r':
		s.resetRepeat(0)
		return ProcessedInput{Kind: KindEnter, Valid: true}
	case 0x1B:
		s.escapeSkipLeft = maxEscapeSkipBytes
		return ProcessedInput{Kind: KindEscape, Valid: true}
	}

	if unicode.IsControl(r) && r != '\t' {
		return ProcessedInput{Kind: KindFiltered, Valid: false, Flags: []Flag{FlagControlSuppressed}}
	}

	if s.trackRepeat(r) {
		return ProcessedInput{Kind: KindFiltered, Valid: false, Flags: []Flag{FlagRepetitionAttack}}
	}

	classes := allowedClasses(mode, category, tier)
	if !classes.allows(r) {
		return ProcessedInput{Kind: KindOther, Valid: false}
	}

	return ProcessedInput{Kind: KindCharacter, SanitizedChar: r, HasChar: true, Valid: true}
}

func (s *Sanitizer) trackRepeat(r rune) bool {
	if r == s.repeatRune {
		s.repeatCount++
	} else {
		s.repeatRune = r
		s.repeatCount = 1
	}
	return s.repeatCount > maxConsecutiveRepeats
}

func (s *Sanitizer) resetRepeat(r rune) {
	s.repeatRune = r
	s.repeatCount = 0
}

// ValidateText applies the length cap and forbidden-pattern checks
// (rules 7, 8) to a whole text input (e.g. pasted content), rather
// than a single key event.
func ValidateText(text string) (valid bool, flags []Flag) {
	valid = true
	if len(text) > maxInputBytes || len([]rune(text)) > maxInputGraphemes {
		valid = false
		flags = append(flags, FlagLengthCapped)
	}
	for _, pat := range forbiddenPatterns {
		if pat.MatchString(text) {
			valid = false
			flags = append(flags, FlagForbiddenPattern)
			break
		}
	}
	return valid, flags
}
