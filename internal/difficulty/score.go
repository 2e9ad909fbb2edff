// Package difficulty implements the difficulty analyzer (C3): scoring a
// generated text along five axes and validating that a sequence of
// levels progresses in difficulty without spikes or regressions.
//
// The progression validator is grounded on internal/diff/diff.go's
// Compare/addChange from the teacher repository: walk a sequence,
// compute a delta against a reference value, and tag each delta by
// magnitude against fixed thresholds.
package difficulty

import (
	"strings"
	"unicode"

	"github.com/centotype/centotype/internal/content"
)

// Score holds the five non-negative components from §3/§4.3. Overall is
// their clamped sum.
type Score struct {
	Symbol    float64
	Number    float64
	Technical float64
	Variety   float64
	Length    float64
}

// Overall returns the clamped [0,100] difficulty score.
func (s Score) Overall() float64 {
	sum := s.Symbol + s.Number + s.Technical + s.Variety + s.Length
	if sum < 0 {
		return 0
	}
	if sum > 100 {
		return 100
	}
	return sum
}

// classHistogram counts characters by class over a text.
type classHistogram struct {
	lowercase  int
	uppercase  int
	digits     int
	whitespace int
	punct      int
	symbols    int
	total      int
}

func classify(text string) classHistogram {
	var h classHistogram
	for _, r := range text {
		h.total++
		switch {
		case unicode.IsLower(r):
			h.lowercase++
		case unicode.IsUpper(r):
			h.uppercase++
		case unicode.IsDigit(r):
			h.digits++
		case unicode.IsSpace(r):
			h.whitespace++
		case unicode.IsPunct(r):
			h.punct++
		default:
			h.symbols++
		}
	}
	return h
}

func (h classHistogram) distinctClasses() int {
	n := 0
	for _, c := range []int{h.lowercase, h.uppercase, h.digits, h.whitespace, h.punct, h.symbols} {
		if c > 0 {
			n++
		}
	}
	return n
}

var varietyPoints = [...]float64{0, 0, 2, 5, 8, 12}

// Analyze computes a Score for the given text.
func Analyze(text string) Score {
	h := classify(text)
	if h.total == 0 {
		return Score{}
	}

	words := strings.Fields(text)
	technicalCount := 0
	for _, w := range words {
		if content.IsTechnicalWord(strings.Trim(w, ".,!?;:()[]{}\"'")) {
			technicalCount++
		}
	}
	wordCount := len(words)
	if wordCount == 0 {
		wordCount = 1
	}

	symbolRatio := float64(h.symbols) / float64(h.total)
	numberRatio := float64(h.digits) / float64(h.total)
	techRatio := float64(technicalCount) / float64(wordCount)

	distinct := h.distinctClasses()
	if distinct > 5 {
		distinct = 5
	}

	return Score{
		Symbol:    symbolRatio * 100 * 3.0,
		Number:    numberRatio * 100 * 1.5,
		Technical: techRatio * 100 * 2.0,
		Variety:   varietyPoints[distinct] * 1.2,
		Length:    minFloat(float64(h.total)/3000, 1) * 10 * 0.8,
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Expected computes expected(L): the difficulty score a "typical" text
// at level L would exhibit, from the closed-form ratio formulas in
// §4.3, fed through the same component formulas Analyze uses.
func Expected(level content.LevelID) float64 {
	tier, tierProgress := float64(level.Tier()), float64(level.TierProgress())

	symbolRatio := (5 + (tier-1)*2.5 + (tierProgress-1)*0.3) / 100
	numberRatio := (3 + (tier-1)*1.7 + (tierProgress-1)*0.2) / 100
	techRatio := (2 + (tier-1)*1.3 + (tierProgress-1)*0.2) / 100
	length := 300 + (tier-1)*270 + (tierProgress-1)*30

	// A typical text at any tier >= 3 exercises at least
	// {lowercase, whitespace, punctuation, digits}; tiers >= 6 add
	// symbols, reaching the full 5 classes the variety table caps at.
	distinct := 3
	if level.Tier() >= 3 {
		distinct = 4
	}
	if level.Tier() >= 6 {
		distinct = 5
	}

	s := Score{
		Symbol:    symbolRatio * 100 * 3.0,
		Number:    numberRatio * 100 * 1.5,
		Technical: techRatio * 100 * 2.0,
		Variety:   varietyPoints[distinct] * 1.2,
		Length:    minFloat(length/3000, 1) * 10 * 0.8,
	}
	return s.Overall()
}

// IsAppropriate reports whether score is within 15 points of expected(L).
func IsAppropriate(score float64, level content.LevelID) bool {
	return absFloat(score-Expected(level)) <= 15
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
