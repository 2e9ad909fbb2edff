package difficulty

import (
	"testing"

	"github.com/centotype/centotype/internal/content"
)

func mustLevel(t *testing.T, n int) content.LevelID {
	t.Helper()
	l, err := content.NewLevelID(n)
	if err != nil {
		t.Fatalf("NewLevelID(%d): %v", n, err)
	}
	return l
}

func TestAnalyzeEmptyText(t *testing.T) {
	s := Analyze("")
	if s.Overall() != 0 {
		t.Errorf("expected 0 for empty text, got %v", s.Overall())
	}
}

func TestAnalyzeVarietyIncreasesWithClasses(t *testing.T) {
	plain := Analyze("the quick brown fox")
	mixed := Analyze("the quick 42 brown $fox {bar} A!")
	if mixed.Variety <= plain.Variety {
		t.Errorf("expected richer text to score higher variety: %v vs %v", mixed.Variety, plain.Variety)
	}
}

func TestExpectedMonotonicAcrossLevels(t *testing.T) {
	prev := Expected(mustLevel(t, 1))
	for lvl := 10; lvl <= 100; lvl += 10 {
		cur := Expected(mustLevel(t, lvl))
		if cur < prev {
			t.Errorf("expected(level) not monotonic: level %d = %v < previous %v", lvl, cur, prev)
		}
		prev = cur
	}
}

func TestIsAppropriateWithinTolerance(t *testing.T) {
	level := mustLevel(t, 50)
	exp := Expected(level)
	if !IsAppropriate(exp, level) {
		t.Error("score equal to expected must be appropriate")
	}
	if !IsAppropriate(exp+14, level) {
		t.Error("score within 15 points must be appropriate")
	}
	if IsAppropriate(exp+30, level) {
		t.Error("score 30 points off must not be appropriate")
	}
}

func TestValidateProgressionFlagsRegression(t *testing.T) {
	levels := []content.LevelID{mustLevel(t, 1), mustLevel(t, 50)}
	texts := []string{
		"12 34 56 78 90",
		"a b c",
	}
	report := ValidateProgression(levels, texts)
	if report.Regressions == 0 {
		t.Error("expected a regression flag when a harder level scores lower")
	}
}

func TestValidateProgressionSteadyForSimilarScores(t *testing.T) {
	levels := []content.LevelID{mustLevel(t, 10), mustLevel(t, 11)}
	text := "the quick brown fox jumps over the lazy dog again and again"
	texts := []string{text, text}
	report := ValidateProgression(levels, texts)
	for _, c := range report.Changes {
		if c.Direction != "steady" {
			t.Errorf("expected steady for identical text, got %s", c.Direction)
		}
	}
}
