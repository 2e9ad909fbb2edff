package difficulty

import (
	"math"

	"github.com/centotype/centotype/internal/content"
)

// StepChange mirrors diff.MetricChange: the score delta between two
// consecutive levels in a progression, tagged by direction and
// significance against fixed absolute-point thresholds.
type StepChange struct {
	FromLevel    content.LevelID
	ToLevel      content.LevelID
	OldScore     float64
	NewScore     float64
	Delta        float64
	DeltaPct     float64
	Direction    string // "regression", "spike", "steady"
	Significance string // "high", "medium", "low"
}

// ProgressionReport is the Compare-shaped summary of a level sequence.
type ProgressionReport struct {
	Changes      []StepChange
	Regressions  int
	Spikes       int
}

// ValidateProgression walks levels in order, scoring each text with
// Analyze and tagging the step-to-step delta the way diff.addChange
// tags a metric delta: a drop beyond the threshold is a "regression",
// a jump beyond the threshold is a "spike", everything else is
// "steady". Negligible deltas (<0.1 absolute) are dropped, exactly as
// diff.addChange skips them.
func ValidateProgression(levels []content.LevelID, texts []string) ProgressionReport {
	var report ProgressionReport
	for i := 1; i < len(levels) && i < len(texts); i++ {
		oldScore := Analyze(texts[i-1]).Overall()
		newScore := Analyze(texts[i]).Overall()
		change, ok := stepChange(levels[i-1], levels[i], oldScore, newScore)
		if !ok {
			continue
		}
		report.Changes = append(report.Changes, change)
		switch change.Direction {
		case "regression":
			report.Regressions++
		case "spike":
			report.Spikes++
		}
	}
	return report
}

// regressionBound and spikeBound are spec.md §4.3's literal
// score_i − score_{i−1} ∈ [−5, +15] band: a drop past regressionBound
// is a "regression", a jump past spikeBound is a "spike".
const (
	regressionBound = -5.0
	spikeBound      = 15.0
)

func stepChange(from, to content.LevelID, oldScore, newScore float64) (StepChange, bool) {
	delta := newScore - oldScore
	deltaPct := 0.0
	if oldScore != 0 {
		deltaPct = (delta / math.Abs(oldScore)) * 100
	}

	if math.Abs(delta) < 0.1 {
		return StepChange{}, false
	}

	direction := "steady"
	if delta < regressionBound {
		direction = "regression"
	} else if delta > spikeBound {
		direction = "spike"
	}

	significance := "low"
	absDelta := math.Abs(delta)
	if absDelta >= 30 {
		significance = "high"
	} else if absDelta >= 15 {
		significance = "medium"
	}

	return StepChange{
		FromLevel:    from,
		ToLevel:      to,
		OldScore:     oldScore,
		NewScore:     newScore,
		Delta:        delta,
		DeltaPct:     deltaPct,
		Direction:    direction,
		Significance: significance,
	}, true
}
