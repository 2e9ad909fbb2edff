package profiler

import (
	"testing"
	"time"
)

func TestReportComputesPercentilesFromSamples(t *testing.T) {
	p := NewWithCapacity(100)
	for i := 1; i <= 100; i++ {
		p.Record(StageRender, time.Duration(i)*time.Millisecond)
	}
	report := p.Report()
	render := report.Stages[StageRender]
	if render.P50 < 45 || render.P50 > 55 {
		t.Errorf("P50 = %v, want ~50", render.P50)
	}
	if render.P99 < 95 {
		t.Errorf("P99 = %v, want close to 100", render.P99)
	}
}

func TestReportFlagsBottleneckByMaxP99(t *testing.T) {
	p := NewWithCapacity(50)
	for i := 0; i < 50; i++ {
		p.Record(StageInputCapture, time.Millisecond)
		p.Record(StageScoring, time.Millisecond)
		p.Record(StageRender, 30*time.Millisecond)
		p.Record(StageAsyncBoundary, time.Millisecond)
	}
	report := p.Report()
	if report.Bottleneck != StageRender {
		t.Errorf("bottleneck = %v, want render", report.Bottleneck)
	}
}

func TestComplianceFailsWhenOverBudget(t *testing.T) {
	p := NewWithCapacity(10)
	for i := 0; i < 10; i++ {
		p.Record(StageTotal, 100*time.Millisecond)
	}
	report := p.Report()
	if report.Compliance.TotalOK {
		t.Error("expected compliance failure for total P99 over budget")
	}
}

func TestRingWrapsAtCapacity(t *testing.T) {
	p := NewWithCapacity(3)
	for i := 1; i <= 5; i++ {
		p.Record(StageScoring, time.Duration(i)*time.Millisecond)
	}
	samples := p.rings[StageScoring].snapshot()
	if len(samples) != 3 {
		t.Fatalf("expected ring to cap at 3 samples, got %d", len(samples))
	}
}

func TestArenaResetReusesBackingArray(t *testing.T) {
	a := NewArena()
	a.AddLine("hello")
	a.AddLine("world")
	before := cap(a.lines)
	a.Reset()
	if len(a.lines) != 0 {
		t.Errorf("expected empty lines after reset, got %d", len(a.lines))
	}
	if cap(a.lines) != before {
		t.Errorf("expected backing array reused, cap changed from %d to %d", before, cap(a.lines))
	}
}

func TestArenaResizeRecommendationAbove90Percent(t *testing.T) {
	a := NewArena()
	a.linesCap = 10
	a.lines = make([]string, 0, 10)
	for i := 0; i < 9; i++ {
		a.AddLine("x")
	}
	recs := a.ResizeRecommendations()
	found := false
	for _, r := range recs {
		if r.Buffer == "lines" {
			found = true
		}
	}
	if !found {
		t.Error("expected a resize recommendation for the lines buffer at 90% usage")
	}
}
