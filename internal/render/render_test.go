package render

import (
	"strings"
	"testing"
)

func TestRenderShowsResizeBannerBelowMinimum(t *testing.T) {
	f := NewFrame(40, 10)
	out := f.Render()
	if !contains(out, "resize terminal") {
		t.Errorf("expected resize banner, got %q", out)
	}
}

func TestRenderComposesAllSectionsAboveMinimum(t *testing.T) {
	f := NewFrame(80, 24)
	f.Header = Header{Mode: "arcade", Level: 5, SessionID: "abc123"}
	f.TargetText = []rune("hello")
	f.TypedText = []rune("helo")
	f.CursorPos = 4
	f.Metrics = MetricsStrip{WPM: 55, Accuracy: 98, Streak: 3, Elapsed: "00:30"}
	f.ProgressPct = 50
	f.HelpHint = "F1 help"

	out := f.Render()
	if !contains(out, "arcade") || !contains(out, "level 5") {
		t.Errorf("expected header content, got %q", out)
	}
	if !contains(out, "WPM 55") {
		t.Errorf("expected metrics strip content, got %q", out)
	}
	if !contains(out, "50%") {
		t.Errorf("expected progress bar content, got %q", out)
	}
	if !contains(out, "F1 help") {
		t.Errorf("expected help hint content, got %q", out)
	}
}

func TestRenderHelpOverlayReplacesTextPane(t *testing.T) {
	f := NewFrame(80, 24)
	f.TargetText = []rune("hello")
	f.HelpOverlay = []string{"Esc: quit", "Ctrl+P: pause"}
	out := f.Render()
	if !contains(out, "Esc: quit") {
		t.Errorf("expected overlay content, got %q", out)
	}
}

func TestVisualWidthHandlesWideCharacters(t *testing.T) {
	if w := VisualWidth("ab"); w != 2 {
		t.Errorf("VisualWidth(\"ab\") = %d, want 2", w)
	}
	if w := VisualWidth("你好"); w != 4 {
		t.Errorf("VisualWidth(wide) = %d, want 4", w)
	}
}

func contains(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}
