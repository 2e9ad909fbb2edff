package terminal

import (
	"bytes"
	"errors"
	"os"
	"testing"
)

func TestFitsMinimum(t *testing.T) {
	if !FitsMinimum(80, 24) {
		t.Error("80x24 should fit the minimum")
	}
	if FitsMinimum(79, 24) {
		t.Error("79x24 should not fit the minimum")
	}
	if FitsMinimum(80, 23) {
		t.Error("80x23 should not fit the minimum")
	}
}

func TestAcquireRejectsNonTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	g := New(int(r.Fd()), &bytes.Buffer{})
	release, err := g.Acquire()
	if !errors.Is(err, ErrNotATerminal) {
		t.Errorf("expected ErrNotATerminal for a pipe fd, got %v", err)
	}
	if release != nil {
		t.Error("expected no release function on acquisition failure")
	}
}

func TestStateStringValues(t *testing.T) {
	cases := map[State]string{
		StateNormal:    "normal",
		StateRawOnly:   "raw_only",
		StateAltScreen: "alt_screen",
		StateTyping:    "typing",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}

func TestEmergencyRestoreWritesSequencesEvenWithNoOriginalState(t *testing.T) {
	var buf bytes.Buffer
	EmergencyRestore(int(os.Stdout.Fd()), &buf, nil)
	if buf.Len() == 0 {
		t.Error("expected emergency restore to write ANSI sequences")
	}
}

func TestGuardStateDefaultsToNormal(t *testing.T) {
	g := New(int(os.Stdin.Fd()), &bytes.Buffer{})
	if g.State() != StateNormal {
		t.Errorf("new guard state = %v, want normal", g.State())
	}
}
