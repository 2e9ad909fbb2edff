package terminal

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// ResizeWatcher delivers one notification per terminal resize. The
// event loop selects on its channel alongside key polling so a
// mid-session SIGWINCH triggers a re-measure and full repaint instead
// of rendering into stale dimensions, per spec.md §4.10's minimum-size
// check — a check that's only meaningful if it re-runs after a resize.
//
// golang.org/x/term exposes Size() and raw-mode control but has no
// signal plumbing of its own, so this reaches golang.org/x/sys/unix
// directly for the SIGWINCH constant; unix.Signal satisfies os.Signal
// the same way syscall.Signal does, so os/signal.Notify accepts it
// unchanged.
type ResizeWatcher struct {
	signals chan os.Signal
}

// NewResizeWatcher registers for SIGWINCH. Callers must call Stop
// when the watcher is no longer needed to release the signal.Notify
// registration.
func NewResizeWatcher() *ResizeWatcher {
	w := &ResizeWatcher{signals: make(chan os.Signal, 1)}
	signal.Notify(w.signals, unix.SIGWINCH)
	return w
}

// C returns the channel a resize fires on. Deliveries coalesce if the
// receiver is slow to drain, so one receive may represent several
// resizes — callers should always re-measure via Size rather than
// trust the signal count.
func (w *ResizeWatcher) C() <-chan os.Signal {
	return w.signals
}

// Stop unregisters the watcher's signal.Notify subscription.
func (w *ResizeWatcher) Stop() {
	signal.Stop(w.signals)
	close(w.signals)
}
