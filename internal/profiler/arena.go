package profiler

// Arena pre-allocates the four reusable buffers the render hot path
// needs — ANSI string bytes, line list, style list, char list — reset
// at frame start rather than reallocated, per spec.md §4.12.
type Arena struct {
	ansi   []byte
	lines  []string
	styles []string
	chars  []rune

	ansiCap, linesCap, stylesCap, charsCap int
	ansiPeak, linesPeak, stylesPeak, charsPeak int
	overflow int
}

const (
	defaultAnsiCap   = 8192
	defaultLinesCap  = 64
	defaultStylesCap = 256
	defaultCharsCap  = 4096
)

// NewArena builds an Arena with the default buffer capacities.
func NewArena() *Arena {
	return &Arena{
		ansi:      make([]byte, 0, defaultAnsiCap),
		lines:     make([]string, 0, defaultLinesCap),
		styles:    make([]string, 0, defaultStylesCap),
		chars:     make([]rune, 0, defaultCharsCap),
		ansiCap:   defaultAnsiCap,
		linesCap:  defaultLinesCap,
		stylesCap: defaultStylesCap,
		charsCap:  defaultCharsCap,
	}
}

// Reset truncates all four buffers to zero length without releasing
// their backing arrays, so the next frame reuses the same memory.
func (a *Arena) Reset() {
	a.ansi = a.ansi[:0]
	a.lines = a.lines[:0]
	a.styles = a.styles[:0]
	a.chars = a.chars[:0]
}

// AppendANSI appends b to the arena's ANSI byte buffer, falling back
// to heap growth (via Go's normal append) and counting the overflow
// if capacity is exceeded.
func (a *Arena) AppendANSI(b []byte) {
	if len(a.ansi)+len(b) > cap(a.ansi) {
		a.overflow++
	}
	a.ansi = append(a.ansi, b...)
	a.trackPeak(&a.ansiPeak, len(a.ansi))
}

// AddLine appends a precomposed line to the arena's line list.
func (a *Arena) AddLine(line string) {
	if len(a.lines)+1 > cap(a.lines) {
		a.overflow++
	}
	a.lines = append(a.lines, line)
	a.trackPeak(&a.linesPeak, len(a.lines))
}

// PrecalculateStyles appends a style tag to the arena's style list.
func (a *Arena) PrecalculateStyles(style string) {
	if len(a.styles)+1 > cap(a.styles) {
		a.overflow++
	}
	a.styles = append(a.styles, style)
	a.trackPeak(&a.stylesPeak, len(a.styles))
}

// AddChar appends a rune to the arena's char list.
func (a *Arena) AddChar(r rune) {
	if len(a.chars)+1 > cap(a.chars) {
		a.overflow++
	}
	a.chars = append(a.chars, r)
	a.trackPeak(&a.charsPeak, len(a.chars))
}

func (a *Arena) trackPeak(peak *int, current int) {
	if current > *peak {
		*peak = current
	}
}

// OverflowCount reports how many appends exceeded a buffer's current
// capacity and fell back to heap growth. Grown capacity is kept across
// Reset, so later appends count only past the largest capacity so far.
func (a *Arena) OverflowCount() int {
	return a.overflow
}

// ResizeRecommendation names a buffer whose peak usage exceeded 90%
// of its starting capacity, per spec.md §4.12.
type ResizeRecommendation struct {
	Buffer string
	Peak   int
	Cap    int
}

// ResizeRecommendations reports every buffer whose peak usage this
// arena has seen exceeds 90% of its starting capacity.
func (a *Arena) ResizeRecommendations() []ResizeRecommendation {
	var recs []ResizeRecommendation
	check := func(name string, peak, capacity int) {
		if capacity > 0 && float64(peak) >= 0.9*float64(capacity) {
			recs = append(recs, ResizeRecommendation{Buffer: name, Peak: peak, Cap: capacity})
		}
	}
	check("ansi", a.ansiPeak, a.ansiCap)
	check("lines", a.linesPeak, a.linesCap)
	check("styles", a.stylesPeak, a.stylesCap)
	check("chars", a.charsPeak, a.charsCap)
	return recs
}
