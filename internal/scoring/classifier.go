// Package scoring implements the error classifier (C6) and the
// scoring engine (C7): grapheme-aware edit distance with an operation
// trace, and the WPM/accuracy/consistency/SkillIndex formulas derived
// from it.
package scoring

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Op is one edit operation in a classification trace.
type Op int

const (
	OpMatch Op = iota
	OpSub
	OpTransposition
	OpDel
	OpIns
)

func (o Op) String() string {
	switch o {
	case OpMatch:
		return "match"
	case OpSub:
		return "sub"
	case OpTransposition:
		return "transposition"
	case OpDel:
		return "del"
	case OpIns:
		return "ins"
	default:
		return "unknown"
	}
}

// Step is one entry in a classification's operation trace.
type Step struct {
	Op       Op
	Target   string // grapheme cluster from target_text, "" for Ins
	Typed    string // grapheme cluster from typed_text, "" for Del
}

// Analysis is the memoized result of classifying (target, typed).
type Analysis struct {
	Distance int
	Trace    []Step
}

const classifierCacheSize = 1000

// Classifier computes and memoizes grapheme-level Damerau-Levenshtein
// analyses. Capacity ~1000 per spec.md §4.6; no TTL is needed since
// entries are content-addressed by the full (target, typed) pair, the
// same reasoning SPEC_FULL.md §4.6 records for reusing golang-lru/v2
// here rather than the TTL-aware expirable variant C4 uses.
type Classifier struct {
	cache *lru.Cache[cacheKey, Analysis]
}

type cacheKey struct {
	target string
	typed  string
}

// NewClassifier builds a Classifier with the default memo capacity.
func NewClassifier() *Classifier {
	c, err := lru.New[cacheKey, Analysis](classifierCacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which
		// classifierCacheSize never is.
		panic(fmt.Sprintf("scoring: classifier cache: %v", err))
	}
	return &Classifier{cache: c}
}

// Classify returns the memoized Damerau-Levenshtein analysis between
// target and typed, computed over grapheme clusters.
func (c *Classifier) Classify(target, typed string) Analysis {
	key := cacheKey{target: target, typed: typed}
	if a, ok := c.cache.Get(key); ok {
		return a
	}
	a := classify(splitGraphemes(target), splitGraphemes(typed))
	c.cache.Add(key, a)
	return a
}

// classify runs Damerau-Levenshtein with adjacent-transposition over
// two grapheme-cluster slices, then traces back through the DP table
// to produce a stable operation sequence. Tie-break order during
// traceback: Match > Sub > Transposition > Del > Ins, per spec.md
// §4.6, so repeated runs on equal input produce an identical trace.
func classify(target, typed []string) Analysis {
	n, m := len(target), len(typed)
	d := make([][]int, n+1)
	for i := range d {
		d[i] = make([]int, m+1)
		d[i][0] = i
	}
	for j := 0; j <= m; j++ {
		d[0][j] = j
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			cost := 1
			if target[i-1] == typed[j-1] {
				cost = 0
			}
			best := d[i-1][j-1] + cost // match or sub
			if del := d[i-1][j] + 1; del < best {
				best = del
			}
			if ins := d[i][j-1] + 1; ins < best {
				best = ins
			}
			if i > 1 && j > 1 && target[i-1] == typed[j-2] && target[i-2] == typed[j-1] {
				if trans := d[i-2][j-2] + 1; trans < best {
					best = trans
				}
			}
			d[i][j] = best
		}
	}

	return Analysis{
		Distance: d[n][m],
		Trace:    traceback(d, target, typed),
	}
}

func traceback(d [][]int, target, typed []string) []Step {
	i, j := len(target), len(typed)
	var steps []Step

	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && target[i-1] == typed[j-1] && d[i][j] == d[i-1][j-1]:
			steps = append(steps, Step{Op: OpMatch, Target: target[i-1], Typed: typed[j-1]})
			i--
			j--
		case i > 0 && j > 0 && target[i-1] != typed[j-1] && d[i][j] == d[i-1][j-1]+1:
			steps = append(steps, Step{Op: OpSub, Target: target[i-1], Typed: typed[j-1]})
			i--
			j--
		case i > 1 && j > 1 && target[i-1] == typed[j-2] && target[i-2] == typed[j-1] && d[i][j] == d[i-2][j-2]+1:
			steps = append(steps, Step{Op: OpTransposition, Target: target[i-1], Typed: typed[j-1]})
			i -= 2
			j -= 2
		case i > 0 && d[i][j] == d[i-1][j]+1:
			steps = append(steps, Step{Op: OpDel, Target: target[i-1]})
			i--
		case j > 0:
			steps = append(steps, Step{Op: OpIns, Typed: typed[j-1]})
			j--
		default:
			// Unreachable: one of the above must hold while i>0 or j>0.
			i, j = 0, 0
		}
	}

	// Reverse so the trace reads target-start to target-end.
	for l, r := 0, len(steps)-1; l < r; l, r = l+1, r-1 {
		steps[l], steps[r] = steps[r], steps[l]
	}
	return steps
}
