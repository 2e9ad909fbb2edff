// Package security implements the content security validator (C2):
// it decides whether generated or externally-supplied text is safe to
// serve as training content, and can normalize text that fails only on
// fixable grounds.
//
// Grounded on internal/executor/security.go's SecurityChecker from the
// teacher repository: a small struct exposing allow/deny predicates with
// a constructor and no mutable global state, returning wrapped errors
// that name exactly what was rejected.
package security

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Rule indexes the seven predicates from §4.2, in spec order. A text is
// accepted iff none are violated.
const (
	RuleEscapeSequence = iota + 1
	RuleShellMetachar
	RuleAbsolutePath
	RuleControlOrPUA
	RuleNotNFC
	RuleNUL
	RuleOtherControl
)

// Violation names the first rule a text fails and a human-readable
// detail, so tests and diagnostics can assert on a specific predicate
// (spec.md S6: "pattern index 1").
type Violation struct {
	Rule   int
	Detail string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("content-invalid: rule %d: %s", v.Rule, v.Detail)
}

// Validate checks all seven predicates and reports the lowest-numbered
// violated rule, or nil if the text is accepted.
func Validate(text string) *Violation {
	violations := map[int]string{}

	if containsEscapeSequence(text) {
		violations[RuleEscapeSequence] = "ESC or CSI sequence present"
	}
	if detail, bad := findShellMetachar(text); bad {
		violations[RuleShellMetachar] = detail
	}
	if hasAbsolutePathLine(text) {
		violations[RuleAbsolutePath] = "line is an absolute file path"
	}
	if hasForbiddenCodepoint(text) {
		violations[RuleControlOrPUA] = "control range, private-use, or noncharacter code point"
	}
	if !norm.NFC.IsNormalString(text) {
		violations[RuleNotNFC] = "text is not in Unicode NFC"
	}
	if strings.ContainsRune(text, 0) {
		violations[RuleNUL] = "NUL byte present"
	}
	if hasOtherControlChar(text) {
		violations[RuleOtherControl] = "control character other than \\t \\n \\r"
	}

	for rule := RuleEscapeSequence; rule <= RuleOtherControl; rule++ {
		if detail, ok := violations[rule]; ok {
			return &Violation{Rule: rule, Detail: detail}
		}
	}
	return nil
}

// Sanitize normalizes text to satisfy rules 1, 4, 5, 6, 7 by deletion and
// normalization. It never rewrites shell metacharacters or absolute-path
// lines (rules 2, 3): a text that only fails those must be rejected by
// the caller, not patched.
func Sanitize(text string) string {
	stripped := stripEscapeSequences(text)

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		switch {
		case r == 0:
			continue // rule 6
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteRune(r)
		case unicode.IsControl(r):
			continue // rule 7
		case isForbiddenCodepoint(r):
			continue // rule 4
		default:
			b.WriteRune(r)
		}
	}
	return norm.NFC.String(b.String())
}

func containsEscapeSequence(s string) bool {
	return strings.ContainsRune(s, 0x1B)
}

// stripEscapeSequences deletes a lone ESC, and if it introduces a CSI
// sequence ("ESC ["), deletes through the final byte in [0x40, 0x7E] or
// 20 bytes, whichever comes first — the same bound C8 uses for input
// escape skipping (§4.8 rule 5), reused here for consistency.
func stripEscapeSequences(s string) string {
	if !strings.ContainsRune(s, 0x1B) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] != 0x1B {
			b.WriteRune(runes[i])
			continue
		}
		j := i + 1
		if j < len(runes) && runes[j] == '[' {
			j++
			limit := j + 20
			for j < len(runes) && j < limit {
				if runes[j] >= 0x40 && runes[j] <= 0x7E {
					j++
					break
				}
				j++
			}
		}
		i = j - 1
	}
	return b.String()
}

// findShellMetachar flags `$( )`, backticks, `&&`, and `||`
// unconditionally, but gates `;`, `>`, `<` on bracket depth: a
// command separator or redirection reads as a shell-injection shape
// only at the top level of the text, the way a real chained shell
// command would appear. The same character nested inside `()`/`{}`/
// `[]` — a for-loop header, a statement inside a function body — is
// ordinary code punctuation, not a chained command, so it's left
// alone; that's what lets technical content (and spec.md's own S6
// accept example) through without also accepting a bare "a; b".
func findShellMetachar(s string) (string, bool) {
	switch {
	case strings.Contains(s, "$("):
		return "command substitution $(", true
	case strings.Contains(s, "`"):
		return "backtick", true
	case strings.Contains(s, "&&"):
		return "&&", true
	case strings.Contains(s, "||"):
		return "||", true
	}

	depth := 0
	runes := []rune(s)
	for i, r := range runes {
		switch r {
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				return "top-level ;", true
			}
		case '>':
			if depth == 0 {
				return "top-level >", true
			}
		case '<':
			if depth == 0 {
				return "top-level <", true
			}
		case '|':
			if !adjacentTo(runes, i, '|') {
				return "standalone |", true
			}
		case '&':
			if !adjacentTo(runes, i, '&') {
				return "standalone &", true
			}
		}
	}
	return "", false
}

func adjacentTo(runes []rune, i int, r rune) bool {
	if i > 0 && runes[i-1] == r {
		return true
	}
	if i+1 < len(runes) && runes[i+1] == r {
		return true
	}
	return false
}

func hasAbsolutePathLine(s string) bool {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			return true
		}
		if len(line) >= 3 && isASCIILetter(rune(line[0])) && line[1] == ':' && (line[2] == '\\' || line[2] == '/') {
			return true
		}
	}
	return false
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func hasOtherControlChar(s string) bool {
	for _, r := range s {
		if r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

func hasForbiddenCodepoint(s string) bool {
	for _, r := range s {
		if isForbiddenCodepoint(r) {
			return true
		}
	}
	return false
}

// isForbiddenCodepoint reports C1 controls, private-use-area code
// points, and Unicode noncharacters.
func isForbiddenCodepoint(r rune) bool {
	if r >= 0x80 && r <= 0x9F {
		return true // C1 controls
	}
	if r >= 0xE000 && r <= 0xF8FF {
		return true // BMP private use area
	}
	if r >= 0xF0000 && r <= 0xFFFFD {
		return true // supplementary private use area A
	}
	if r >= 0x100000 && r <= 0x10FFFD {
		return true // supplementary private use area B
	}
	if r >= 0xFDD0 && r <= 0xFDEF {
		return true // noncharacters
	}
	if r&0xFFFE == 0xFFFE {
		return true // U+nFFFE / U+nFFFF in every plane
	}
	return false
}
