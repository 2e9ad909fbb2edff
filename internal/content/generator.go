package content

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/centotype/centotype/internal/security"
)

// ErrGenerationExhausted is returned when repeated perturbation of the
// generator's internal state still produces only invalid content.
var ErrGenerationExhausted = errors.New("content-generation-exhausted")

const maxGenerationAttempts = 25

// classFlags describes which character classes a tier unlocks, per the
// table in spec.md §4.1.
type classFlags struct {
	digits     bool
	richPunct  bool
	symbols    bool
	brackets   bool
	operators  bool
	technical  bool
	mixedCase  bool
}

func allowedClasses(tier int) classFlags {
	return classFlags{
		digits:    tier >= 3,
		richPunct: tier >= 4,
		symbols:   tier >= 6,
		brackets:  tier >= 6,
		operators: tier >= 6,
		technical: tier >= 6,
		mixedCase: tier >= 6,
	}
}

// lengthBounds returns the byte-length window for a tier, interpolating
// between the tier-1 anchor (40-120) and the tier-9/10 anchor (350-550).
func lengthBounds(tier int) (min, max int) {
	if tier >= 9 {
		return 350, 550
	}
	min = 40 + (tier-1)*(350-40)/8
	max = 120 + (tier-1)*(550-120)/8
	return
}

// expectedRatios computes the symbol/number/technical ratios a level is
// expected to exhibit, per the closed-form formulas in §4.3.
func expectedRatios(tier, tierProgress int) (symbol, number, tech float64) {
	t, tp := float64(tier), float64(tierProgress)
	symbol = (5 + (t-1)*2.5 + (tp-1)*0.3) / 100
	number = (3 + (t-1)*1.7 + (tp-1)*0.2) / 100
	tech = (2 + (t-1)*1.3 + (tp-1)*0.2) / 100
	return
}

// Generate produces deterministic training text for (level, seed),
// optionally biased toward a drill Category. Equal (level, seed,
// category) always yields byte-equal output.
func Generate(level LevelID, seed Seed, category Category) (string, error) {
	tier := level.Tier()
	tierProgress := level.TierProgress()
	cf := allowedClasses(tier)
	minLen, maxLen := lengthBounds(tier)
	symbolRatio, numberRatio, techRatio := expectedRatios(tier, tierProgress)

	var lastErr error
	for attempt := 0; attempt < maxGenerationAttempts; attempt++ {
		// The caller-visible seed never changes; only this internal
		// perturbation counter folds into the PRNG state on retry.
		rng := rand.New(rand.NewSource(int64(seed)*31 + int64(attempt)))
		text := generateOnce(rng, cf, category, minLen, maxLen, symbolRatio, numberRatio, techRatio)
		sanitized := security.Sanitize(text)
		if v := security.Validate(sanitized); v == nil {
			return sanitized, nil
		} else {
			lastErr = v
		}
	}
	return "", fmt.Errorf("%w: %v", ErrGenerationExhausted, lastErr)
}

func generateOnce(rng *rand.Rand, cf classFlags, category Category, minLen, maxLen int, symbolRatio, numberRatio, techRatio float64) string {
	targetLen := minLen
	if maxLen > minLen {
		targetLen = minLen + rng.Intn(maxLen-minLen+1)
	}

	var words []string
	length := 0
	for length < targetLen {
		word := nextToken(rng, cf, category, symbolRatio, numberRatio, techRatio)
		// Tokens the validator rejects on their own ("&&", "<=", a lone
		// ";" or "&") would fail every attempt, so they are redrawn.
		for security.Validate(word) != nil {
			word = nextToken(rng, cf, category, symbolRatio, numberRatio, techRatio)
		}
		if len(words) > 0 {
			length++ // separating space
		}
		words = append(words, word)
		length += len([]rune(word))
	}

	text := strings.Join(words, " ")
	runes := []rune(text)
	if len(runes) > maxLen {
		runes = runes[:maxLen]
		// Avoid ending mid-word where possible.
		if idx := strings.LastIndexByte(string(runes), ' '); idx > minLen/2 {
			runes = []rune(string(runes)[:idx])
		}
	}
	return string(runes)
}

// nextToken draws one space-separated token, respecting the tier's
// allowed classes and, for Drill mode, biasing heavily toward category.
func nextToken(rng *rand.Rand, cf classFlags, category Category, symbolRatio, numberRatio, techRatio float64) string {
	if category != CategoryNone {
		if tok, ok := categoryToken(rng, category); ok {
			return tok
		}
	}

	r := rng.Float64()
	switch {
	case cf.technical && r < techRatio*4:
		return technicalLexicon[rng.Intn(len(technicalLexicon))]
	case cf.digits && r < techRatio*4+numberRatio*4:
		return digitTokens[rng.Intn(len(digitTokens))]
	case cf.operators && r < techRatio*4+numberRatio*4+symbolRatio*2:
		return operatorTokens[rng.Intn(len(operatorTokens))]
	case cf.brackets && r < techRatio*4+numberRatio*4+symbolRatio*3:
		return bracketWord(rng)
	case cf.symbols && r < techRatio*4+numberRatio*4+symbolRatio*4:
		return symbolWord(rng)
	default:
		return wordWithPunctuation(rng, cf)
	}
}

func categoryToken(rng *rand.Rand, category Category) (string, bool) {
	switch category {
	case CategoryNumbers:
		return digitTokens[rng.Intn(len(digitTokens))], true
	case CategoryPunctuation:
		return string(punctuationRunes[rng.Intn(len(punctuationRunes))]), true
	case CategorySymbols:
		return symbolWord(rng), true
	case CategoryCamelCase:
		return camelCaseTokens[rng.Intn(len(camelCaseTokens))], true
	case CategorySnakeCase:
		return snakeCaseTokens[rng.Intn(len(snakeCaseTokens))], true
	case CategoryOperators:
		return operatorTokens[rng.Intn(len(operatorTokens))], true
	}
	return "", false
}

func bracketWord(rng *rand.Rand) string {
	open := bracketRunes[rng.Intn(len(bracketRunes)/2)*2]
	closing := open + 1
	switch open {
	case '(':
		closing = ')'
	case '[':
		closing = ']'
	case '{':
		closing = '}'
	case '<':
		closing = '>'
	}
	return string(open) + commonWords[rng.Intn(len(commonWords))] + string(closing)
}

func symbolWord(rng *rand.Rand) string {
	return string(symbolRunes[rng.Intn(len(symbolRunes))])
}

func wordWithPunctuation(rng *rand.Rand, cf classFlags) string {
	word := commonWords[rng.Intn(len(commonWords))]
	if cf.mixedCase && rng.Float64() < 0.15 {
		word = strings.ToUpper(word[:1]) + word[1:]
	}
	if rng.Float64() < 0.1 {
		var puncts []rune
		if cf.richPunct {
			puncts = punctuationRunes
		} else {
			puncts = punctuationRunes[:3] // '.', ',', '!'
		}
		word += string(puncts[rng.Intn(len(puncts))])
	}
	return word
}
