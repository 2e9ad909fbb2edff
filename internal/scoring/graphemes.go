package scoring

import (
	"github.com/clipperhouse/uax29/v2/graphemes"
	"golang.org/x/text/unicode/norm"
)

// splitGraphemes normalizes s to NFC and segments it into its grapheme
// clusters, the unit the classifier and accuracy calculation both
// compare over instead of raw runes — a composed "e + combining acute"
// and a precomposed "é" must compare equal.
func splitGraphemes(s string) []string {
	var clusters []string
	seg := graphemes.NewSegmenter([]byte(norm.NFC.String(s)))
	for seg.Next() {
		clusters = append(clusters, string(seg.Bytes()))
	}
	return clusters
}
