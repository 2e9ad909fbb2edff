package content

var technicalWordSet = buildTechnicalWordSet()

func buildTechnicalWordSet() map[string]struct{} {
	set := make(map[string]struct{}, len(technicalLexicon))
	for _, w := range technicalLexicon {
		set[w] = struct{}{}
	}
	return set
}

// IsTechnicalWord reports whether word belongs to the fixed lexicon of
// programming terms used to compute technical_contribution (§4.3).
func IsTechnicalWord(word string) bool {
	_, ok := technicalWordSet[word]
	return ok
}
