package mapping

import "github.com/SscSPs/statement_import/internal/core/domain"

// MatchKind tells which gate a template passed.
type MatchKind string

const (
	MatchNone  MatchKind = ""
	MatchNamed MatchKind = "named"
	MatchExact MatchKind = "exact"
	MatchFuzzy MatchKind = "fuzzy"
)

// SelectTemplate picks the template for headers.
//
// Precedence: the named bank's template when its fingerprint equals the headers', then the
// first stored template with an equal fingerprint, then the stored template with the highest
// Jaccard similarity if it reaches 0.8. An exact match always wins over a fuzzy one.
func SelectTemplate(headers []string, named *domain.MappingTemplate, all []domain.MappingTemplate) (*domain.MappingTemplate, MatchKind, float64) {
	fp := Fingerprint(headers)

	if named != nil && named.HeaderFingerprint == fp {
		return named, MatchNamed, 1
	}

	for i := range all {
		if all[i].HeaderFingerprint == fp {
			return &all[i], MatchExact, 1
		}
	}

	bestIdx, bestScore := -1, 0.0
	for i := range all {
		if s := Jaccard(headers, all[i].CSVHeaders); s > bestScore {
			bestIdx, bestScore = i, s
		}
	}
	if bestIdx >= 0 && IsFuzzyMatch(bestScore) {
		return &all[bestIdx], MatchFuzzy, bestScore
	}
	return nil, MatchNone, bestScore
}
