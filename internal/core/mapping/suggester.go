package mapping

import (
	"github.com/SscSPs/statement_import/internal/core/domain"
)

// acceptThreshold is the score a header has to beat to be assigned to a field.
const acceptThreshold = 30

// Suggest assigns headers to fields greedily, in FieldCatalog order. Each field takes the
// highest-scoring header that no earlier field has claimed; ties go to the header that comes
// first in the file. A field whose best score is not above 30 stays unmapped.
//
// This is not a global optimum: an early field can claim a header that would have scored
// higher for a later one. The output must stay stable for the same input, so keep it greedy.
func Suggest(headers []string, samples []*domain.Row) domain.HeaderMapping {
	mapping := make(domain.HeaderMapping)
	claimed := make(map[int]bool, len(headers))

	for _, field := range domain.FieldCatalog {
		bestIdx, bestScore := -1, -1
		for i, header := range headers {
			if claimed[i] {
				continue
			}
			if s := ScoreHeader(header, field, samples); s > bestScore {
				bestIdx, bestScore = i, s
			}
		}
		if bestIdx >= 0 && bestScore > acceptThreshold {
			claimed[bestIdx] = true
			mapping[headers[bestIdx]] = field.Name
		}
	}
	return mapping
}

// Evaluate scores a mapping by the share of required fields it covers.
func Evaluate(mapping domain.HeaderMapping) domain.MappingEvaluation {
	mapped := make(map[string]bool, len(mapping))
	for _, f := range mapping {
		mapped[f] = true
	}

	required := domain.RequiredFields()
	missing := []string{}
	for _, name := range required {
		if !mapped[name] {
			missing = append(missing, name)
		}
	}

	score := 0
	if len(required) > 0 {
		score = 100 * (len(required) - len(missing)) / len(required)
	}
	return domain.MappingEvaluation{
		Score:           score,
		MissingRequired: missing,
		Quality:         domain.QualityForScore(score),
	}
}
