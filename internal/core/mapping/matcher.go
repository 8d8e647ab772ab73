// Package mapping suggests and scores CSV header → canonical field assignments.
package mapping

import (
	"strings"

	"github.com/SscSPs/statement_import/internal/core/domain"
)

const (
	scoreExactName    = 100
	scoreExactSynonym = 95
	fuzzyWeight       = 0.8
	patternBonus      = 20
	patternHitRatio   = 0.7
)

// ScoreHeader rates how well header fits field, 0–100.
//
// Exact name and exact synonym matches short-circuit to 100 and 95. Otherwise the best
// similarity against the synonyms is scaled to at most 80, and up to 20 more points are given
// when the header's sample values look like the field's pattern. For a MixedSign field the
// samples must also include both a negative and a positive value.
func ScoreHeader(header string, field domain.FieldDefinition, samples []*domain.Row) int {
	h := normalizeHeader(header)
	if h == strings.ToLower(field.Name) {
		return scoreExactName
	}
	for _, syn := range field.Synonyms {
		if h == strings.ToLower(syn) {
			return scoreExactSynonym
		}
	}

	best := 0.0
	for _, syn := range field.Synonyms {
		if s := Similarity(h, strings.ToLower(syn)); s > best {
			best = s
		}
	}
	score := int(best * fuzzyWeight)

	if field.Pattern != nil && len(samples) > 0 && samplesMatch(header, field, samples) {
		score += patternBonus
	}
	return score
}

func samplesMatch(header string, field domain.FieldDefinition, samples []*domain.Row) bool {
	nonEmpty, hits := 0, 0
	negative, positive := false, false
	for _, row := range samples {
		v := strings.TrimSpace(row.Value(header))
		if v == "" {
			continue
		}
		nonEmpty++
		if field.Pattern.MatchString(v) {
			hits++
			if isNegative(v) {
				negative = true
			} else {
				positive = true
			}
		}
	}
	if nonEmpty == 0 {
		return false
	}
	if field.MixedSign && !(negative && positive) {
		return false
	}
	return float64(hits)/float64(nonEmpty) >= patternHitRatio
}

// isNegative reports whether a money-shaped value carries a minus sign or accounting
// parentheses.
func isNegative(v string) bool {
	return strings.ContainsAny(v, "-(")
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
