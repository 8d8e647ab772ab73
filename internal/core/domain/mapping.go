package domain

import (
	"fmt"
	"sort"

	"github.com/SscSPs/statement_import/internal/apperrors"
)

// HeaderMapping maps a raw CSV header, as it appeared in the file, to a canonical field name.
type HeaderMapping map[string]string

// HeaderFor returns the header mapped to field, if any.
func (m HeaderMapping) HeaderFor(field string) (string, bool) {
	for header, f := range m {
		if f == field {
			return header, true
		}
	}
	return "", false
}

// Fields returns the distinct mapped field names, sorted.
func (m HeaderMapping) Fields() []string {
	seen := make(map[string]bool, len(m))
	fields := make([]string, 0, len(m))
	for _, f := range m {
		if !seen[f] {
			seen[f] = true
			fields = append(fields, f)
		}
	}
	sort.Strings(fields)
	return fields
}

// Validate checks that every target is a catalog field and, when headers is non-empty, that
// every mapped header is one of them.
func (m HeaderMapping) Validate(headers []string) error {
	known := make(map[string]bool, len(headers))
	for _, h := range headers {
		known[h] = true
	}
	for header, field := range m {
		if _, ok := FieldByName(field); !ok {
			return fmt.Errorf("%w: header %q mapped to unknown field %q", apperrors.ErrValidation, header, field)
		}
		if len(headers) > 0 && !known[header] {
			return fmt.Errorf("%w: mapped header %q is not in the file", apperrors.ErrValidation, header)
		}
	}
	return nil
}

// MappingQuality buckets a mapping evaluation score.
type MappingQuality string

const (
	QualityPoor      MappingQuality = "poor"
	QualityFair      MappingQuality = "fair"
	QualityGood      MappingQuality = "good"
	QualityExcellent MappingQuality = "excellent"
)

// QualityForScore applies the quality gate thresholds.
func QualityForScore(score int) MappingQuality {
	switch {
	case score >= 90:
		return QualityExcellent
	case score >= 70:
		return QualityGood
	case score >= 50:
		return QualityFair
	default:
		return QualityPoor
	}
}

// MappingEvaluation is the quality verdict on a HeaderMapping.
type MappingEvaluation struct {
	Score           int            `json:"score"`
	MissingRequired []string       `json:"missingRequired"`
	Quality         MappingQuality `json:"quality"`
}

// ResolutionStatus tags a MappingResolution.
type ResolutionStatus string

const (
	ResolutionResolved    ResolutionStatus = "resolved"
	ResolutionNeedsReview ResolutionStatus = "needs_review"
)

// MappingSource tells where a resolved mapping came from.
type MappingSource string

const (
	MappingSourceCaller     MappingSource = "caller"
	MappingSourceTemplate   MappingSource = "template"
	MappingSourceSuggestion MappingSource = "suggestion"
)

// MappingResolution is either Resolved(mapping) or NeedsReview(suggested, evaluation).
// Callers must check Status before using Mapping for parsing.
type MappingResolution struct {
	Status     ResolutionStatus  `json:"status"`
	Source     MappingSource     `json:"source,omitempty"`
	Mapping    HeaderMapping     `json:"mapping"`
	Evaluation MappingEvaluation `json:"evaluation"`
	Template   *MappingTemplate  `json:"template,omitempty"`
}

// Resolved builds the Resolved variant.
func Resolved(mapping HeaderMapping, eval MappingEvaluation, source MappingSource, tmpl *MappingTemplate) MappingResolution {
	return MappingResolution{Status: ResolutionResolved, Source: source, Mapping: mapping, Evaluation: eval, Template: tmpl}
}

// NeedsReview builds the NeedsReview variant carrying the suggestion for the reviewer.
func NeedsReview(suggested HeaderMapping, eval MappingEvaluation) MappingResolution {
	return MappingResolution{Status: ResolutionNeedsReview, Source: MappingSourceSuggestion, Mapping: suggested, Evaluation: eval}
}

// IsResolved reports whether parsing may proceed.
func (r MappingResolution) IsResolved() bool {
	return r.Status == ResolutionResolved
}
