package dto

import "github.com/SscSPs/statement_import/internal/core/domain"

// SuggestMappingRequest asks for a header mapping. Each sample row holds one value per header.
type SuggestMappingRequest struct {
	Headers    []string   `json:"headers" binding:"required,min=1"`
	SampleRows [][]string `json:"sampleRows"`
}

// EvaluationResponse is the quality verdict on a mapping.
type EvaluationResponse struct {
	Score           int      `json:"score"`
	Quality         string   `json:"quality"`
	MissingRequired []string `json:"missingRequired"`
}

// SuggestMappingResponse carries the suggested mapping and its evaluation.
type SuggestMappingResponse struct {
	Mapping    map[string]string  `json:"mapping"`
	Evaluation EvaluationResponse `json:"evaluation"`
}

// Samples zips every sample row that has one value per header. Other rows are dropped.
func (r SuggestMappingRequest) Samples() []*domain.Row {
	rows := make([]*domain.Row, 0, len(r.SampleRows))
	for _, values := range r.SampleRows {
		if len(values) != len(r.Headers) {
			continue
		}
		rows = append(rows, domain.ZipRow(r.Headers, values))
	}
	return rows
}

// ToEvaluationResponse converts a domain.MappingEvaluation.
func ToEvaluationResponse(e domain.MappingEvaluation) EvaluationResponse {
	missing := e.MissingRequired
	if missing == nil {
		missing = []string{}
	}
	return EvaluationResponse{
		Score:           e.Score,
		Quality:         string(e.Quality),
		MissingRequired: missing,
	}
}

// ToSuggestMappingResponse builds the response for a suggestion.
func ToSuggestMappingResponse(m domain.HeaderMapping, e domain.MappingEvaluation) SuggestMappingResponse {
	if m == nil {
		m = domain.HeaderMapping{}
	}
	return SuggestMappingResponse{Mapping: m, Evaluation: ToEvaluationResponse(e)}
}
