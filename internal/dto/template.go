package dto

import (
	"time"

	"github.com/SscSPs/statement_import/internal/core/domain"
)

// SaveTemplateRequest stores a reviewed mapping for a bank.
type SaveTemplateRequest struct {
	Headers  []string          `json:"headers" binding:"required,min=1"`
	Mapping  map[string]string `json:"mapping" binding:"required,min=1"`
	Metadata map[string]any    `json:"metadata"`
}

// TemplateResponse is a stored mapping template.
type TemplateResponse struct {
	BankName          string            `json:"bankName"`
	Version           string            `json:"version"`
	Created           time.Time         `json:"created"`
	Updated           time.Time         `json:"updated"`
	HeaderFingerprint string            `json:"headerFingerprint"`
	CSVHeaders        []string          `json:"csvHeaders"`
	Mapping           map[string]string `json:"mapping"`
	AutoCreated       bool              `json:"autoCreated"`
	Metadata          map[string]any    `json:"metadata,omitempty"`
}

// ListTemplatesParams are the query parameters of the template listing.
type ListTemplatesParams struct {
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=500"`
	NextToken string `form:"nextToken"`
}

// ListTemplatesResponse is one page of templates. NextToken is nil on the last page.
type ListTemplatesResponse struct {
	Templates []TemplateResponse `json:"templates"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToTemplateResponse converts a domain.MappingTemplate.
func ToTemplateResponse(t *domain.MappingTemplate) TemplateResponse {
	return TemplateResponse{
		BankName:          t.BankName,
		Version:           t.Version,
		Created:           t.Created,
		Updated:           t.Updated,
		HeaderFingerprint: t.HeaderFingerprint,
		CSVHeaders:        t.CSVHeaders,
		Mapping:           t.Mapping,
		AutoCreated:       t.AutoCreated(),
		Metadata:          t.Metadata,
	}
}

// ToListTemplateResponse converts a slice of templates.
func ToListTemplateResponse(templates []domain.MappingTemplate) []TemplateResponse {
	res := make([]TemplateResponse, len(templates))
	for i := range templates {
		res[i] = ToTemplateResponse(&templates[i])
	}
	return res
}
