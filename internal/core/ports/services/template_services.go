package services

import (
	"context"

	"github.com/SscSPs/statement_import/internal/core/domain"
)

// TemplateReaderSvc defines read operations on mapping templates.
type TemplateReaderSvc interface {
	// FindMatchingTemplate returns the template for headers, or nil when no template passes the
	// named, exact or fuzzy gate.
	FindMatchingTemplate(ctx context.Context, headers []string, bankName string) *domain.MappingTemplate

	// GetTemplate returns the template stored under bankName.
	GetTemplate(ctx context.Context, bankName string) (*domain.MappingTemplate, error)

	// ListTemplates returns all stored templates.
	ListTemplates(ctx context.Context) ([]domain.MappingTemplate, error)
}

// TemplateWriterSvc defines write operations on mapping templates.
type TemplateWriterSvc interface {
	// SaveTemplate persists a mapping for bankName. Failures are logged and reported as false.
	SaveTemplate(ctx context.Context, bankName string, headers []string, mapping domain.HeaderMapping, metadata map[string]any) bool
}

// TemplateSvcFacade combines the template service interfaces.
type TemplateSvcFacade interface {
	TemplateReaderSvc
	TemplateWriterSvc
}
