package repositories

import (
	"context"

	"github.com/SscSPs/statement_import/internal/core/domain"
)

// TemplateReader defines read operations for stored mapping templates.
type TemplateReader interface {
	// FindTemplateByBank loads the template saved under bankName.
	// Returns apperrors.ErrNotFound when there is none.
	FindTemplateByBank(ctx context.Context, bankName string) (*domain.MappingTemplate, error)

	// ListTemplates returns every stored template in a stable order.
	ListTemplates(ctx context.Context) ([]domain.MappingTemplate, error)
}

// TemplateWriter defines write operations for mapping templates.
type TemplateWriter interface {
	// SaveTemplate creates or replaces the template for tmpl.BankName.
	SaveTemplate(ctx context.Context, tmpl domain.MappingTemplate) error
}

// TemplateRepositoryFacade combines the template interfaces.
type TemplateRepositoryFacade interface {
	TemplateReader
	TemplateWriter
}
