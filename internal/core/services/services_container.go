package services

import (
	portsrepo "github.com/SscSPs/statement_import/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/statement_import/internal/core/ports/services"
	"github.com/SscSPs/statement_import/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Template = NewTemplateService(repos.TemplateRepo)

	var shortener portssvc.PayeeShortener
	if cfg.PayeeShortening {
		shortener = NewRulePayeeShortener()
	}

	container.Import = NewImportService(cfg, container.Template, repos.BankAccountRepo, shortener)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.TemplateSvcFacade = (*TemplateService)(nil)
	_ portssvc.ImportSvc         = (*ImportService)(nil)
)
