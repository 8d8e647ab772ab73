package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/statement_import/internal/apperrors"
	"github.com/SscSPs/statement_import/internal/core/domain"
	"github.com/SscSPs/statement_import/internal/core/mapping"
	portsrepo "github.com/SscSPs/statement_import/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/statement_import/internal/core/ports/services"
)

// TemplateService stores reviewed and auto-accepted header mappings and finds the one that
// fits a new file.
type TemplateService struct {
	BaseService
	templateRepo portsrepo.TemplateRepositoryFacade
	now          func() time.Time
}

// NewTemplateService creates a new TemplateService.
func NewTemplateService(templateRepo portsrepo.TemplateRepositoryFacade) *TemplateService {
	return &TemplateService{templateRepo: templateRepo, now: time.Now}
}

// Ensure TemplateService implements the portssvc.TemplateSvcFacade interface
var _ portssvc.TemplateSvcFacade = (*TemplateService)(nil)

// SaveTemplate persists hm for bankName. The fingerprint is always recomputed from headers,
// created is kept from an earlier save and updated is set to now.
func (s *TemplateService) SaveTemplate(ctx context.Context, bankName string, headers []string, hm domain.HeaderMapping, metadata map[string]any) bool {
	now := s.now().UTC()
	created := now
	existing, err := s.templateRepo.FindTemplateByBank(ctx, bankName)
	switch {
	case err == nil && existing != nil:
		created = existing.Created
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		s.LogError(ctx, err, "Failed to read existing mapping template", slog.String("bank_name", bankName))
	}

	if metadata == nil {
		metadata = map[string]any{}
	}
	tmpl := domain.MappingTemplate{
		BankName:          bankName,
		Version:           domain.TemplateVersion,
		Created:           created,
		Updated:           now,
		HeaderFingerprint: mapping.Fingerprint(headers),
		CSVHeaders:        append([]string(nil), headers...),
		Mapping:           hm,
		Metadata:          metadata,
	}
	if err := tmpl.Validate(); err != nil {
		s.LogError(ctx, err, "Refusing to save invalid mapping template", slog.String("bank_name", bankName))
		return false
	}
	if err := s.templateRepo.SaveTemplate(ctx, tmpl); err != nil {
		s.LogError(ctx, err, "Failed to save mapping template", slog.String("bank_name", bankName))
		return false
	}

	s.LogInfo(ctx, "Mapping template saved",
		slog.String("bank_name", bankName),
		slog.String("fingerprint", tmpl.HeaderFingerprint),
		slog.Bool("auto_created", tmpl.AutoCreated()))
	return true
}

// FindMatchingTemplate returns the named template when its fingerprint matches, else the first
// stored template with the same fingerprint, else the closest one by Jaccard similarity if it
// reaches 0.8. Store errors are logged and treated as "no template".
func (s *TemplateService) FindMatchingTemplate(ctx context.Context, headers []string, bankName string) *domain.MappingTemplate {
	var named *domain.MappingTemplate
	if bankName != "" {
		tmpl, err := s.templateRepo.FindTemplateByBank(ctx, bankName)
		switch {
		case err == nil:
			named = tmpl
		case !errors.Is(err, apperrors.ErrNotFound):
			s.LogError(ctx, err, "Failed to load named mapping template", slog.String("bank_name", bankName))
		}
	}

	all, err := s.templateRepo.ListTemplates(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list mapping templates")
		all = nil
	}

	tmpl, kind, score := mapping.SelectTemplate(headers, named, all)
	if tmpl == nil {
		s.LogDebug(ctx, "No mapping template matched", slog.Float64("best_similarity", score))
		return nil
	}
	s.LogDebug(ctx, "Mapping template matched",
		slog.String("bank_name", tmpl.BankName),
		slog.String("match", string(kind)),
		slog.Float64("similarity", score))
	return tmpl
}

// GetTemplate returns the template stored for bankName.
func (s *TemplateService) GetTemplate(ctx context.Context, bankName string) (*domain.MappingTemplate, error) {
	tmpl, err := s.templateRepo.FindTemplateByBank(ctx, bankName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: mapping template for %s", apperrors.ErrNotFound, bankName)
		}
		return nil, fmt.Errorf("failed to get mapping template in service: %w", err)
	}
	return tmpl, nil
}

// ListTemplates returns every stored template, sorted by bank name.
func (s *TemplateService) ListTemplates(ctx context.Context) ([]domain.MappingTemplate, error) {
	templates, err := s.templateRepo.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list mapping templates in service: %w", err)
	}
	if templates == nil {
		return []domain.MappingTemplate{}, nil
	}
	sort.SliceStable(templates, func(i, j int) bool {
		return templates[i].BankName < templates[j].BankName
	})
	return templates, nil
}
