package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/statement_import/internal/apperrors"
	"github.com/SscSPs/statement_import/internal/core/csvimport"
	"github.com/SscSPs/statement_import/internal/core/domain"
	"github.com/SscSPs/statement_import/internal/core/mapping"
	"github.com/SscSPs/statement_import/internal/core/ofx"
	portsrepo "github.com/SscSPs/statement_import/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/statement_import/internal/core/ports/services"
	"github.com/SscSPs/statement_import/internal/platform/config"
)

const byteOrderMark = "\uFEFF"

// ImportService parses uploaded statement files.
type ImportService struct {
	BaseService
	extractor *ofx.Extractor
	pipeline  *csvimport.Pipeline
	templates portssvc.TemplateSvcFacade
	defaults  ofx.StaticDefaults
}

// NewImportService creates a new ImportService. templates, accounts and shortener may be nil.
func NewImportService(cfg *config.Config, templates portssvc.TemplateSvcFacade, accounts portsrepo.BankAccountReader, shortener portssvc.PayeeShortener) *ImportService {
	var store csvimport.TemplateStore
	if templates != nil {
		store = templates
	}
	return &ImportService{
		extractor: ofx.NewExtractor(accounts, shortener, cfg.DefaultCurrency),
		pipeline:  csvimport.NewPipeline(store, accounts, shortener, cfg.DefaultAccountName, cfg.DefaultCurrency),
		templates: templates,
		defaults: ofx.StaticDefaults{
			AccountName: cfg.DefaultAccountName,
			AccountCode: cfg.DefaultAccountCode,
		},
	}
}

// Ensure ImportService implements the portssvc.ImportSvc interface
var _ portssvc.ImportSvc = (*ImportService)(nil)

// ImportOFX parses an OFX or QFX document into statements.
func (s *ImportService) ImportOFX(ctx context.Context, req portssvc.OFXImportRequest) ([]*domain.Statement, error) {
	content := strings.TrimPrefix(req.Content, byteOrderMark)
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.ErrEmptyInput
	}

	defaults := s.defaults
	if req.AccountName != "" {
		defaults.AccountName = req.AccountName
	}
	if req.AccountCode != "" {
		defaults.AccountCode = req.AccountCode
	}

	statements, err := s.extractor.Parse(ctx, content, defaults)
	if err != nil {
		s.LogError(ctx, err, "Failed to parse OFX document")
		return nil, fmt.Errorf("failed to import OFX document: %w", err)
	}

	txCount := 0
	for _, stmt := range statements {
		txCount += len(stmt.Transactions)
	}
	s.LogInfo(ctx, "OFX document imported",
		slog.Int("statements", len(statements)),
		slog.Int("transactions", txCount))
	return statements, nil
}

// ImportCSV parses a CSV document. A reviewed mapping supplied with a bank name is stored as
// that bank's template before parsing.
func (s *ImportService) ImportCSV(ctx context.Context, req portssvc.CSVImportRequest) (*domain.ImportResult, error) {
	content := strings.TrimPrefix(req.Content, byteOrderMark)
	if err := req.Mapping.Validate(nil); err != nil {
		return nil, err
	}

	result, err := s.pipeline.Run(ctx, content, csvimport.RunOptions{
		BankName: req.BankName,
		Mapping:  req.Mapping,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to parse CSV document", slog.String("bank_name", req.BankName))
		return nil, fmt.Errorf("failed to import CSV document: %w", err)
	}

	if len(req.Mapping) > 0 && req.BankName != "" && s.templates != nil {
		result.TemplateSaved = s.templates.SaveTemplate(ctx, req.BankName, result.Headers, req.Mapping, map[string]any{
			"auto_created":  false,
			"reviewed":      true,
			"mapping_score": result.Resolution.Evaluation.Score,
		})
	}
	return result, nil
}

// SuggestMapping proposes a mapping for headers and evaluates it.
func (s *ImportService) SuggestMapping(ctx context.Context, headers []string, samples []*domain.Row) (domain.HeaderMapping, domain.MappingEvaluation) {
	suggested := mapping.Suggest(headers, samples)
	eval := mapping.Evaluate(suggested)
	s.LogDebug(ctx, "Mapping suggested",
		slog.Int("headers", len(headers)),
		slog.Int("score", eval.Score),
		slog.String("quality", string(eval.Quality)))
	return suggested, eval
}
