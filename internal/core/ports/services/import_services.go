package services

import (
	"context"

	"github.com/SscSPs/statement_import/internal/core/domain"
)

// OFXImportRequest carries an OFX/QFX document and the static account defaults to fall back on.
type OFXImportRequest struct {
	Content     string
	AccountName string
	AccountCode string
}

// CSVImportRequest carries a CSV document. Mapping, when set, is a reviewed mapping that
// bypasses template lookup and suggestion.
type CSVImportRequest struct {
	Content  string
	BankName string
	Mapping  domain.HeaderMapping
}

// ImportSvc parses statement files into normalized statements.
type ImportSvc interface {
	// ImportOFX parses an OFX/QFX document.
	ImportOFX(ctx context.Context, req OFXImportRequest) ([]*domain.Statement, error)

	// ImportCSV parses a CSV document. A result that needs review carries no statements.
	ImportCSV(ctx context.Context, req CSVImportRequest) (*domain.ImportResult, error)

	// SuggestMapping proposes a mapping for headers and evaluates it.
	SuggestMapping(ctx context.Context, headers []string, samples []*domain.Row) (domain.HeaderMapping, domain.MappingEvaluation)
}

// PayeeShortener turns a free-text payee or merchant string into a short display name.
type PayeeShortener interface {
	Shorten(name string) string
}
