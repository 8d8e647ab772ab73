// Package csvimport turns delimited bank exports into statements, using a stored or suggested
// header mapping.
package csvimport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/statement_import/internal/apperrors"
	"github.com/SscSPs/statement_import/internal/core/domain"
	"github.com/SscSPs/statement_import/internal/core/mapping"
	"github.com/SscSPs/statement_import/internal/core/ports/repositories"
	"github.com/SscSPs/statement_import/internal/core/ports/services"
	"github.com/SscSPs/statement_import/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxSampleRows    = 5
	fallbackBankName = "Savings"
	fallbackCurrency = "USD"
)

// TemplateStore is the part of the template service the pipeline needs.
type TemplateStore interface {
	FindMatchingTemplate(ctx context.Context, headers []string, bankName string) *domain.MappingTemplate
	SaveTemplate(ctx context.Context, bankName string, headers []string, mapping domain.HeaderMapping, metadata map[string]any) bool
}

// KeyFunc derives the statement key for a mapped row. date is the normalized date value.
type KeyFunc func(row *domain.Row, date string) string

// DateKey groups transactions by their normalized date.
func DateKey(_ *domain.Row, date string) string {
	return date
}

// RunOptions are per-file inputs.
type RunOptions struct {
	BankName string
	Currency string
	// Mapping is a reviewed mapping. When set, template lookup and suggestion are skipped.
	Mapping domain.HeaderMapping
}

// Pipeline parses CSV content into statements.
type Pipeline struct {
	templates       TemplateStore
	accounts        repositories.BankAccountReader
	shortener       services.PayeeShortener
	defaultBank     string
	defaultCurrency string

	// KeyFunc replaces the default date grouping when set.
	KeyFunc KeyFunc
}

// NewPipeline creates a Pipeline. accounts and shortener may be nil; templates may be nil, in
// which case every file goes through suggestion and nothing is persisted.
func NewPipeline(templates TemplateStore, accounts repositories.BankAccountReader, shortener services.PayeeShortener, defaultBank, defaultCurrency string) *Pipeline {
	if defaultBank == "" {
		defaultBank = fallbackBankName
	}
	if defaultCurrency == "" {
		defaultCurrency = fallbackCurrency
	}
	return &Pipeline{
		templates:       templates,
		accounts:        accounts,
		shortener:       shortener,
		defaultBank:     defaultBank,
		defaultCurrency: defaultCurrency,
		KeyFunc:         DateKey,
	}
}

// run holds the state of one Run call.
type run struct {
	p       *Pipeline
	ctx     context.Context
	logger  *slog.Logger
	result  *domain.ImportResult
	bank    string
	cur     string
	balance map[string]bool // statement key -> a balance has been seen
}

// Run parses content. The result either carries statements, or a NeedsReview resolution with
// the suggested mapping and no statements.
func (p *Pipeline) Run(ctx context.Context, content string, opts RunOptions) (*domain.ImportResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	content = strings.ReplaceAll(content, "\r\n", "\n")
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.ErrEmptyInput
	}
	lines := strings.Split(content, "\n")

	headerIdx := 0
	for strings.TrimSpace(lines[headerIdx]) == "" {
		headerIdx++
	}
	headers, err := parseHeaders(lines[headerIdx])
	if err != nil {
		return nil, fmt.Errorf("%w: header line: %v", apperrors.ErrValidation, err)
	}
	dataLines := lines[headerIdx+1:]

	result := &domain.ImportResult{
		ImportID:      uuid.NewString(),
		Headers:       headers,
		Statements:    make(map[string]*domain.Statement),
		StatementKeys: []string{},
	}

	resolution := p.resolveMapping(ctx, headers, sampleRows(headers, dataLines), opts, result)
	result.Resolution = resolution
	if !resolution.IsResolved() {
		logger.Info("CSV mapping needs review",
			slog.String("import_id", result.ImportID),
			slog.Int("score", resolution.Evaluation.Score),
			slog.Any("missing_required", resolution.Evaluation.MissingRequired))
		return result, nil
	}

	r := &run{
		p:       p,
		ctx:     ctx,
		logger:  logger,
		result:  result,
		bank:    firstNonEmpty(opts.BankName, templateBank(resolution.Template), p.defaultBank),
		cur:     strings.ToUpper(firstNonEmpty(opts.Currency, p.defaultCurrency)),
		balance: make(map[string]bool),
	}
	for i, line := range dataLines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		result.RowsRead++
		lineNo := headerIdx + i + 2
		if err := r.processLine(lineNo, line, headers, resolution.Mapping); err != nil {
			result.RowsSkipped++
			if errors.Is(err, apperrors.ErrRowShapeMismatch) {
				result.Warnings = append(result.Warnings, err.Error())
				logger.Warn("Skipping CSV line", slog.Int("line", lineNo), slog.String("error", err.Error()))
			} else {
				logger.Debug("Skipping CSV row", slog.Int("line", lineNo), slog.String("error", err.Error()))
			}
		}
	}

	for _, key := range result.StatementKeys {
		if err := result.Statements[key].Validate(); err != nil {
			return nil, err
		}
	}

	logger.Info("CSV import parsed",
		slog.String("import_id", result.ImportID),
		slog.String("mapping_source", string(resolution.Source)),
		slog.Int("statements", len(result.StatementKeys)),
		slog.Int("transactions", result.TransactionCount()),
		slog.Int("rows_skipped", result.RowsSkipped))
	return result, nil
}

// resolveMapping picks the caller's mapping, then a stored template, then a suggestion. An
// excellent suggestion is saved as a new template.
func (p *Pipeline) resolveMapping(ctx context.Context, headers []string, samples []*domain.Row, opts RunOptions, result *domain.ImportResult) domain.MappingResolution {
	if len(opts.Mapping) > 0 {
		return domain.Resolved(opts.Mapping, mapping.Evaluate(opts.Mapping), domain.MappingSourceCaller, nil)
	}

	if p.templates != nil {
		if tmpl := p.templates.FindMatchingTemplate(ctx, headers, opts.BankName); tmpl != nil {
			return domain.Resolved(tmpl.Mapping, mapping.Evaluate(tmpl.Mapping), domain.MappingSourceTemplate, tmpl)
		}
	}

	suggested := mapping.Suggest(headers, samples)
	eval := mapping.Evaluate(suggested)
	if eval.Quality != domain.QualityExcellent {
		return domain.NeedsReview(suggested, eval)
	}

	if p.templates != nil {
		bank := opts.BankName
		if bank == "" {
			bank = "unnamed_" + mapping.Fingerprint(headers)[:8]
		}
		result.TemplateSaved = p.templates.SaveTemplate(ctx, bank, headers, suggested, map[string]any{
			"auto_created":  true,
			"mapping_score": eval.Score,
		})
	}
	return domain.Resolved(suggested, eval, domain.MappingSourceSuggestion, nil)
}

// sampleRows collects up to maxSampleRows well-shaped, non-blank rows.
func sampleRows(headers []string, lines []string) []*domain.Row {
	samples := make([]*domain.Row, 0, maxSampleRows)
	for _, line := range lines {
		if len(samples) == maxSampleRows {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields, err := splitLine(line)
		if err != nil || len(fields) != len(headers) {
			continue
		}
		samples = append(samples, domain.ZipRow(headers, fields))
	}
	return samples
}

func (r *run) processLine(lineNo int, line string, headers []string, m domain.HeaderMapping) error {
	fields, err := splitLine(line)
	if err != nil {
		return fmt.Errorf("line %d: %w: %v", lineNo, apperrors.ErrRowShapeMismatch, err)
	}
	if len(fields) != len(headers) {
		return fmt.Errorf("line %d: %w: %d fields, header has %d", lineNo, apperrors.ErrRowShapeMismatch, len(fields), len(headers))
	}

	row := domain.ZipRow(headers, fields).Apply(m)
	rawDate := strings.TrimSpace(row.Value(domain.FieldDate))
	description := strings.TrimSpace(row.Value(domain.FieldDescription))
	if rawDate == "" || description == "" {
		return fmt.Errorf("line %d: %w: date or description", lineNo, apperrors.ErrRequiredFieldMissing)
	}
	amount, err := rowAmount(row)
	if err != nil {
		return fmt.Errorf("line %d: %w", lineNo, err)
	}

	date := NormalizeDate(rawDate)
	keyFn := r.p.KeyFunc
	if keyFn == nil {
		keyFn = DateKey
	}
	key := keyFn(row, date)

	stmt, ok := r.result.Statements[key]
	if !ok {
		stmt = domain.NewStatement(r.bank, r.cur, date, 0, len(r.result.StatementKeys)+1)
		stmt.AccountNumber = strings.TrimSpace(row.Value(domain.FieldAccount))
		stmt.Account = r.p.accountName(r.ctx, stmt.AccountNumber)
		r.result.Statements[key] = stmt
		r.result.StatementKeys = append(r.result.StatementKeys, key)
	}

	tx := r.p.transaction(row, date, description, amount)
	stmt.AddTransaction(tx)

	if raw := strings.TrimSpace(row.Value(domain.FieldBalance)); raw != "" {
		if bal, err := ParseAmount(raw); err == nil {
			if !r.balance[key] {
				stmt.StartBalance = bal.Sub(amount)
				r.balance[key] = true
			}
			stmt.EndBalance = bal
		}
	}
	return nil
}

// rowAmount prefers the amount column, then credit minus debit.
func rowAmount(row *domain.Row) (decimal.Decimal, error) {
	if raw := strings.TrimSpace(row.Value(domain.FieldAmount)); raw != "" {
		amt, err := ParseAmount(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: amount: %v", apperrors.ErrRequiredFieldMissing, err)
		}
		return amt, nil
	}

	if !row.Has(domain.FieldDebit) || !row.Has(domain.FieldCredit) {
		return decimal.Zero, fmt.Errorf("%w: amount or debit/credit", apperrors.ErrRequiredFieldMissing)
	}
	debitRaw := strings.TrimSpace(row.Value(domain.FieldDebit))
	creditRaw := strings.TrimSpace(row.Value(domain.FieldCredit))
	if debitRaw == "" && creditRaw == "" {
		return decimal.Zero, fmt.Errorf("%w: debit and credit both empty", apperrors.ErrRequiredFieldMissing)
	}

	total := decimal.Zero
	if creditRaw != "" {
		credit, err := ParseAmount(creditRaw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: credit: %v", apperrors.ErrRequiredFieldMissing, err)
		}
		total = total.Add(credit.Abs())
	}
	if debitRaw != "" {
		debit, err := ParseAmount(debitRaw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: debit: %v", apperrors.ErrRequiredFieldMissing, err)
		}
		total = total.Sub(debit.Abs())
	}
	return total, nil
}

func (p *Pipeline) transaction(row *domain.Row, date, description string, amount decimal.Decimal) *domain.Transaction {
	name := description
	if p.shortener != nil {
		name = p.shortener.Shorten(description)
	}
	dc := domain.Credit
	if amount.IsNegative() {
		dc = domain.Debit
	}
	tx := &domain.Transaction{
		ValueTimestamp: date,
		DatePosted:     date,
		Amount:         amount,
		Memo:           description,
		Name:           name,
		TransactionDC:  dc,
		Category:       strings.TrimSpace(row.Value(domain.FieldCategory)),
	}
	if ref := strings.TrimSpace(row.Value(domain.FieldReference)); ref != "" {
		tx.CheckNumber = &ref
	}
	return tx
}

func (p *Pipeline) accountName(ctx context.Context, number string) string {
	if p.accounts == nil || number == "" {
		return number
	}
	acct, err := p.accounts.FindBankAccountByNumber(ctx, number)
	if err != nil || acct == nil {
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Warn("Bank account lookup failed", slog.String("account", number), slog.String("error", err.Error()))
		}
		return number
	}
	return acct.DisplayName()
}

func templateBank(tmpl *domain.MappingTemplate) string {
	if tmpl == nil {
		return ""
	}
	return tmpl.BankName
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
