package pgsql

import (
	"context"

	"github.com/SscSPs/statement_import/internal/apperrors"
	"github.com/SscSPs/statement_import/internal/core/domain"
	portsrepo "github.com/SscSPs/statement_import/internal/core/ports/repositories"
	"github.com/SscSPs/statement_import/internal/models"
	"github.com/SscSPs/statement_import/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const templateColumns = `bank_key, bank_name, version, header_fingerprint, csv_headers, mapping, metadata, created_at, updated_at`

type PgxTemplateRepository struct {
	BaseRepository
}

// newPgxTemplateRepository creates a new repository for mapping templates.
func newPgxTemplateRepository(pool *pgxpool.Pool) portsrepo.TemplateRepositoryFacade {
	return &PgxTemplateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.TemplateRepositoryFacade = (*PgxTemplateRepository)(nil)

// SaveTemplate upserts a template keyed by domain.TemplateKey of its bank name, so "Bank A" and
// "bank_a" share a row as they share a file in the file store. created_at is kept from the
// first save.
func (r *PgxTemplateRepository) SaveTemplate(ctx context.Context, tmpl domain.MappingTemplate) error {
	row, err := mapping.ToModelMappingTemplate(tmpl)
	if err != nil {
		return apperrors.NewAppError(400, "invalid mapping template", err)
	}

	query := `
		INSERT INTO csv_mapping_templates (` + templateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (bank_key) DO UPDATE SET
			bank_name = EXCLUDED.bank_name,
			version = EXCLUDED.version,
			header_fingerprint = EXCLUDED.header_fingerprint,
			csv_headers = EXCLUDED.csv_headers,
			mapping = EXCLUDED.mapping,
			metadata = EXCLUDED.metadata,
			updated_at = EXCLUDED.updated_at;
	`
	_, err = r.Pool.Exec(ctx, query,
		row.BankKey,
		row.BankName,
		row.Version,
		row.HeaderFingerprint,
		row.CSVHeaders,
		row.Mapping,
		row.Metadata,
		row.CreatedAt,
		row.UpdatedAt,
	)
	if err != nil {
		return r.queryError(err, "failed to save mapping template %s", tmpl.BankName)
	}
	return nil
}

// FindTemplateByBank retrieves the template stored for bankName.
func (r *PgxTemplateRepository) FindTemplateByBank(ctx context.Context, bankName string) (*domain.MappingTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM csv_mapping_templates WHERE bank_key = $1;`

	row, err := scanTemplate(r.Pool.QueryRow(ctx, query, domain.TemplateKey(bankName)))
	if err != nil {
		return nil, r.queryError(err, "failed to find mapping template %s", bankName)
	}

	tmpl, err := mapping.ToDomainMappingTemplate(row)
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// ListTemplates retrieves all templates ordered by bank name.
func (r *PgxTemplateRepository) ListTemplates(ctx context.Context) ([]domain.MappingTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM csv_mapping_templates ORDER BY bank_name;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, r.queryError(err, "failed to query mapping templates")
	}
	defer rows.Close()

	modelRows, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.MappingTemplate, error) {
		return scanTemplate(row)
	})
	if err != nil {
		return nil, r.queryError(err, "failed to scan mapping templates")
	}

	templates := make([]domain.MappingTemplate, 0, len(modelRows))
	for _, m := range modelRows {
		tmpl, err := mapping.ToDomainMappingTemplate(m)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

func scanTemplate(row pgx.Row) (models.MappingTemplate, error) {
	var m models.MappingTemplate
	err := row.Scan(
		&m.BankKey,
		&m.BankName,
		&m.Version,
		&m.HeaderFingerprint,
		&m.CSVHeaders,
		&m.Mapping,
		&m.Metadata,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}
