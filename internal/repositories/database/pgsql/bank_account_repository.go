package pgsql

import (
	"context"

	"github.com/SscSPs/statement_import/internal/core/domain"
	portsrepo "github.com/SscSPs/statement_import/internal/core/ports/repositories"
	"github.com/SscSPs/statement_import/internal/models"
	"github.com/SscSPs/statement_import/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBankAccountRepository struct {
	BaseRepository
}

func newPgxBankAccountRepository(pool *pgxpool.Pool) portsrepo.BankAccountReader {
	return &PgxBankAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.BankAccountReader = (*PgxBankAccountRepository)(nil)

// FindBankAccountByNumber retrieves an active bank account by its printed number.
func (r *PgxBankAccountRepository) FindBankAccountByNumber(ctx context.Context, accountNumber string) (*domain.BankAccount, error) {
	query := `
		SELECT account_id, account_number, name, bank_name, currency_code, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		FROM bank_accounts
		WHERE account_number = $1 AND is_active = TRUE
		ORDER BY created_at
		LIMIT 1;
	`
	var m models.BankAccount
	err := r.Pool.QueryRow(ctx, query, accountNumber).Scan(
		&m.AccountID,
		&m.AccountNumber,
		&m.Name,
		&m.BankName,
		&m.CurrencyCode,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, r.queryError(err, "failed to find bank account %s", accountNumber)
	}

	acct := mapping.ToDomainBankAccount(m)
	return &acct, nil
}
