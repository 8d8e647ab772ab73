package pgsql

import (
	portsrepo "github.com/SscSPs/statement_import/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TemplateRepo:    newPgxTemplateRepository(dbPool),
		BankAccountRepo: newPgxBankAccountRepository(dbPool),
	}
}
