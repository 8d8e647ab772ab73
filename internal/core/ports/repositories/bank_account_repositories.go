package repositories

import (
	"context"

	"github.com/SscSPs/statement_import/internal/core/domain"
)

// BankAccountReader looks up bank accounts the host application already knows about.
type BankAccountReader interface {
	// FindBankAccountByNumber retrieves an account by the number printed on statements.
	// Returns apperrors.ErrNotFound when the number is unknown.
	FindBankAccountByNumber(ctx context.Context, accountNumber string) (*domain.BankAccount, error)
}
