package pgsql

import (
	"errors"
	"fmt"

	"github.com/SscSPs/statement_import/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// queryError maps pgx.ErrNoRows to apperrors.ErrNotFound and wraps everything else in a 500
// AppError.
func (r *BaseRepository) queryError(err error, format string, args ...any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return apperrors.NewAppError(500, fmt.Sprintf(format, args...), err)
}
