package domain

import (
	"fmt"

	"github.com/SscSPs/statement_import/internal/apperrors"
	"github.com/go-playground/validator/v10"
)

// validate is shared by every domain type; validator caches struct metadata per type.
var validate = validator.New(validator.WithRequiredStructEnabled())

func validateStruct(what string, v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrValidation, what, err)
	}
	return nil
}
