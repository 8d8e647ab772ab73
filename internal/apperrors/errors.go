package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrMalformedDocument indicates that an OFX/QFX document could not be turned into markup
// the XML parser accepts. Fatal for the file being imported.
var ErrMalformedDocument = errors.New("malformed document")

// ErrEmptyInput indicates that a CSV file contained no lines at all.
var ErrEmptyInput = errors.New("empty input")

// ErrRowShapeMismatch marks a CSV data line whose field count differs from the header.
// The line is skipped and reported as a warning.
var ErrRowShapeMismatch = errors.New("row shape mismatch")

// ErrRequiredFieldMissing marks a mapped CSV row without date, description or an amount.
// The row is skipped.
var ErrRequiredFieldMissing = errors.New("required field missing")

// AppError carries a status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
