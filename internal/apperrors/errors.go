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

// ErrConflict indicates that the operation conflicts with the current state of
// the resource (e.g. issuing an invoice that is not a draft).
var ErrConflict = errors.New("conflicting state")

// ErrLocked indicates an attempt to modify a timesheet entry or expense that
// has been consumed by an issued invoice.
var ErrLocked = errors.New("record is locked by an issued invoice")

// AppError carries a status code alongside the underlying cause. Repositories
// use it to report infrastructure failures without leaking SQL details into
// the service layer.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
