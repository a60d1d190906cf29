package services

import (
	"errors"
	"fmt"
)

// Common errors. Ownership-scoped lookups report a missing row and somebody
// else's row with the same sentinel, callers cannot tell the two apart.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrNotebookNotFound   = errors.New("notebook not found")
	ErrNoteNotFound       = errors.New("note not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInternal           = errors.New("internal server error")
	ErrResourceExists     = errors.New("resource already exists")
	ErrValidation         = errors.New("validation error")
	ErrResetTokenInvalid  = errors.New("password reset token is invalid or expired")
)

// FieldError is a validation failure tied to a single form field.
// errors.Is(err, ErrValidation) matches it so routes can answer 400 with the
// field and message without partial saves.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrValidation
}

// NewFieldError builds a field-level validation error.
func NewFieldError(field, message string) error {
	return &FieldError{Field: field, Message: message}
}
