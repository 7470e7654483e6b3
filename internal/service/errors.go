// Package service holds the domain services. Each wraps the validation
// engine and delegates persistence to a store interface declared next
// to the service that needs it.
package service

import (
	"errors"
	"fmt"
)

// ErrDuplicateEmail marks the duplicate-email conflict so callers can
// remap its user-facing message without comparing strings.
var ErrDuplicateEmail = errors.New("duplicate email")

// ValidationError carries the field→message map produced by the
// validation engine, or a cross-entity consistency failure. Duplicate
// email/name conflicts are modeled as validation errors with a field
// message, matching the source system.
type ValidationError struct {
	Message string
	Fields  map[string]string
	err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

func validationFailed(fields map[string]string) *ValidationError {
	return &ValidationError{Message: "Validation failed", Fields: fields}
}

func invalidRequest(message, field, detail string) *ValidationError {
	return &ValidationError{Message: message, Fields: map[string]string{field: detail}}
}

func emailTaken(message string) *ValidationError {
	return &ValidationError{
		Message: message,
		Fields:  map[string]string{"email": "This email is already registered"},
		err:     ErrDuplicateEmail,
	}
}

// NotFoundError reports a failed single-entity lookup.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func notFound(entity string) *NotFoundError {
	return &NotFoundError{Message: entity + " not found"}
}

// ForbiddenError reports a role or ownership check failure surfaced
// from the service layer.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func internal(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
