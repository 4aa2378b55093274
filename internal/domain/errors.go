package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity or request fails validation.
	// It is usually wrapped by a ValidationError carrying the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidFormat is returned when data is not in the expected format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidID is returned when an ID is malformed.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidTaskType is returned for task types outside the closed set.
	ErrInvalidTaskType = errors.New("invalid task type")

	// ErrInvalidTaskStatus is returned for statuses outside the closed set.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrDueAtNotInFuture is returned when a due timestamp is not strictly in the future.
	ErrDueAtNotInFuture = errors.New("due_at must be in the future")

	// ErrMissingTenant is returned when an application carries no tenant.
	ErrMissingTenant = errors.New("tenant ID cannot be empty")
)

// ValidationError describes a rule violated by a single field.
// Message is safe to return to API callers.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel, defaulting to ErrValidation.
func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrValidation
	}
	return e.Err
}

// Is lets errors.Is match ErrValidation for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError for field wrapping err.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
