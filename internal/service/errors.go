package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/tasks-api/internal/store"
)

// Common service errors. The API layer maps each of these to a status code
// and a fixed message.
var (
	// ErrNotConfigured indicates the platform URL or key needed for the
	// operation was not provided. API layer maps this to 500.
	ErrNotConfigured = errors.New("platform credentials are not configured")

	// ErrApplicationNotFound indicates the referenced application does not
	// exist or could not be looked up. API layer maps this to 400.
	ErrApplicationNotFound = errors.New("application not found")

	// ErrTaskNotFound indicates the task does not exist or is not visible to
	// the caller's role. API layer maps this to 404.
	ErrTaskNotFound = errors.New("task not found")
)

// TaskServiceError wraps unexpected failures from the task services with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "list_due_today")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
// Known sentinel errors are returned directly without wrapping.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrNotConfigured):
		return ErrNotConfigured
	case errors.Is(err, ErrTaskNotFound), errors.Is(err, store.ErrTaskNotFound):
		return ErrTaskNotFound
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
