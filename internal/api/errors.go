package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/apikey"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
)

// Fixed client-facing messages.
const (
	MsgMethodNotAllowed    = "Method not allowed"
	MsgNotFound            = "Not found"
	MsgInvalidDateRange    = "Invalid date range"
	MsgConfigurationError  = "Internal server configuration error"
	MsgInternalServerError = "Internal server error"
	MsgApplicationNotFound = "Application not found"
	MsgFailedToCreateTask  = "Failed to create task"
	MsgFailedToFetchTasks  = "Failed to fetch tasks"
	MsgFailedToUpdateTask  = "Failed to update task"
	MsgTaskNotFound        = "Task not found"
	MsgInvalidTaskID       = "Invalid task id"
	MsgMissingAPIKey       = "Missing API key"
	MsgInvalidAPIKey       = "Invalid API key"
	MsgExpiredAPIKey       = "API key expired"
	MsgPermissionDenied    = "Permission denied"
	MsgUnexpectedError     = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErr *domain.ValidationError

	switch {
	// Bad request errors
	case errors.As(err, &validationErr),
		errors.Is(err, service.ErrApplicationNotFound):
		return http.StatusBadRequest

	// Authentication errors
	case errors.Is(err, apikey.ErrInvalidKey),
		errors.Is(err, apikey.ErrExpiredKey),
		errors.Is(err, apikey.ErrKeyNotYetValid),
		errors.Is(err, apikey.ErrMissingKey),
		errors.Is(err, apikey.ErrUnknownRole):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, store.ErrPermissionDenied):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrTaskNotFound):
		return http.StatusNotFound

	// Default: internal server error, including ErrNotConfigured
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the message sent to the client for err.
// fallback is used for unexpected failures.
func GetSafeErrorMessage(err error, fallback string) string {
	if fallback == "" {
		fallback = MsgUnexpectedError
	}
	if err == nil {
		return fallback
	}

	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message

	case errors.Is(err, service.ErrApplicationNotFound):
		return MsgApplicationNotFound

	case errors.Is(err, service.ErrNotConfigured):
		return MsgConfigurationError

	case errors.Is(err, apikey.ErrExpiredKey):
		return MsgExpiredAPIKey

	case errors.Is(err, apikey.ErrMissingKey):
		return MsgMissingAPIKey

	case errors.Is(err, apikey.ErrInvalidKey),
		errors.Is(err, apikey.ErrKeyNotYetValid),
		errors.Is(err, apikey.ErrUnknownRole):
		return MsgInvalidAPIKey

	case errors.Is(err, store.ErrPermissionDenied):
		return MsgPermissionDenied

	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrTaskNotFound):
		return MsgTaskNotFound

	default:
		return fallback
	}
}

// HandleAPIError writes the failure envelope for err and logs the redacted
// details. fallback is the message used when err is unexpected.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err, fallback)

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
