package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// getPathUUID extracts a UUID from the URL path parameters.
// It parses and validates the UUID, handling common error cases.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, MsgInvalidTaskID, domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, MsgInvalidTaskID, domain.ErrInvalidID)
	}

	return id, nil
}

// maxDayRangeSpan bounds a client-supplied day window. A local day is at most
// 25 hours long.
const maxDayRangeSpan = 48 * time.Hour

// getDayRange reads the optional start and end query parameters (RFC 3339)
// describing the caller's local day. ok is false when both are absent.
func getDayRange(r *http.Request) (start, end time.Time, ok bool, err error) {
	query := r.URL.Query()
	rawStart, rawEnd := query.Get("start"), query.Get("end")
	if rawStart == "" && rawEnd == "" {
		return time.Time{}, time.Time{}, false, nil
	}

	invalid := domain.NewValidationError("start", MsgInvalidDateRange, domain.ErrInvalidFormat)

	start, err = time.Parse(time.RFC3339Nano, rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, false, invalid
	}
	end, err = time.Parse(time.RFC3339Nano, rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, false, invalid
	}
	if !end.After(start) || end.Sub(start) > maxDayRangeSpan {
		return time.Time{}, time.Time{}, false, invalid
	}

	return start, end, true, nil
}
