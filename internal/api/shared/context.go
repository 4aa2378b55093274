package shared

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/platform/apikey"
)

// Key type for context values
type ContextKey string

// Context keys for various values
const (
	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// ClaimsContextKey is the key for the verified platform key claims
	ClaimsContextKey ContextKey = "apikeyClaims"
)

// SetTraceID adds a fresh trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SetClaims stores the caller's verified key claims in the context.
func SetClaims(ctx context.Context, claims *apikey.Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// GetClaims returns the caller's verified key claims, if any.
func GetClaims(ctx context.Context) (*apikey.Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*apikey.Claims)
	return claims, ok && claims != nil
}

// generateTraceID returns a 32-character hex ID. If the random source fails
// it falls back to a time-based UUID, never a static value.
func generateTraceID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		if id, err = uuid.NewUUID(); err != nil {
			return fmt.Sprintf("%032x", time.Now().UnixNano())
		}
	}
	return strings.ReplaceAll(id.String(), "-", "")
}
