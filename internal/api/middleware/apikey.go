package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/platform/apikey"
)

// KeyVerifier verifies a platform key and returns its claims.
type KeyVerifier interface {
	Parse(key string) (*apikey.Claims, error)
}

// KeyAuth requires a platform key on the request, taken from the "apikey"
// header or an "Authorization: Bearer" header.
type KeyAuth struct {
	verifier KeyVerifier
}

// NewKeyAuth creates KeyAuth. A nil verifier means neither a signing secret
// nor a restricted key is configured; every request is then rejected with 500.
func NewKeyAuth(verifier KeyVerifier) *KeyAuth {
	if keys, ok := verifier.(*apikey.Keys); ok && keys == nil {
		verifier = nil
	}
	return &KeyAuth{verifier: verifier}
}

// Authenticate verifies the key and stores its claims in the request context.
func (m *KeyAuth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.verifier == nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				"Internal server configuration error",
				errors.New("no platform key verifier configured"))
			return
		}

		key, ok := ExtractKey(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Missing API key")
			return
		}

		claims, err := m.verifier.Parse(key)
		if err != nil {
			message := "Invalid API key"
			if errors.Is(err, apikey.ErrExpiredKey) {
				message = "API key expired"
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, message, err,
				shared.WithElevatedLogLevel())
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.SetClaims(r.Context(), claims)))
	})
}

// ExtractKey returns the platform key presented on r. The apikey header wins
// over the Authorization header.
func ExtractKey(r *http.Request) (string, bool) {
	if key := strings.TrimSpace(r.Header.Get("apikey")); key != "" {
		return key, true
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	key := strings.TrimSpace(parts[1])
	return key, key != ""
}
