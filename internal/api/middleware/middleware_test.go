package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/platform/apikey"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusTeapot)
})

func TestCORS(t *testing.T) {
	t.Run("options is answered with empty body", func(t *testing.T) {
		called := false
		h := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
		req := httptest.NewRequest(http.MethodOptions, "/functions/v1/create-task", nil)
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "authorization, x-client-info, apikey, content-type",
			w.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("other methods pass through with headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
		w := httptest.NewRecorder()

		CORS(okHandler).ServeHTTP(w, req)

		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRecoverer(t *testing.T) {
	buf, log := logger.NewTestLogger(t)
	h := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom: password=supersecret")
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
	req = req.WithContext(logger.WithLogger(req.Context(), log))
	w := httptest.NewRecorder()

	require.NotPanics(t, func() { h.ServeHTTP(w, req) })

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Internal server error"}`, w.Body.String())
	assert.Contains(t, buf.String(), "panic while handling request")
	assert.NotContains(t, buf.String(), "supersecret")
}

func TestRecovererReraisesAbort(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.Panics(t, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestTraceMiddleware(t *testing.T) {
	var traceID string
	h := TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		assert.NotNil(t, logger.FromContext(r.Context()))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, traceID, 32)
}

func TestKeyAuth(t *testing.T) {
	keys, err := apikey.New(testSecret)
	require.NoError(t, err)
	anonKey, err := keys.Issue(apikey.RoleAnon, time.Hour)
	require.NoError(t, err)
	otherKeys, err := apikey.New("another-secret-that-is-long-enough-for-tests")
	require.NoError(t, err)
	foreignKey, err := otherKeys.Issue(apikey.RoleAnon, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		verifier   KeyVerifier
		headers    map[string]string
		wantStatus int
		wantError  string
		wantRole   string
	}{
		{
			name:       "apikey header",
			verifier:   keys,
			headers:    map[string]string{"apikey": anonKey},
			wantStatus: http.StatusOK,
			wantRole:   apikey.RoleAnon,
		},
		{
			name:       "bearer token",
			verifier:   keys,
			headers:    map[string]string{"Authorization": "Bearer " + anonKey},
			wantStatus: http.StatusOK,
			wantRole:   apikey.RoleAnon,
		},
		{
			name:       "missing key",
			verifier:   keys,
			wantStatus: http.StatusUnauthorized,
			wantError:  "Missing API key",
		},
		{
			name:       "malformed authorization header",
			verifier:   keys,
			headers:    map[string]string{"Authorization": "Token " + anonKey},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Missing API key",
		},
		{
			name:       "key signed with another secret",
			verifier:   keys,
			headers:    map[string]string{"apikey": foreignKey},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid API key",
		},
		{
			name:       "no verifier configured",
			verifier:   nil,
			headers:    map[string]string{"apikey": anonKey},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal server configuration error",
		},
		{
			name:       "typed nil verifier",
			verifier:   (*apikey.Keys)(nil),
			headers:    map[string]string{"apikey": anonKey},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal server configuration error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var role string
			h := NewKeyAuth(tt.verifier).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				claims, ok := shared.GetClaims(r.Context())
				require.True(t, ok)
				role = claims.Role
				w.WriteHeader(http.StatusOK)
			}))
			req := httptest.NewRequest(http.MethodGet, "/api/dashboard/today", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantError != "" {
				assert.JSONEq(t, `{"success":false,"error":"`+tt.wantError+`"}`, w.Body.String())
			}
			assert.Equal(t, tt.wantRole, role)
		})
	}
}
