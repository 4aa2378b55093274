package apikey

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret  = "test-secret-that-is-long-enough-for-testing"
	wrongSecret = "wrong-secret-that-is-long-enough-for-testing"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewRejectsShortSecret(t *testing.T) {
	t.Parallel()

	keys, err := New("short")

	assert.ErrorIs(t, err, ErrWeakSecret)
	assert.Nil(t, keys)
}

func TestIssueAndParse(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	keys, err := NewWithClock(testSecret, fixedClock(fixedTime))
	require.NoError(t, err)

	for _, role := range []string{RoleService, RoleAnon, RoleAuthenticated} {
		t.Run(role, func(t *testing.T) {
			t.Parallel()

			key, err := keys.Issue(role, time.Hour)
			require.NoError(t, err)
			require.NotEmpty(t, key)

			claims, err := keys.Parse(key)
			require.NoError(t, err)
			assert.Equal(t, role, claims.Role)
			assert.Equal(t, Issuer, claims.Issuer)
			assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
			assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
			assert.NotEmpty(t, claims.ID)
		})
	}
}

func TestIssueWithoutExpiry(t *testing.T) {
	t.Parallel()

	key, err := Issue(RoleAnon, testSecret, 0)
	require.NoError(t, err)

	claims, err := Parse(key, testSecret)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
}

func TestIssueUnknownRole(t *testing.T) {
	t.Parallel()

	key, err := Issue("postgres", testSecret, time.Hour)

	assert.ErrorIs(t, err, ErrUnknownRole)
	assert.Empty(t, key)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupFunc func(t *testing.T) (*Keys, string)
		wantErr   error
	}{
		{
			name: "expired key",
			setupFunc: func(t *testing.T) (*Keys, string) {
				gen, err := NewWithClock(testSecret, fixedClock(fixedTime))
				require.NoError(t, err)
				key, err := gen.Issue(RoleAnon, time.Hour)
				require.NoError(t, err)

				val, err := NewWithClock(testSecret, fixedClock(fixedTime.Add(2*time.Hour)))
				require.NoError(t, err)
				return val, key
			},
			wantErr: ErrExpiredKey,
		},
		{
			name: "invalid signature",
			setupFunc: func(t *testing.T) (*Keys, string) {
				gen, err := NewWithClock(testSecret, fixedClock(fixedTime))
				require.NoError(t, err)
				key, err := gen.Issue(RoleAnon, time.Hour)
				require.NoError(t, err)

				val, err := NewWithClock(wrongSecret, fixedClock(fixedTime))
				require.NoError(t, err)
				return val, key
			},
			wantErr: ErrInvalidKey,
		},
		{
			name: "malformed key",
			setupFunc: func(t *testing.T) (*Keys, string) {
				val, err := NewWithClock(testSecret, fixedClock(fixedTime))
				require.NoError(t, err)
				return val, "this.is.not.a.valid.jwt.token"
			},
			wantErr: ErrInvalidKey,
		},
		{
			name: "missing key",
			setupFunc: func(t *testing.T) (*Keys, string) {
				val, err := NewWithClock(testSecret, fixedClock(fixedTime))
				require.NoError(t, err)
				return val, ""
			},
			wantErr: ErrMissingKey,
		},
		{
			name: "unknown role",
			setupFunc: func(t *testing.T) (*Keys, string) {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Role: "postgres"})
				key, err := token.SignedString([]byte(testSecret))
				require.NoError(t, err)

				val, err := NewWithClock(testSecret, fixedClock(fixedTime))
				require.NoError(t, err)
				return val, key
			},
			wantErr: ErrUnknownRole,
		},
		{
			name: "wrong signing method",
			setupFunc: func(t *testing.T) (*Keys, string) {
				token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{Role: RoleAnon})
				key, err := token.SignedString([]byte(testSecret))
				require.NoError(t, err)

				val, err := NewWithClock(testSecret, fixedClock(fixedTime))
				require.NoError(t, err)
				return val, key
			},
			wantErr: ErrInvalidKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			keys, key := tt.setupFunc(t)
			claims, err := keys.Parse(key)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, claims)
		})
	}
}

func TestParseUnverified(t *testing.T) {
	t.Parallel()

	key, err := Issue(RoleService, testSecret, 0)
	require.NoError(t, err)

	claims, err := ParseUnverified(key)
	require.NoError(t, err)
	assert.Equal(t, RoleService, claims.Role)

	_, err = ParseUnverified("")
	assert.ErrorIs(t, err, ErrMissingKey)

	_, err = ParseUnverified("garbage")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestIsPrivileged(t *testing.T) {
	t.Parallel()

	assert.True(t, IsPrivileged(RoleService))
	assert.False(t, IsPrivileged(RoleAnon))
	assert.False(t, IsPrivileged(RoleAuthenticated))
	assert.False(t, IsPrivileged(""))
}
