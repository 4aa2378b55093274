package apikey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowlist(t *testing.T) {
	anonKey, err := Issue(RoleAnon, testSecret, 0)
	require.NoError(t, err)
	serviceKey, err := Issue(RoleService, testSecret, 0)
	require.NoError(t, err)
	otherKey, err := Issue(RoleAnon, testSecret, 0)
	require.NoError(t, err)

	allowlist, err := NewAllowlist(anonKey, "", serviceKey)
	require.NoError(t, err)
	assert.Equal(t, 2, allowlist.Len())

	claims, err := allowlist.Parse(anonKey)
	require.NoError(t, err)
	assert.Equal(t, RoleAnon, claims.Role)

	claims, err = allowlist.Parse(serviceKey)
	require.NoError(t, err)
	assert.Equal(t, RoleService, claims.Role)

	_, err = allowlist.Parse(otherKey)
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = allowlist.Parse("")
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestAllowlistExpiredKey(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	keys, err := NewWithClock(testSecret, func() time.Time { return issuedAt })
	require.NoError(t, err)
	key, err := keys.Issue(RoleAnon, time.Hour)
	require.NoError(t, err)

	allowlist, err := NewAllowlist(key)
	require.NoError(t, err)
	allowlist.timeFunc = func() time.Time { return issuedAt.Add(2 * time.Hour) }

	_, err = allowlist.Parse(key)
	assert.ErrorIs(t, err, ErrExpiredKey)
}

func TestNewAllowlistRejectsGarbage(t *testing.T) {
	_, err := NewAllowlist("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
