package apikey

import (
	"crypto/subtle"
	"fmt"
	"time"
)

// Allowlist verifies keys by exact match against a fixed set. It serves
// deployments that were handed the platform keys but not the signing secret.
type Allowlist struct {
	keys     []string
	claims   []*Claims
	timeFunc func() time.Time
}

// NewAllowlist accepts each non-empty key in keys. Keys must decode as
// platform keys with a known role.
func NewAllowlist(keys ...string) (*Allowlist, error) {
	a := &Allowlist{timeFunc: time.Now}
	for _, key := range keys {
		if key == "" {
			continue
		}
		claims, err := ParseUnverified(key)
		if err != nil {
			return nil, fmt.Errorf("allowlisted key rejected: %w", err)
		}
		a.keys = append(a.keys, key)
		a.claims = append(a.claims, claims)
	}
	return a, nil
}

// Len returns the number of accepted keys.
func (a *Allowlist) Len() int {
	return len(a.keys)
}

// Parse returns the claims of key if it is one of the allowlisted keys.
func (a *Allowlist) Parse(key string) (*Claims, error) {
	if key == "" {
		return nil, ErrMissingKey
	}

	for i, allowed := range a.keys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(allowed)) != 1 {
			continue
		}
		claims := a.claims[i]
		if claims.ExpiresAt != nil && !a.timeFunc().Before(claims.ExpiresAt.Time) {
			return nil, ErrExpiredKey
		}
		return claims, nil
	}
	return nil, ErrInvalidKey
}
