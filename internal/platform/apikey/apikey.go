package apikey

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Roles a platform key may carry.
const (
	RoleService       = "service_role"
	RoleAnon          = "anon"
	RoleAuthenticated = "authenticated"
)

// Issuer is stamped into every key minted by this package.
const Issuer = "tasks-api"

// MinSecretLength is the shortest signing secret accepted.
const MinSecretLength = 32

// Claims is the payload of a platform key.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ValidRole reports whether role is one of the roles the platform grants.
func ValidRole(role string) bool {
	switch role {
	case RoleService, RoleAnon, RoleAuthenticated:
		return true
	default:
		return false
	}
}

// IsPrivileged reports whether role bypasses row-level security.
func IsPrivileged(role string) bool {
	return role == RoleService
}

// Keys signs and verifies platform keys with a shared HMAC secret.
type Keys struct {
	signingKey []byte
	timeFunc   func() time.Time
	clockSkew  time.Duration
}

// New creates Keys for secret. The secret must be at least MinSecretLength bytes.
func New(secret string) (*Keys, error) {
	return NewWithClock(secret, time.Now)
}

// NewWithClock is New with an injectable clock, for tests and tooling.
func NewWithClock(secret string, now func() time.Time) (*Keys, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	if now == nil {
		now = time.Now
	}
	return &Keys{
		signingKey: []byte(secret),
		timeFunc:   now,
		clockSkew:  2 * time.Minute,
	}, nil
}

// Issue mints a key for role. A zero ttl produces a key without an expiry,
// which is how long-lived project keys are normally distributed.
func (k *Keys) Issue(role string, ttl time.Duration) (string, error) {
	if !ValidRole(role) {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}

	now := k.timeFunc()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   Issuer,
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.New().String(),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(k.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign platform key with HMAC-SHA256: %w", err)
	}
	return signed, nil
}

// Parse verifies key and returns its claims.
func (k *Keys) Parse(key string) (*Claims, error) {
	if key == "" {
		return nil, ErrMissingKey
	}

	now := k.timeFunc()
	token, err := jwt.ParseWithClaims(
		key,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return k.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(k.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, mapParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidKey
	}
	if !ValidRole(claims.Role) {
		return nil, ErrUnknownRole
	}
	return claims, nil
}

// Parse verifies key against secret.
func Parse(key, secret string) (*Claims, error) {
	keys, err := New(secret)
	if err != nil {
		return nil, err
	}
	return keys.Parse(key)
}

// Issue mints a key for role signed with secret.
func Issue(role, secret string, ttl time.Duration) (string, error) {
	keys, err := New(secret)
	if err != nil {
		return "", err
	}
	return keys.Issue(role, ttl)
}

// ParseUnverified decodes key without checking its signature. It is only
// used for keys from the server's own configuration when no signing secret
// is available.
func ParseUnverified(key string) (*Claims, error) {
	if key == "" {
		return nil, ErrMissingKey
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return nil, ErrInvalidKey
	}
	if !ValidRole(claims.Role) {
		return nil, ErrUnknownRole
	}
	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredKey
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrKeyNotYetValid
	default:
		return ErrInvalidKey
	}
}
