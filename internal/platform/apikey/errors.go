package apikey

import "errors"

// Common platform key errors
var (
	// ErrInvalidKey indicates the key format is invalid or its signature doesn't match
	ErrInvalidKey = errors.New("invalid platform key")

	// ErrExpiredKey indicates the key has expired
	ErrExpiredKey = errors.New("platform key has expired")

	// ErrKeyNotYetValid indicates the key is not yet valid (nbf claim in the future)
	ErrKeyNotYetValid = errors.New("platform key not yet valid")

	// ErrMissingKey indicates a key was expected but not provided
	ErrMissingKey = errors.New("platform key is missing")

	// ErrUnknownRole indicates the key carries a role the platform does not grant
	ErrUnknownRole = errors.New("platform key has an unknown role")

	// ErrWeakSecret indicates the signing secret is too short
	ErrWeakSecret = errors.New("platform jwt secret must be at least 32 characters")
)
