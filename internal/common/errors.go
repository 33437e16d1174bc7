// Package common defines sentinel errors shared across the userhub core.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("username or email already taken")

	// Authentication errors. ErrInvalidCredentials deliberately covers both
	// "unknown user" and "wrong password" so callers cannot enumerate
	// accounts.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrPasswordMismatch   = errors.New("passwords do not match")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")

	// Authorization errors.
	ErrForbidden = errors.New("permission denied")

	// Input validation errors.
	ErrValidation = errors.New("validation error")

	// Infrastructure errors.
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInternal         = errors.New("internal error")
)
