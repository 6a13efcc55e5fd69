// Package common defines shared constants and sentinel errors used across
// the server and CLI layers of GophPress. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Backend taxonomy. ErrBackendUnavailable covers transport failures
	// (connection refused, timeouts, cancelled contexts) that a higher layer
	// may retry; ErrBackendFailure covers statements the backend rejected,
	// which retrying will not fix.
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrBackendFailure     = errors.New("backend failure")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrAlreadyExists  = errors.New("already exists")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (malformed, forged or expired token).
	ErrInvalidToken = errors.New("invalid token")
)
