// Package common defines shared constants and sentinel errors used across
// the broker's layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorConflict     = errors.New("already exists")
	ErrorUnauthorized = errors.New("unauthorized")

	// Lock errors (strict mode only).
	ErrLockNotAcquired = errors.New("lock not acquired")
)
