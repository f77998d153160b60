// Package common defines shared sentinel errors used across the bot's
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken marks a file token that cannot be decoded: wrong
	// encoding, wrong inner structure, or missing fields. Presented to the
	// user as an invalid or expired link.
	ErrInvalidToken = errors.New("invalid token")
)
