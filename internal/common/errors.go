// Package common defines shared constants and sentinel errors used across
// client and server layers of CharKeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository and local-store errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Remote store errors.
	ErrUnavailable = errors.New("server unavailable")
)
