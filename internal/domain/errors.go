package domain

import "errors"

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for common business logic failures.
var (
	ErrEmptyMessage    = errors.New("message body is empty")
	ErrUnauthenticated = errors.New("missing or invalid credentials")
	ErrUnknownRole     = errors.New("unknown user role")
)
