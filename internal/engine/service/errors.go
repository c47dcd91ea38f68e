package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for the caller-facing taxonomy. Handlers match these with
// errors.Is; resolution outcomes (deny decisions) are values, never errors.
var (
	// ErrNotFound marks a missing user, role, or permission.
	ErrNotFound = errors.New("not found")
	// ErrInvalidOperation marks a business-rule violation, such as mutating
	// a system role or deactivating a role that still has active users.
	ErrInvalidOperation = errors.New("invalid operation")
)

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func invalidOpf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, fmt.Sprintf(format, args...))
}
