package errors

import (
	"errors"
	"fmt"
)

// Common error types for the sign-in client
var (
	// Session storage errors
	ErrKeyRequired = errors.New("storage key is required")
	ErrStorageFull = errors.New("session storage quota exceeded")

	// Token errors
	ErrMalformedToken = errors.New("malformed token")

	// Host errors
	ErrHostUnavailable = errors.New("host runtime unavailable")
	ErrNoHostContext   = errors.New("host context not available")

	// General errors
	ErrUnsupported = errors.New("unsupported operation")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
