package errors

import (
	"errors"
	"fmt"
)

// Common error types for the gateway
var (
	// Configuration errors
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrInsecureConfig = errors.New("insecure configuration")

	// Login session errors
	ErrSessionNotFound = errors.New("session not found")

	// IdP errors
	ErrDiscoveryFailed = errors.New("idp discovery failed")
	ErrExchangeFailed  = errors.New("token exchange failed")
	ErrKeySetFailed    = errors.New("signing key set unavailable")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
