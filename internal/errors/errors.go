package errors

import (
	"errors"
	"fmt"
)

// Coarse error categories for the HTTP boundary. Lower layers wrap their
// own sentinel errors with step context; handlers collapse them to one of
// these before writing a response so that internal distinctions (which
// state check failed, what the upstream returned) stay in the logs only.
var (
	// Bad or missing static configuration, fatal at startup or per-tenant lookup
	ErrConfiguration = errors.New("configuration error")

	// Malformed inbound request (missing Host header, bad body)
	ErrValidation = errors.New("validation error")

	// Login-state failures: invalid signature, unknown, expired, context mismatch.
	// Always surfaced to clients as a generic invalid-or-expired message.
	ErrState = errors.New("invalid or expired login attempt")

	// Identity-provider discovery, token exchange or JWKS failures
	ErrUpstream = errors.New("upstream provider error")

	// Identity token failed signature or claims verification
	ErrIdentityToken = errors.New("identity token invalid")

	// Ephemeral or durable store unavailable
	ErrStorage = errors.New("storage error")

	// Requested entity does not exist
	ErrNotFound = errors.New("not found")
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
