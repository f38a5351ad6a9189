package domain

import "errors"

// Authentication errors, surfaced to the caller of SignIn.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownAccount     = errors.New("unknown account")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrAuthFailed         = errors.New("authentication failed")
)

// Profile errors. Profile writes are fatal only in the bootstrap tool.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileWrite    = errors.New("profile write rejected")
)

// Collection errors. View screens absorb these silently and keep their
// prior derived counts.
var (
	ErrCollectionFetch = errors.New("collection fetch failed")
)

// External service errors.
var (
	ErrBackendUnavailable = errors.New("identity backend unavailable")
	ErrTokenGeneration    = errors.New("token generation failed")
	ErrCSRFSecretMissing  = errors.New("CSRF secret not configured")
)

// Validation errors.
var (
	ErrInvalidRole = errors.New("invalid role")
)

// IsAuthenticationError reports whether err belongs to the sign-in error
// taxonomy, i.e. something to show the user rather than a server fault.
func IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrUnknownAccount) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrAuthFailed)
}
