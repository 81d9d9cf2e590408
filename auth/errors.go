package auth

import "errors"

// Sentinel errors for authentication and authorization.
var (
	// Authentication errors
	ErrMissingCredentials = errors.New("auth: missing credentials")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrTokenMalformed     = errors.New("auth: token malformed")
	ErrBadSignature       = errors.New("auth: token signature mismatch")
	ErrIssuerMismatch     = errors.New("auth: token issuer mismatch")
	ErrAudienceMismatch   = errors.New("auth: token audience mismatch")
	ErrTokenExpired       = errors.New("auth: token expired")
	ErrTokenNotYetValid   = errors.New("auth: token not yet valid")

	// Authorization errors
	ErrUnauthenticated = errors.New("auth: authentication required")
	ErrForbidden       = errors.New("auth: access denied")
)
