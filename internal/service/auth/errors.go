package auth

import "errors"

// Common authentication service errors
var (
	// ErrUnauthenticated means the caller could not be identified. It is the
	// only error IdentityResolver returns; the underlying cause is logged, not
	// exposed.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden means the caller is known but does not own the resource.
	ErrForbidden = errors.New("access to this resource is forbidden")

	// ErrInvalidToken indicates the token format is invalid, the signature
	// doesn't match, the algorithm is wrong, or the token is not an access token.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidAuthScheme indicates the Authorization header is not of the
	// form "Bearer <token>".
	ErrInvalidAuthScheme = errors.New("authorization header must use the Bearer scheme")
)
