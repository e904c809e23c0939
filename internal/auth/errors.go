package auth

import "errors"

var (
	// ErrUnauthenticated is returned when no valid credential accompanies
	// the request.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrInvalidCredential is returned when the credential format is invalid.
	ErrInvalidCredential = errors.New("invalid credential")
)
