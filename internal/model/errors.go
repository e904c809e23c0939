package model

import "errors"

// Sentinel errors wrapped by the service layer with %w. The API maps them
// to 404, 400, 409, and 403 respectively.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)
