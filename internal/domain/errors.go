package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. no options selected, quantity above availability).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnauthorized is returned when an operation needs an authenticated user
// and none is present, or when credentials do not match.
// Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("authentication required")

// ErrConflict is returned when a write collides with existing state,
// e.g. registering an email that is already taken.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")
