package services

import "errors"

// Workflow error taxonomy. Handlers map these onto HTTP status codes with
// errors.Is; everything else is a 500.
var (
	// ErrValidation is a missing or malformed required field.
	ErrValidation = errors.New("validation failed")
	// ErrAuthentication means no or invalid session.
	ErrAuthentication = errors.New("authentication required")
	// ErrAuthorization means the requester is authenticated but not the owner.
	ErrAuthorization = errors.New("not authorized")
	// ErrConflict is a duplicate username or slug collision.
	ErrConflict = errors.New("conflict")
	// ErrNotFound is an unknown id or slug.
	ErrNotFound = errors.New("not found")
	// ErrUpstream is an object storage failure; the whole operation aborts.
	ErrUpstream = errors.New("upstream failure")
)
