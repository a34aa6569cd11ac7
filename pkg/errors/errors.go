package errors

import (
	"errors"
	"net/http"
)

// Sentinel errors forming the API error taxonomy. Every public operation
// maps lower-layer failures onto one of these before it reaches a handler.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
	ErrDuplicate    = errors.New("resource already exists")
	ErrInternal     = errors.New("internal server error")
)

// StatusOf returns the HTTP status for a taxonomy error. Rate limiting is
// reported as 400 with a descriptive message, not 429.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrRateLimited):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Is re-exports errors.Is so callers don't need both packages.
func Is(err, target error) bool { return errors.Is(err, target) }
