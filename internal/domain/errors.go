package domain

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling (OCP compliance).
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found.
	// Also returned for resources owned by another user, so callers
	// cannot distinguish "absent" from "not yours".
	NotFoundError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// IntegrityError indicates an internal inconsistency detected
	// mid-transaction (e.g. a referenced row vanished between validation
	// and commit). The whole operation is rolled back; callers may retry.
	IntegrityError struct {
		Message string
	}

	// UnavailableError indicates the persistence layer could not be reached.
	UnavailableError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *IntegrityError) Error() string    { return e.Message }
func (e *UnavailableError) Error() string  { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *IntegrityError) StatusCode() int    { return http.StatusConflict }
func (e *UnavailableError) StatusCode() int  { return http.StatusServiceUnavailable }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrIntegrity    = errors.New("integrity violation")
	ErrUnavailable  = errors.New("storage unavailable")
)

// ValidationError aggregates every field problem found in one pass so a
// client sees all of them at once instead of fixing one per round trip.
type ValidationError struct {
	Fields map[string]string // field name -> problem description
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	// Stable ordering for logs and tests
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return strings.Join(parts, "; ")
}

// StatusCode implements the HTTPError interface
func (e *ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// Is allows errors.Is() to match against ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Is allows errors.Is() to match against ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Is allows errors.Is() to match against ErrIntegrity
func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}

// Is allows errors.Is() to match against ErrUnavailable
func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

// ConflictError represents a resource conflict with details about the existing resource
// Implements HTTPError interface for extensible error handling
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (component, preset)
	ResourceID   string // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
