// Package errors provides the JSON error envelope returned by the HTTP API.
package errors

import (
	"fmt"
	"net/http"
)

// APIError is the body written for failed requests. Error carries the short
// reason; Message is set only by endpoints that also describe the operation.
type APIError struct {
	// Status is the HTTP status code for this occurrence.
	Status int `json:"-"`
	// Message summarizes the failed operation, e.g. "Sync failed".
	Message string `json:"message,omitempty"`
	// Detail is the human-readable reason, serialized as "error".
	Detail string `json:"error"`
}

// Error implements the error interface.
func (e APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Detail
}

// WithDetail returns a copy with the given reason.
func (e APIError) WithDetail(detail string) APIError {
	e.Detail = detail
	return e
}

// WithMessage returns a copy with the given operation summary.
func (e APIError) WithMessage(message string) APIError {
	e.Message = message
	return e
}

// Pre-defined errors for the portfolio endpoints.
var (
	// ErrUnauthorized rejects a sync trigger without the expected bearer token.
	ErrUnauthorized = APIError{
		Status: http.StatusUnauthorized,
		Detail: "Unauthorized",
	}

	// ErrFetchProjects reports a storage failure on the read path.
	ErrFetchProjects = APIError{
		Status: http.StatusInternalServerError,
		Detail: "Failed to fetch projects",
	}

	// ErrSyncFailed reports a failed sync run; the detail carries a short reason.
	ErrSyncFailed = APIError{
		Status:  http.StatusInternalServerError,
		Message: "Sync failed",
		Detail:  "Unknown error",
	}

	// ErrNotFound answers unknown routes.
	ErrNotFound = APIError{
		Status: http.StatusNotFound,
		Detail: "Not Found",
	}

	// ErrInternal indicates an unexpected server error.
	ErrInternal = APIError{
		Status: http.StatusInternalServerError,
		Detail: "Internal Server Error",
	}
)

// NewSyncFailure builds the sync failure body for a short client-facing reason.
// Callers must not pass raw error text.
func NewSyncFailure(reason string) APIError {
	if reason == "" {
		return ErrSyncFailed
	}
	return ErrSyncFailed.WithDetail(reason)
}
