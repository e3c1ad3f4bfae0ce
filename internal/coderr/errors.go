// File path: internal/coderr/errors.go
// Package coderr defines the error taxonomy shared by the store, matching,
// and API layers so a caller can classify a failure with errors.Is/As
// instead of matching on driver-specific error strings.
package coderr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound means the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRange means a requested position range is malformed (its start lies after its end).
	ErrInvalidRange = errors.New("invalid range")
	// ErrInvalidArgument means a request parameter failed validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict means the operation would violate a uniqueness constraint.
	ErrConflict = errors.New("conflict")
	// ErrIntegrity means persisted state would become inconsistent (e.g. a
	// Symbol without its full Window set, or a dangling foreign key).
	ErrIntegrity = errors.New("integrity error")
	// ErrBackingStoreMissing means a required backing resource is absent: no
	// store or search index is configured, or a Symbol's object blob cannot
	// be read back for disassembly.
	ErrBackingStoreMissing = errors.New("backing store not configured")
	// ErrBackingStoreUnavailable means the backing store could not be reached.
	ErrBackingStoreUnavailable = errors.New("backing store unavailable")
	// ErrResourceExhausted means a query's anchor fan-out exceeded the configured cap.
	ErrResourceExhausted = errors.New("resource exhausted")
	// ErrCancelled means the caller's context was cancelled before completion.
	ErrCancelled = errors.New("cancelled")
)

// Wrap attaches msg to err while preserving errors.Is/As matching against
// the coderr sentinels.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// HTTPStatus maps a coderr sentinel (possibly wrapped) to the HTTP status
// code the API layer should write for it.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidRange), errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrIntegrity):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrBackingStoreMissing), errors.Is(err, ErrBackingStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrResourceExhausted):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrCancelled):
		return 499
	default:
		return http.StatusInternalServerError
	}
}

// ExitCode maps a coderr sentinel to the CLI exit code documented for the
// ingestion command: 0 success, 1 user error, 2 integrity error, 3 backing
// store unavailable.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrIntegrity), errors.Is(err, ErrConflict):
		return 2
	case errors.Is(err, ErrBackingStoreMissing), errors.Is(err, ErrBackingStoreUnavailable):
		return 3
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrInvalidRange), errors.Is(err, ErrNotFound):
		return 1
	default:
		return 1
	}
}
