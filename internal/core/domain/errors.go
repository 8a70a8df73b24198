package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent search failures and backend classifications.
// Adapters wrap backend failures with these so the core can classify them
// using errors.Is.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvariantViolation indicates the diagnostic query does not behave
	// monotonically at the edges of the search window.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrSearchExhausted indicates the search ran out of window or budget
	// without resolving a timestamp.
	ErrSearchExhausted = errors.New("search exhausted")

	// ErrCanceled indicates the progress reporter asked the search to stop.
	ErrCanceled = errors.New("search canceled")

	// Backend Errors.

	// ErrObjectNotFound indicates the queried table, column or view does not
	// exist at the read timestamp (not yet created, or already dropped).
	ErrObjectNotFound = errors.New("object not found at read timestamp")

	// ErrStalenessExceeded indicates the read timestamp is outside the window
	// the database can still serve.
	ErrStalenessExceeded = errors.New("read timestamp outside servable window")

	// ErrUnexpectedColumn indicates the diagnostic query did not return a
	// BOOL in the first column of the first row.
	ErrUnexpectedColumn = errors.New("diagnostic query must return a single BOOL column")
)

// SearchError is a terminal search failure with a human readable reason.
// It unwraps to its Kind so callers can match with errors.Is.
type SearchError struct {
	Kind   error
	Reason string
}

// NewInvariantViolation returns a precondition failure.
func NewInvariantViolation(reason string) *SearchError {
	return &SearchError{Kind: ErrInvariantViolation, Reason: reason}
}

// NewSearchExhausted returns an exhaustion failure.
func NewSearchExhausted(reason string) *SearchError {
	return &SearchError{Kind: ErrSearchExhausted, Reason: reason}
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
}

func (e *SearchError) Unwrap() error {
	return e.Kind
}

// IsSoftBackendError reports whether err is a backend failure that the
// search treats as the condition being false.
func IsSoftBackendError(err error) bool {
	return errors.Is(err, ErrObjectNotFound) || errors.Is(err, ErrStalenessExceeded)
}
