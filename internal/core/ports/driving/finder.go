package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
)

// ProgressReporter observes a running search. Report is called
// synchronously after every midpoint probe that produced a true or false
// outcome, never after an inconclusive one.
//
// Returning an error aborts the search; the error becomes the result of
// TimestampFinder.Find. This is the only way to cancel a search.
type ProgressReporter interface {
	Report(p domain.Progress) error
}

// ProgressFunc adapts a function to ProgressReporter.
type ProgressFunc func(p domain.Progress) error

// Report calls f(p).
func (f ProgressFunc) Report(p domain.Progress) error {
	return f(p)
}

// TimestampFinder locates the latest instant at which a diagnostic query
// still holds.
type TimestampFinder interface {
	// Find validates the window edges then bisects it. A nil reporter
	// means progress is not observed.
	Find(ctx context.Context, req domain.SearchRequest, reporter ProgressReporter) (*domain.SearchResult, error)
}

// DatabaseService exposes database metadata to the CLI.
type DatabaseService interface {
	// Describe returns the database metadata.
	Describe(ctx context.Context) (*domain.DatabaseInfo, error)

	// ServerTime returns the current time of the database server.
	ServerTime(ctx context.Context) (time.Time, error)

	// ResolveWindow fills missing window bounds: start defaults to the
	// earliest version time, end to the server time.
	ResolveWindow(ctx context.Context, start, end *time.Time) (domain.Window, error)
}
