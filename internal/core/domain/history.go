package domain

import "time"

// SearchRecord is one finished search as kept in the search history.
type SearchRecord struct {
	ID       int64
	Database string
	Query    string
	Window   Window
	Accuracy time.Duration

	StartedAt  time.Time
	FinishedAt time.Time

	// Timestamp is the result of a successful search, zero otherwise.
	Timestamp time.Time

	Probes             int
	Budget             int
	InconclusiveProbes int

	// Error is the failure message, empty on success.
	Error string
}

// Succeeded reports whether the search found a timestamp.
func (r SearchRecord) Succeeded() bool {
	return r.Error == "" && !r.Timestamp.IsZero()
}

// Duration returns how long the search ran.
func (r SearchRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// NewSearchRecord describes a search that ran from started to finished.
// result is ignored when err is set.
func NewSearchRecord(
	target DatabaseTarget, req SearchRequest, started, finished time.Time,
	result *SearchResult, err error,
) *SearchRecord {
	rec := &SearchRecord{
		Database:   target.Path(),
		Query:      req.Query,
		Window:     req.Window,
		Accuracy:   req.Accuracy,
		StartedAt:  started,
		FinishedAt: finished,
	}
	if err != nil {
		rec.Error = err.Error()
		return rec
	}
	if result != nil {
		rec.Timestamp = result.Timestamp
		rec.Probes = result.Probes
		rec.Budget = result.Budget
		rec.InconclusiveProbes = result.InconclusiveProbes
	}
	return rec
}
