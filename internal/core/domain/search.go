package domain

import "time"

// DefaultAccuracy is the window width at which a search stops by default.
const DefaultAccuracy = 10 * time.Millisecond

// SearchRequest describes one timestamp search.
type SearchRequest struct {
	// Window bounds the search. The query must hold at Start and not at End.
	Window Window

	// Query is a read-only SQL statement returning one BOOL column.
	Query string

	// Accuracy is the width below which the search stops subdividing.
	Accuracy time.Duration
}

// SearchResult is the outcome of a successful search.
type SearchResult struct {
	// Timestamp is the latest probed instant at which the query held.
	Timestamp time.Time `json:"timestamp"`

	// Window is the window the search started from.
	Window Window `json:"-"`

	// Accuracy is the requested accuracy.
	Accuracy time.Duration `json:"-"`

	// Probes is the number of midpoint probes issued, excluding validation.
	Probes int `json:"probes"`

	// Budget is the maximum number of midpoint probes the search allowed.
	Budget int `json:"budget"`

	// InconclusiveProbes counts probes that failed with a hard error.
	InconclusiveProbes int `json:"inconclusive_probes"`
}
