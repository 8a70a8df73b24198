package domain

import "time"

// ProbeOutcome is the classified result of one point-in-time query.
type ProbeOutcome int

const (
	// OutcomeError is an unclassified backend failure. The probe is
	// inconclusive.
	OutcomeError ProbeOutcome = iota

	// OutcomeFalse means the condition did not hold, the query returned no
	// rows, or the backend failed softly.
	OutcomeFalse

	// OutcomeTrue means the condition held.
	OutcomeTrue
)

// OutcomeOf converts a boolean into an outcome.
func OutcomeOf(holds bool) ProbeOutcome {
	if holds {
		return OutcomeTrue
	}
	return OutcomeFalse
}

// String returns the outcome as printed in progress and logs.
func (o ProbeOutcome) String() string {
	switch o {
	case OutcomeTrue:
		return "true"
	case OutcomeFalse:
		return "false"
	default:
		return "error"
	}
}

// Holds reports whether the condition held.
func (o ProbeOutcome) Holds() bool {
	return o == OutcomeTrue
}

// Row is one result row. Values are decoded from the backend as bool,
// string, float64 or nil.
type Row []any

// Progress describes the search after a classified probe.
type Progress struct {
	// Window is the window the probe split.
	Window Window

	// Midpoint is the probed timestamp.
	Midpoint time.Time

	// Outcome is OutcomeTrue or OutcomeFalse, never OutcomeError.
	Outcome ProbeOutcome

	// Step is the number of midpoint probes issued so far, including this one.
	Step int

	// Budget is the iteration budget of the whole search.
	Budget int
}
