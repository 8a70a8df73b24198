// Package messages defines Bubbletea message types for the progress view.
package messages

import (
	"github.com/custodia-labs/pitrseek/internal/core/domain"
)

// ProbeReported carries one classified probe to the view.
type ProbeReported struct {
	Progress domain.Progress
}

// SearchFinished tells the view the search ended and it should exit.
type SearchFinished struct{}

// LogLine is a log message to print above the live view.
type LogLine struct {
	Text string
}
