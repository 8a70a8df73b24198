package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
	"github.com/custodia-labs/pitrseek/internal/core/ports/driving"
)

// Database is an open connection to one database and the services bound
// to it.
type Database struct {
	Finder   driving.TimestampFinder
	Database driving.DatabaseService
	Close    func() error
}

// Opener opens a connection to target.
type Opener func(ctx context.Context, target domain.DatabaseTarget) (*Database, error)

// Ports aggregates everything the MCP server needs.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Open connects to a database.
	Open Opener

	// History records and lists searches. Optional.
	History driving.HistoryService

	// DefaultTarget fills in target components a tool call leaves out.
	DefaultTarget domain.DatabaseTarget

	// DefaultAccuracy applies when a tool call gives no accuracy.
	DefaultAccuracy time.Duration

	// Version is reported to clients.
	Version string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Open == nil {
		return ErrMissingOpener
	}
	return nil
}

// mergeTarget fills the components in missing from in.
func mergeTarget(defaults domain.DatabaseTarget, in TargetInput) (domain.DatabaseTarget, error) {
	t := defaults
	if in.Project != "" {
		t.Project = in.Project
	}
	if in.Instance != "" {
		t.Instance = in.Instance
	}
	if in.Database != "" {
		t.Database = in.Database
	}
	return t, t.Validate()
}
