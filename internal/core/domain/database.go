package domain

import (
	"fmt"
	"strings"
	"time"
)

// DatabaseTarget identifies a Cloud Spanner database.
type DatabaseTarget struct {
	Project  string
	Instance string
	Database string
}

// Validate checks that every component is present.
func (t DatabaseTarget) Validate() error {
	var missing []string
	if t.Project == "" {
		missing = append(missing, "project")
	}
	if t.Instance == "" {
		missing = append(missing, "instance")
	}
	if t.Database == "" {
		missing = append(missing, "database")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

// InstancePath returns projects/P/instances/I.
func (t DatabaseTarget) InstancePath() string {
	return fmt.Sprintf("projects/%s/instances/%s", t.Project, t.Instance)
}

// Path returns projects/P/instances/I/databases/D.
func (t DatabaseTarget) Path() string {
	return t.InstancePath() + "/databases/" + t.Database
}

// DatabaseInfo is the database metadata a search needs for its defaults.
type DatabaseInfo struct {
	// Name is the full database path.
	Name string

	// State is the lifecycle state reported by the service, e.g. READY.
	State string

	// EarliestVersionTime is the earliest instant a stale read can target.
	EarliestVersionTime time.Time

	// RetentionPeriod is the version retention period as reported, e.g. "1h".
	RetentionPeriod string
}
