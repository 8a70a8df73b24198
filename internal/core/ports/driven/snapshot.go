package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
)

// SnapshotReader runs read-only queries against the database as of an
// exact past timestamp.
//
// Implementations must wrap backend failures so callers can classify them:
//
//   - domain.ErrObjectNotFound when a table, column or view referenced by
//     the query does not exist at ts
//   - domain.ErrStalenessExceeded when ts is outside the window the
//     database can still serve
//
// Every other failure is returned as is.
type SnapshotReader interface {
	// QueryAt executes sql in a single-use read-only snapshot bound to ts
	// and returns every row.
	QueryAt(ctx context.Context, ts time.Time, sql string) ([]domain.Row, error)
}

// DatabaseInspector reads database metadata used to default a search window.
type DatabaseInspector interface {
	// Describe returns the database metadata, including the earliest
	// version time a snapshot read can target.
	Describe(ctx context.Context) (*domain.DatabaseInfo, error)

	// ServerTime returns the current time of the database server.
	ServerTime(ctx context.Context) (time.Time, error)
}
