package driving

import (
	"context"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
)

// HistoryService records finished searches and lists past ones.
type HistoryService interface {
	// Record stores a finished search.
	Record(ctx context.Context, rec *domain.SearchRecord) error

	// Recent lists the latest searches against database, or against every
	// database when database is empty.
	Recent(ctx context.Context, database string, limit int) ([]domain.SearchRecord, error)

	// Clear deletes the history.
	Clear(ctx context.Context) error

	// Close releases the underlying store.
	Close() error
}
