package driven

import (
	"context"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
)

// HistoryStore persists finished searches.
type HistoryStore interface {
	// Add stores rec and sets its ID.
	Add(ctx context.Context, rec *domain.SearchRecord) error

	// List returns the most recent records first, at most limit of them.
	// An empty database lists records for every database.
	List(ctx context.Context, database string, limit int) ([]domain.SearchRecord, error)

	// Prune keeps the most recent keep records and deletes the rest.
	Prune(ctx context.Context, keep int) error

	// Clear deletes every record.
	Clear(ctx context.Context) error

	// Close releases the store.
	Close() error
}
