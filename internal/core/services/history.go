package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
	"github.com/custodia-labs/pitrseek/internal/core/ports/driven"
	"github.com/custodia-labs/pitrseek/internal/core/ports/driving"
	"github.com/custodia-labs/pitrseek/internal/logger"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

const (
	// HistoryKeep is the number of searches kept in the history.
	HistoryKeep = 200

	// DefaultHistoryLimit is the number of searches Recent lists when no
	// limit is given.
	DefaultHistoryLimit = 20
)

// HistoryService records searches in a history store.
type HistoryService struct {
	store driven.HistoryStore
	keep  int
}

// NewHistoryService creates a history service backed by store.
func NewHistoryService(store driven.HistoryStore) *HistoryService {
	return &HistoryService{store: store, keep: HistoryKeep}
}

// Record stores rec and prunes the oldest searches beyond HistoryKeep.
func (s *HistoryService) Record(ctx context.Context, rec *domain.SearchRecord) error {
	if rec == nil || rec.Database == "" {
		return fmt.Errorf("%w: search record needs a database", domain.ErrInvalidInput)
	}

	if err := s.store.Add(ctx, rec); err != nil {
		return fmt.Errorf("record search: %w", err)
	}
	logger.Debug("Recorded search %d", rec.ID)

	if err := s.store.Prune(ctx, s.keep); err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return nil
}

// Recent lists the latest searches, most recent first.
func (s *HistoryService) Recent(ctx context.Context, database string, limit int) ([]domain.SearchRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	records, err := s.store.List(ctx, database, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return records, nil
}

// Clear deletes every recorded search.
func (s *HistoryService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// Close closes the store.
func (s *HistoryService) Close() error {
	return s.store.Close()
}
