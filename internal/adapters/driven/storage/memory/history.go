package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
	"github.com/custodia-labs/pitrseek/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore keeps search records in a slice, oldest first.
type HistoryStore struct {
	mu      sync.Mutex
	records []domain.SearchRecord
	nextID  int64
	closed  bool
}

// NewHistoryStore creates an empty history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{nextID: 1}
}

// Add appends rec and assigns its ID.
func (s *HistoryStore) Add(_ context.Context, rec *domain.SearchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.nextID
	s.nextID++
	s.records = append(s.records, *rec)
	return nil
}

// List returns the newest records first.
func (s *HistoryStore) List(_ context.Context, database string, limit int) ([]domain.SearchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.SearchRecord
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		if database == "" || s.records[i].Database == database {
			out = append(out, s.records[i])
		}
	}
	return out, nil
}

// Prune drops all but the newest keep records.
func (s *HistoryStore) Prune(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) > keep {
		s.records = append([]domain.SearchRecord(nil), s.records[len(s.records)-keep:]...)
	}
	return nil
}

// Clear drops every record.
func (s *HistoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}

// Close marks the store closed.
func (s *HistoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *HistoryStore) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
