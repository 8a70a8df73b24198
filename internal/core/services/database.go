package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
	"github.com/custodia-labs/pitrseek/internal/core/ports/driven"
	"github.com/custodia-labs/pitrseek/internal/core/ports/driving"
	"github.com/custodia-labs/pitrseek/internal/logger"
)

// Ensure DatabaseService implements the interface.
var _ driving.DatabaseService = (*DatabaseService)(nil)

// DatabaseService reads database metadata and derives default windows.
type DatabaseService struct {
	inspector driven.DatabaseInspector

	mu   sync.Mutex
	info *domain.DatabaseInfo
}

// NewDatabaseService creates a database service.
func NewDatabaseService(inspector driven.DatabaseInspector) *DatabaseService {
	return &DatabaseService{inspector: inspector}
}

// Describe returns the database metadata. The first successful answer is
// cached for the lifetime of the service.
func (s *DatabaseService) Describe(ctx context.Context) (*domain.DatabaseInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.info != nil {
		return s.info, nil
	}

	info, err := s.inspector.Describe(ctx)
	if err != nil {
		return nil, fmt.Errorf("describe database: %w", err)
	}
	s.info = info
	return info, nil
}

// ServerTime returns the current time of the database server.
func (s *DatabaseService) ServerTime(ctx context.Context) (time.Time, error) {
	ts, err := s.inspector.ServerTime(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("database time: %w", err)
	}
	return ts, nil
}

// ResolveWindow fills missing bounds from the database: start defaults to
// the earliest version time and end to the current server time.
func (s *DatabaseService) ResolveWindow(ctx context.Context, start, end *time.Time) (domain.Window, error) {
	var from, to time.Time

	if start != nil {
		from = *start
	} else {
		info, err := s.Describe(ctx)
		if err != nil {
			return domain.Window{}, err
		}
		if info.EarliestVersionTime.IsZero() {
			return domain.Window{}, fmt.Errorf("%w: database reports no earliest version time, pass --start",
				domain.ErrInvalidInput)
		}
		from = info.EarliestVersionTime
		logger.Debug("Window start defaults to earliest version time %s", domain.FormatTimestamp(from))
	}

	if end != nil {
		to = *end
	} else {
		now, err := s.ServerTime(ctx)
		if err != nil {
			return domain.Window{}, err
		}
		to = now
		logger.Debug("Window end defaults to database time %s", domain.FormatTimestamp(to))
	}

	return domain.NewWindow(from, to)
}
