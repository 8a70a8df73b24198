package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
	"github.com/custodia-labs/pitrseek/internal/core/ports/driven"
	"github.com/custodia-labs/pitrseek/internal/core/ports/driving"
	"github.com/custodia-labs/pitrseek/internal/logger"
)

// Ensure FinderService implements the interface.
var _ driving.TimestampFinder = (*FinderService)(nil)

// FinderService finds the latest timestamp at which a diagnostic query
// returns true in the first column of the first row.
type FinderService struct {
	reader driven.SnapshotReader
}

// NewFinderService creates a finder reading through reader.
func NewFinderService(reader driven.SnapshotReader) *FinderService {
	return &FinderService{reader: reader}
}

// Find validates the window edges and bisects the window until the
// remaining true-window is narrower than the requested accuracy.
func (s *FinderService) Find(
	ctx context.Context, req domain.SearchRequest, reporter driving.ProgressReporter,
) (*domain.SearchResult, error) {
	logger.Section("Timestamp Search")

	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: diagnostic query is empty", domain.ErrInvalidInput)
	}
	if req.Accuracy <= 0 {
		return nil, domain.NewSearchExhausted("accuracy must be positive")
	}
	if req.Window.Exhausted() {
		return nil, domain.NewSearchExhausted("accuracy limit reached without resolution")
	}

	return s.find(ctx, NewQueryExecutor(s.reader, req.Query), req, reporter)
}

func (s *FinderService) find(
	ctx context.Context, p prober, req domain.SearchRequest, reporter driving.ProgressReporter,
) (*domain.SearchResult, error) {
	budget := domain.IterationBudget(req.Window, req.Accuracy)
	logger.Debug("Window: %s (%s), accuracy: %s, budget: %d probes",
		req.Window, req.Window.Width(), req.Accuracy, budget)

	if err := validateBounds(ctx, p, req.Window); err != nil {
		return nil, err
	}

	logger.Info("Searching for closest recovery timestamp...")
	b := &bisector{
		probe:    p,
		reporter: reporter,
		accuracy: req.Accuracy,
		budget:   budget,
	}

	ts, err := b.search(ctx, req.Window, budget)
	logger.Debug("Search finished after %d probes (%d inconclusive)", b.probes, b.inconclusive)
	if err != nil {
		return nil, err
	}

	return &domain.SearchResult{
		Timestamp:          ts,
		Window:             req.Window,
		Accuracy:           req.Accuracy,
		Probes:             b.probes,
		Budget:             budget,
		InconclusiveProbes: b.inconclusive,
	}, nil
}
