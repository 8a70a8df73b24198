package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
	"github.com/custodia-labs/pitrseek/internal/core/ports/driven"
	"github.com/custodia-labs/pitrseek/internal/logger"
)

// prober runs the diagnostic query at one timestamp.
type prober interface {
	Probe(ctx context.Context, ts time.Time) (domain.ProbeOutcome, error)
}

// QueryExecutor evaluates a diagnostic query at exact timestamps.
type QueryExecutor struct {
	reader driven.SnapshotReader
	query  string
}

// NewQueryExecutor creates an executor for query.
func NewQueryExecutor(reader driven.SnapshotReader, query string) *QueryExecutor {
	return &QueryExecutor{reader: reader, query: query}
}

// Probe runs the query in a snapshot at ts and classifies the result.
//
// The first column of the first row decides the outcome. No rows, a missing
// object and a timestamp outside the servable window all count as false.
// Any other failure returns OutcomeError with the cause.
func (e *QueryExecutor) Probe(ctx context.Context, ts time.Time) (domain.ProbeOutcome, error) {
	rows, err := e.reader.QueryAt(ctx, ts, e.query)
	if err != nil {
		if domain.IsSoftBackendError(err) {
			logger.Warn("%v at %s, treating as false", err, domain.FormatTimestamp(ts))
			return domain.OutcomeFalse, nil
		}
		return domain.OutcomeError, fmt.Errorf("query at %s: %w", domain.FormatTimestamp(ts), err)
	}

	if len(rows) == 0 {
		logger.Trace("  No rows at %s", domain.FormatTimestamp(ts))
		return domain.OutcomeFalse, nil
	}

	first := rows[0]
	if len(first) == 0 {
		return domain.OutcomeError, fmt.Errorf("query at %s: %w: row has no columns",
			domain.FormatTimestamp(ts), domain.ErrUnexpectedColumn)
	}

	holds, ok := first[0].(bool)
	if !ok {
		return domain.OutcomeError, fmt.Errorf("query at %s: %w: got %T",
			domain.FormatTimestamp(ts), domain.ErrUnexpectedColumn, first[0])
	}

	return domain.OutcomeOf(holds), nil
}
