package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
	"github.com/custodia-labs/pitrseek/internal/logger"
)

// validateBounds checks that the query no longer holds at the window end
// and still holds at the window start. The end is probed first.
func validateBounds(ctx context.Context, p prober, w domain.Window) error {
	logger.Info("Checking query at start (%s) and end (%s)",
		domain.FormatTimestamp(w.Start), domain.FormatTimestamp(w.End))

	outcome, err := p.Probe(ctx, w.End)
	if err != nil {
		return probeFailure(ctx, err)
	}
	if outcome.Holds() {
		return domain.NewInvariantViolation("condition still true at window end")
	}

	outcome, err = p.Probe(ctx, w.Start)
	if err != nil {
		return probeFailure(ctx, err)
	}
	if !outcome.Holds() {
		return domain.NewInvariantViolation("condition already false at window start")
	}

	return nil
}

// probeFailure reports a failed bound probe as a cancellation when ctx is
// done, since the failure then says nothing about the query.
func probeFailure(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", domain.ErrCanceled, err)
	}
	return err
}
