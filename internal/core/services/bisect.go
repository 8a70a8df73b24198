package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
	"github.com/custodia-labs/pitrseek/internal/core/ports/driving"
	"github.com/custodia-labs/pitrseek/internal/logger"
)

// bisector narrows a window towards the instant the query stops holding.
// Its counters only record what happened; they never steer the search.
type bisector struct {
	probe    prober
	reporter driving.ProgressReporter
	accuracy time.Duration
	budget   int

	probes       int
	inconclusive int
}

// search probes the midpoint of w and recurses into the half that still
// contains the boundary. True moves the window later, false and hard
// errors move it earlier. Every probe costs one unit of remaining. A probe
// that fails because ctx is done ends the search with domain.ErrCanceled.
//
// w.Start is always an instant at which the query held: the validated
// window start or an earlier true midpoint. A false midpoint closer than
// accuracy to it therefore resolves the search at w.Start, which keeps the
// iteration budget sufficient whichever side of a midpoint the boundary
// falls on.
func (b *bisector) search(ctx context.Context, w domain.Window, remaining int) (time.Time, error) {
	if w.Exhausted() {
		return time.Time{}, domain.NewSearchExhausted("accuracy limit reached without resolution")
	}
	if remaining <= 0 {
		return time.Time{}, domain.NewSearchExhausted("iteration budget exhausted")
	}

	mid := w.Midpoint()
	logger.Debug("Querying between %s and %s at %s...",
		domain.FormatTimestamp(w.Start), domain.FormatTimestamp(w.End), domain.FormatTimestamp(mid))

	b.probes++
	outcome, err := b.probe.Probe(ctx, mid)

	switch outcome {
	case domain.OutcomeTrue:
		if err := b.report(w, mid, outcome); err != nil {
			return time.Time{}, err
		}
		if w.End.Sub(mid) < b.accuracy {
			logger.Trace("  Query succeeded. Closest timestamp found: %s", domain.FormatTimestamp(mid))
			return mid, nil
		}
		logger.Trace("  Query succeeded (not within accuracy window). Searching later.")
		return b.search(ctx, w.Later(mid), remaining-1)

	case domain.OutcomeFalse:
		if err := b.report(w, mid, outcome); err != nil {
			return time.Time{}, err
		}
		if mid.Sub(w.Start) < b.accuracy {
			logger.Trace("  Query returned false. Closest timestamp found: %s", domain.FormatTimestamp(w.Start))
			return w.Start, nil
		}
		logger.Trace("  Query returned false. Searching earlier.")
		return b.search(ctx, w.Earlier(mid), remaining-1)

	default:
		if ctx.Err() != nil {
			return time.Time{}, fmt.Errorf("%w: %w", domain.ErrCanceled, ctx.Err())
		}
		b.inconclusive++
		logger.Error("  Query failed (%v). Searching earlier.", err)
		return b.search(ctx, w.Earlier(mid), remaining-1)
	}
}

func (b *bisector) report(w domain.Window, mid time.Time, outcome domain.ProbeOutcome) error {
	if b.reporter == nil {
		return nil
	}
	return b.reporter.Report(domain.Progress{
		Window:   w,
		Midpoint: mid,
		Outcome:  outcome,
		Step:     b.probes,
		Budget:   b.budget,
	})
}
