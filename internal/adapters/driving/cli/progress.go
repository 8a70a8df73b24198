package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/custodia-labs/pitrseek/internal/adapters/driving/tui"
	"github.com/custodia-labs/pitrseek/internal/core/domain"
	"github.com/custodia-labs/pitrseek/internal/core/ports/driving"
	"github.com/custodia-labs/pitrseek/internal/logger"
)

// lineReporter prints one line per probe. It is used when the live view
// cannot be shown, e.g. when output is redirected.
type lineReporter struct {
	mu      sync.Mutex
	writer  io.Writer
	started time.Time
}

// newLineReporter creates a line reporter writing to w.
func newLineReporter(w io.Writer) *lineReporter {
	return &lineReporter{writer: w, started: time.Now()}
}

// Report implements driving.ProgressReporter.
func (r *lineReporter) Report(p domain.Progress) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := fmt.Fprintf(r.writer, "[%d/%d] %s %-5s (window %s, %s elapsed)\n",
		p.Step, p.Budget, domain.FormatTimestamp(p.Midpoint), p.Outcome,
		p.Window.Width(), time.Since(r.started).Round(time.Millisecond))
	return err
}

// interruptible fails with domain.ErrCanceled once ctx is done, and
// forwards to next otherwise. next may be nil.
func interruptible(ctx context.Context, next driving.ProgressReporter) driving.ProgressReporter {
	return driving.ProgressFunc(func(p domain.Progress) error {
		if ctx.Err() != nil {
			return domain.ErrCanceled
		}
		if next == nil {
			return nil
		}
		return next.Report(p)
	})
}

// progressMode selects how a search shows its progress.
type progressMode int

const (
	progressNone progressMode = iota
	progressLines
	progressLive
)

// startProgress starts the reporter for mode. finish must be called once
// the search returns.
func startProgress(mode progressMode, target string, w io.Writer) (reporter driving.ProgressReporter, finish func()) {
	switch mode {
	case progressLive:
		live := tui.NewReporter(target, w)
		previous := logger.Output()
		logger.SetOutput(live)
		live.Start()
		return live, func() {
			logger.SetOutput(previous)
			if err := live.Stop(); err != nil {
				logger.Debug("Progress view: %v", err)
			}
		}
	case progressLines:
		return newLineReporter(w), func() {}
	default:
		return nil, func() {}
	}
}
