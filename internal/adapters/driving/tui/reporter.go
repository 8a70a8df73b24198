package tui

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pitrseek/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pitrseek/internal/core/domain"
	"github.com/custodia-labs/pitrseek/internal/core/ports/driving"
)

// Ensure Reporter implements the interface.
var _ driving.ProgressReporter = (*Reporter)(nil)

// ExitCodeInterrupted is the exit status after a forced exit.
const ExitCodeInterrupted = 130

// Reporter feeds search progress into the live view and turns the quit
// key into a canceled search.
type Reporter struct {
	program *tea.Program
	model   *Model
	stopped atomic.Bool
	done    chan struct{}
	runErr  error

	// ForceExit runs when the user presses the quit key a second time,
	// after the terminal has been restored. It defaults to exiting the
	// process with ExitCodeInterrupted.
	ForceExit func()
}

// NewReporter creates a reporter rendering to out. Extra program options
// are passed to Bubbletea.
func NewReporter(target string, out io.Writer, opts ...tea.ProgramOption) *Reporter {
	r := &Reporter{
		done:      make(chan struct{}),
		ForceExit: func() { os.Exit(ExitCodeInterrupted) },
	}
	r.model = NewModel(target, func() { r.stopped.Store(true) })

	opts = append([]tea.ProgramOption{tea.WithOutput(out)}, opts...)
	r.program = tea.NewProgram(r.model, opts...)
	return r
}

// Start runs the view in the background.
func (r *Reporter) Start() {
	go func() {
		defer close(r.done)
		_, r.runErr = r.program.Run()
		if r.model.Forced() && r.ForceExit != nil {
			r.ForceExit()
		}
	}()
}

// Report implements driving.ProgressReporter. It fails with
// domain.ErrCanceled once the user has asked to stop.
func (r *Reporter) Report(p domain.Progress) error {
	if r.stopped.Load() {
		return domain.ErrCanceled
	}
	r.program.Send(messages.ProbeReported{Progress: p})
	return nil
}

// Write prints log output above the view, one message per line.
func (r *Reporter) Write(p []byte) (int, error) {
	text := strings.TrimRight(string(p), "\n")
	if text != "" {
		r.program.Send(messages.LogLine{Text: text})
	}
	return len(p), nil
}

// Stop closes the view and waits for the terminal to be restored.
func (r *Reporter) Stop() error {
	r.program.Send(messages.SearchFinished{})
	<-r.done
	return r.runErr
}
