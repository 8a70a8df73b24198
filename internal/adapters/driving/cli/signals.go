package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/pitrseek/internal/logger"
)

// notifyInterrupt returns a context canceled by the first SIGINT or
// SIGTERM. After that signal the default handling is restored, so a
// second one terminates the process. stop releases the handler.
func notifyInterrupt() (ctx context.Context, stop func()) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigChan:
			signal.Stop(sigChan)
			logger.Warn("Interrupted. Stopping after the current probe, press Ctrl-C again to exit now.")
			cancel()
		case <-done:
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		close(done)
		cancel()
	}
}
