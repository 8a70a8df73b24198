package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/pitrseek/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pitrseek/internal/core/domain"
	"github.com/custodia-labs/pitrseek/internal/core/ports/driving"
	"github.com/custodia-labs/pitrseek/internal/core/services"
	"github.com/custodia-labs/pitrseek/internal/logger"
)

var midnight = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// testEnv wires the commands to an in-memory database and settings store.
type testEnv struct {
	timeline *memory.Timeline
	store    *memory.ConfigStore
	history  *memory.HistoryStore

	connected *domain.AppSettings
	configDir string
	closed    int

	stdout *bytes.Buffer
	stderr *bytes.Buffer
	logs   *bytes.Buffer
}

func setupCLI(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		timeline: memory.NewTimeline(midnight.Add(-time.Hour), midnight.Add(time.Hour)),
		store:    memory.NewConfigStore(),
		history:  memory.NewHistoryStore(),
		stdout:   new(bytes.Buffer),
		stderr:   new(bytes.Buffer),
		logs:     new(bytes.Buffer),
	}
	env.timeline.SetAnswer(memory.HoldsBefore(midnight.Add(30 * time.Second)))

	SetConfig(&Config{
		Connect: func(_ context.Context, settings domain.AppSettings) (*Session, error) {
			env.connected = &settings
			return &Session{
				Finder:   services.NewFinderService(env.timeline),
				Database: services.NewDatabaseService(env.timeline),
				Close: func() error {
					env.closed++
					return nil
				},
			}, nil
		},
		OpenSettings: func(configDir string) (driving.SettingsService, error) {
			env.configDir = configDir
			return services.NewSettingsService(env.store), nil
		},
		OpenHistory: func(string) (driving.HistoryService, error) {
			return services.NewHistoryService(env.history), nil
		},
	})

	previousOutput := logger.Output()
	previousLevel := logger.CurrentLevel()
	logger.SetOutput(env.logs)

	t.Cleanup(func() {
		SetConfig(nil)
		logger.SetOutput(previousOutput)
		logger.SetLevel(previousLevel)
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	return env
}

// run executes the root command with args.
func (e *testEnv) run(args ...string) error {
	rootCmd.SetOut(e.stdout)
	rootCmd.SetErr(e.stderr)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// target returns the flags selecting the test database.
func target(args ...string) []string {
	return append([]string{"-p", "proj", "-i", "inst", "-d", "db"}, args...)
}

// resetFlags restores every flag to its default so tests do not leak
// values into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
