// Package cli implements the pitrseek command line.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
	"github.com/custodia-labs/pitrseek/internal/core/ports/driving"
	"github.com/custodia-labs/pitrseek/internal/logger"
)

// EndpointEnv overrides the Spanner endpoint, e.g. the emulator's REST
// gateway at localhost:9020.
const EndpointEnv = "PITRSEEK_SPANNER_ENDPOINT"

// version is set at build time.
var version = "dev"

// Session is an open connection to one database and the services bound
// to it.
type Session struct {
	Finder   driving.TimestampFinder
	Database driving.DatabaseService
	Close    func() error
}

// Connector opens a Session for the resolved settings.
type Connector func(ctx context.Context, settings domain.AppSettings) (*Session, error)

// SettingsOpener opens the settings store in configDir, or in the default
// location when configDir is empty.
type SettingsOpener func(configDir string) (driving.SettingsService, error)

// HistoryOpener opens the search history kept in configDir, or in the
// default location when configDir is empty.
type HistoryOpener func(configDir string) (driving.HistoryService, error)

// Config holds the dependencies the commands run with.
type Config struct {
	Connect      Connector
	OpenSettings SettingsOpener

	// OpenHistory is optional. Without it searches are not recorded.
	OpenHistory HistoryOpener

	// WatchSettings is optional. It calls onChange whenever the settings
	// file at path changes, until ctx is done.
	WatchSettings func(ctx context.Context, path string, onChange func()) error

	// Interactive reports whether the live progress view can be shown.
	Interactive func() bool
}

// cliConfig holds the current configuration.
var cliConfig *Config

// SetConfig sets the dependencies for all commands.
func SetConfig(config *Config) {
	cliConfig = config
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var (
	flagProject   string
	flagInstance  string
	flagDatabase  string
	flagEndpoint  string
	flagConfigDir string
	flagDebug     int
)

var rootCmd = &cobra.Command{
	Use:   "pitrseek",
	Short: "Find the last moment a Cloud Spanner database was still healthy",
	Long: `pitrseek searches the version history of a Cloud Spanner database for the
latest instant at which a diagnostic query still returned true.

Use it after a bad schema change or an erroneous DELETE to find the
timestamp to back up from or read at.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetLevel(logger.LevelFromCount(flagDebug))
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagProject, "project", "p", "", "Google Cloud project")
	pf.StringVarP(&flagInstance, "instance", "i", "", "Cloud Spanner instance")
	pf.StringVarP(&flagDatabase, "database", "d", "", "Cloud Spanner database")
	pf.StringVar(&flagEndpoint, "endpoint", "", "Spanner REST endpoint override (e.g. emulator localhost:9020)")
	pf.StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default ~/.pitrseek)")
	pf.CountVar(&flagDebug, "debug", "debug logging, repeat for trace")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitUsage, "invalid flags", err)
	})
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	code := ExitCode(err)
	if code != ExitInterrupted {
		logger.Error("%v", err)
	} else {
		logger.Warn("Search canceled")
	}
	return code
}

// openSettings opens the settings store selected by --config-dir.
func openSettings() (driving.SettingsService, error) {
	if cliConfig == nil || cliConfig.OpenSettings == nil {
		return nil, errors.New("settings service not configured")
	}
	svc, err := cliConfig.OpenSettings(flagConfigDir)
	if err != nil {
		return nil, WrapExitError(ExitUsage, "open configuration", err)
	}
	return svc, nil
}

// resolveSettings merges settings by precedence: flags, then environment,
// then the configuration file, then defaults.
func resolveSettings() (*domain.AppSettings, error) {
	svc, err := openSettings()
	if err != nil {
		return nil, err
	}

	settings, err := svc.Get()
	if err != nil {
		return nil, WrapExitError(ExitUsage, "read configuration", err)
	}

	if env := os.Getenv(EndpointEnv); env != "" {
		settings.Spanner.Endpoint = env
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{flagProject, &settings.Spanner.Project},
		{flagInstance, &settings.Spanner.Instance},
		{flagDatabase, &settings.Spanner.Database},
		{flagEndpoint, &settings.Spanner.Endpoint},
	}
	for _, o := range overrides {
		if o.flag != "" {
			*o.dst = o.flag
		}
	}

	return settings, nil
}

// connect resolves the target database and opens a session to it.
func connect(ctx context.Context, settings *domain.AppSettings) (*Session, error) {
	if err := settings.Spanner.Target().Validate(); err != nil {
		return nil, WrapExitError(ExitUsage,
			"no database selected (use --project, --instance and --database or 'pitrseek config set')", err)
	}
	if cliConfig == nil || cliConfig.Connect == nil {
		return nil, errors.New("database connector not configured")
	}

	logger.Info("Connecting to database: %s", settings.Spanner.Target().Path())
	if settings.Spanner.Endpoint != "" {
		logger.Debug("Using endpoint %s", settings.Spanner.Endpoint)
	}

	session, err := cliConfig.Connect(ctx, *settings)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func closeSession(s *Session) {
	if s == nil || s.Close == nil {
		return
	}
	if err := s.Close(); err != nil {
		logger.Debug("Closing session: %v", err)
	}
}

func interactive() bool {
	return cliConfig != nil && cliConfig.Interactive != nil && cliConfig.Interactive()
}
