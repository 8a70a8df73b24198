// pitrseek finds the last instant at which a Cloud Spanner database still
// satisfied a diagnostic query, using point-in-time reads over the
// database's version retention window.
//
// Usage:
//
//	# Find when rows disappeared from a table
//	pitrseek -p my-project -i prod -d orders query \
//	    -q "SELECT COUNT(*) > 0 FROM Orders WHERE Region = 'EU'"
//
//	# Show the recoverable time range
//	pitrseek -p my-project -i prod -d orders info
//
//	# List past searches
//	pitrseek history
//
//	# Store a default database
//	pitrseek config set spanner.project my-project
package main

import (
	"context"
	"os"

	"golang.org/x/term"

	"github.com/custodia-labs/pitrseek/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pitrseek/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pitrseek/internal/adapters/driving/cli"
	"github.com/custodia-labs/pitrseek/internal/connectors/google/spanner"
	"github.com/custodia-labs/pitrseek/internal/core/domain"
	"github.com/custodia-labs/pitrseek/internal/core/ports/driving"
	"github.com/custodia-labs/pitrseek/internal/core/services"
	"github.com/custodia-labs/pitrseek/internal/logger"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	logger.SetOutput(os.Stderr)
	cli.SetVersion(version)

	cli.SetConfig(&cli.Config{
		Connect:       connect,
		OpenSettings:  openSettings,
		OpenHistory:   openHistory,
		WatchSettings: file.Watch,
		Interactive:   interactive,
	})

	os.Exit(cli.Execute())
}

// interactive reports whether both ends of the terminal are attached, so
// the live progress view can read keys and redraw.
func interactive() bool {
	return term.IsTerminal(int(os.Stderr.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

func openSettings(configDir string) (driving.SettingsService, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, err
	}
	return services.NewSettingsService(store), nil
}

func openHistory(configDir string) (driving.HistoryService, error) {
	dir, err := file.ResolveDir(configDir)
	if err != nil {
		return nil, err
	}
	store, err := sqlite.NewStore(dir)
	if err != nil {
		return nil, err
	}
	return services.NewHistoryService(store.HistoryStore()), nil
}

func connect(ctx context.Context, settings domain.AppSettings) (*cli.Session, error) {
	client, err := spanner.New(ctx, spanner.ConfigFromSettings(settings))
	if err != nil {
		return nil, err
	}
	return &cli.Session{
		Finder:   services.NewFinderService(client),
		Database: services.NewDatabaseService(client),
		Close:    client.Close,
	}, nil
}
