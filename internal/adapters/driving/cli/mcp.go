package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pitrseek/internal/adapters/driving/mcp"
	"github.com/custodia-labs/pitrseek/internal/core/domain"
	"github.com/custodia-labs/pitrseek/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search for
recovery timestamps.

The server offers the tools find_recovery_timestamp and describe_database,
and the search history as pitrseek://history resources. Tool calls that
leave out the project, instance or database use the flags and stored
settings this command was started with.

By default the server communicates over stdio. Use --port to serve HTTP
instead.

Examples:
  # Stdio mode
  pitrseek -p my-project -i prod mcp serve

  # HTTP mode
  pitrseek mcp serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().Int("port", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, closeServer, err := newMCPServer()
	if err != nil {
		return err
	}
	defer closeServer()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	watchSettings(ctx, server)

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}

// newMCPServer builds the server from the resolved settings. The returned
// function closes the history.
func newMCPServer() (*mcp.Server, func(), error) {
	settings, err := resolveSettings()
	if err != nil {
		return nil, nil, err
	}
	if cliConfig == nil || cliConfig.Connect == nil {
		return nil, nil, fmt.Errorf("database connector not configured")
	}

	ports := &mcp.Ports{
		Open:            mcpOpener(*settings),
		DefaultTarget:   settings.Spanner.Target(),
		DefaultAccuracy: settings.Search.Accuracy,
		Version:         version,
	}

	closeServer := func() {}
	if history, err := openHistory(); err != nil {
		logger.Debug("MCP searches not recorded: %v", err)
	} else {
		ports.History = history
		closeServer = func() { closeHistory(history) }
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		closeServer()
		return nil, nil, err
	}
	return server, closeServer, nil
}

// mcpOpener connects to the target of a tool call with the remaining
// settings unchanged.
func mcpOpener(settings domain.AppSettings) mcp.Opener {
	return func(ctx context.Context, target domain.DatabaseTarget) (*mcp.Database, error) {
		s := settings
		s.Spanner.Project = target.Project
		s.Spanner.Instance = target.Instance
		s.Spanner.Database = target.Database

		session, err := cliConfig.Connect(ctx, s)
		if err != nil {
			return nil, err
		}
		return &mcp.Database{
			Finder:   session.Finder,
			Database: session.Database,
			Close:    session.Close,
		}, nil
	}
}

// watchSettings keeps the server defaults in step with the settings file.
// Flags given on the command line still take precedence.
func watchSettings(ctx context.Context, server *mcp.Server) {
	if cliConfig == nil || cliConfig.WatchSettings == nil {
		return
	}
	svc, err := openSettings()
	if err != nil {
		logger.Debug("Settings not watched: %v", err)
		return
	}

	err = cliConfig.WatchSettings(ctx, svc.Path(), func() {
		settings, err := resolveSettings()
		if err != nil {
			logger.Warn("Reloading settings: %v", err)
			return
		}
		server.SetDefaults(settings.Spanner.Target(), settings.Search.Accuracy)
		logger.Info("Settings reloaded")
	})
	if err != nil {
		logger.Warn("Settings changes will not be picked up: %v", err)
	}
}
