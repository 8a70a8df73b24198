package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pitrseek/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pitrseek/internal/core/domain"
	"github.com/custodia-labs/pitrseek/internal/logger"
)

var (
	queryText       string
	queryStart      string
	queryEnd        string
	queryAccuracyMS int
	queryJSON       bool
	queryNoProgress bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Find the last timestamp at which a diagnostic query returns true",
	Long: `Bisects the version history of the database for the latest instant at
which the diagnostic query returns true in the first column of its first row.

The query must be true at the start of the window and false at its end.
A missing table or column, or a timestamp too old to read, counts as false.

The window defaults to the earliest version time of the database and the
current database time.`,
	Example: `  pitrseek -p my-project -i prod -d orders query \
    -q "SELECT COUNT(*) > 0 FROM Orders WHERE Region = 'EU'"

  pitrseek query -q "SELECT TRUE FROM Customers LIMIT 1" \
    -s 2024-03-01T10:00:00Z -e 2024-03-01T12:00:00Z -a 100`,
	Args: cobra.NoArgs,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "diagnostic SQL query returning a single BOOL (required)")
	queryCmd.Flags().StringVarP(&queryStart, "start", "s", "", "window start, RFC 3339 (default earliest version time)")
	queryCmd.Flags().StringVarP(&queryEnd, "end", "e", "", "window end, RFC 3339 (default database time)")
	queryCmd.Flags().IntVarP(&queryAccuracyMS, "accuracy", "a", 0,
		"accuracy in milliseconds (default search.accuracy_ms, 10)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the result as JSON")
	queryCmd.Flags().BoolVar(&queryNoProgress, "no-progress", false, "do not show search progress")
	rootCmd.AddCommand(queryCmd)
}

// queryOutput is the JSON form of a search result.
type queryOutput struct {
	*domain.SearchResult
	Timestamp   string   `json:"timestamp"`
	Database    string   `json:"database"`
	WindowStart string   `json:"window_start"`
	WindowEnd   string   `json:"window_end"`
	AccuracyMS  int64    `json:"accuracy_ms"`
	Commands    []string `json:"commands"`
}

func runQuery(cmd *cobra.Command, _ []string) error {
	req, start, end, err := parseQueryFlags(cmd.Flags().Changed("accuracy"))
	if err != nil {
		return err
	}

	settings, err := resolveSettings()
	if err != nil {
		return err
	}
	if req.Accuracy == 0 {
		req.Accuracy = settings.Search.Accuracy
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	session, err := connect(ctx, settings)
	if err != nil {
		return err
	}
	defer closeSession(session)

	info, err := session.Database.Describe(ctx)
	if err != nil {
		return err
	}
	logger.Info("Earliest recovery time: %s", domain.FormatTimestamp(info.EarliestVersionTime))
	logger.Info("Retention period: %s", info.RetentionPeriod)

	req.Window, err = session.Database.ResolveWindow(ctx, start, end)
	if err != nil {
		return err
	}

	interrupted, stopSignals := notifyInterrupt()
	defer stopSignals()

	target := settings.Spanner.Target()
	mode := selectProgress()
	reporter, finish := startProgress(mode, target.Path(), cmd.ErrOrStderr())

	// Probes run on ctx, not on interrupted: a signal stops the search at
	// the next report instead of failing the probe in flight.
	started := time.Now()
	result, err := session.Finder.Find(ctx, req, interruptible(interrupted, reporter))
	finish()
	recordSearch(ctx, domain.NewSearchRecord(target, req, started, time.Now(), result, err))
	if err != nil {
		return err
	}

	if result.InconclusiveProbes > 0 {
		logger.Warn("%d probe(s) failed and were treated as false; the timestamp may be earlier than the true boundary",
			result.InconclusiveProbes)
	}

	if queryJSON {
		return outputQueryJSON(cmd, target, result)
	}
	outputQueryText(cmd, target, result, mode == progressLive)
	return nil
}

// parseQueryFlags validates the query flags. The returned request has no
// window yet, and a zero accuracy when --accuracy was not given.
// parseQueryFlags reads the query flags. An accuracy of 0 means "use the
// configured default" only when --accuracy was not given.
func parseQueryFlags(accuracySet bool) (req domain.SearchRequest, start, end *time.Time, err error) {
	if strings.TrimSpace(queryText) == "" {
		return req, nil, nil, NewExitError(ExitUsage, "--query is required")
	}
	if queryAccuracyMS < 0 || (accuracySet && queryAccuracyMS == 0) {
		return req, nil, nil, NewExitError(ExitUsage, "--accuracy must be a positive number of milliseconds")
	}

	if start, err = parseTimeFlag("start", queryStart); err != nil {
		return req, nil, nil, err
	}
	if end, err = parseTimeFlag("end", queryEnd); err != nil {
		return req, nil, nil, err
	}

	req.Query = queryText
	req.Accuracy = time.Duration(queryAccuracyMS) * time.Millisecond
	return req, start, end, nil
}

func parseTimeFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	ts, err := domain.ParseTimestamp(value)
	if err != nil {
		return nil, WrapExitError(ExitUsage, "--"+name, err)
	}
	return &ts, nil
}

func selectProgress() progressMode {
	switch {
	case queryJSON || queryNoProgress:
		return progressNone
	case interactive():
		return progressLive
	default:
		return progressLines
	}
}

func outputQueryJSON(cmd *cobra.Command, target domain.DatabaseTarget, result *domain.SearchResult) error {
	ts := domain.FormatTimestamp(result.Timestamp)
	out := queryOutput{
		SearchResult: result,
		Timestamp:    ts,
		Database:     target.Path(),
		WindowStart:  domain.FormatTimestamp(result.Window.Start),
		WindowEnd:    domain.FormatTimestamp(result.Window.End),
		AccuracyMS:   result.Accuracy.Milliseconds(),
		Commands: []string{
			backupCommand(target, newBackupID(), ts),
			executeSQLCommand(target, ts),
		},
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryText(cmd *cobra.Command, target domain.DatabaseTarget, result *domain.SearchResult, styled bool) {
	ts := domain.FormatTimestamp(result.Timestamp)

	if styled {
		cmd.Println(styles.DefaultStyles().Result.Render("Found closest recovery timestamp: " + ts))
	} else {
		cmd.Printf("Found closest recovery timestamp: %s\n", ts)
	}
	cmd.Printf("(%d probes of %d, accuracy %s)\n", result.Probes, result.Budget, result.Accuracy)
	cmd.Println()
	cmd.Println("To back up the database at this point in time:")
	cmd.Printf("  %s\n", backupCommand(target, newBackupID(), ts))
	cmd.Println("To execute a query at this point in time:")
	cmd.Printf("  %s\n", executeSQLCommand(target, ts))
}
