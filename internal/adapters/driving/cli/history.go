package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
	"github.com/custodia-labs/pitrseek/internal/core/ports/driving"
	"github.com/custodia-labs/pitrseek/internal/logger"
)

var (
	historyLimit int
	historyAll   bool
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past searches",
	Long: `Lists recent searches, newest first. When a database is selected by flags
or configuration only its searches are listed; --all lists every database.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the search history",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of searches to list")
	historyCmd.Flags().BoolVar(&historyAll, "all", false, "list searches against every database")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output the history as JSON")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

// historyEntry is the JSON form of a search record.
type historyEntry struct {
	ID                 int64  `json:"id"`
	Database           string `json:"database"`
	Query              string `json:"query"`
	WindowStart        string `json:"window_start"`
	WindowEnd          string `json:"window_end"`
	AccuracyMS         int64  `json:"accuracy_ms"`
	StartedAt          string `json:"started_at"`
	DurationMS         int64  `json:"duration_ms"`
	Timestamp          string `json:"timestamp,omitempty"`
	Probes             int    `json:"probes"`
	Budget             int    `json:"budget"`
	InconclusiveProbes int    `json:"inconclusive_probes"`
	Error              string `json:"error,omitempty"`
}

func openHistory() (driving.HistoryService, error) {
	if cliConfig == nil || cliConfig.OpenHistory == nil {
		return nil, errors.New("search history not configured")
	}
	return cliConfig.OpenHistory(flagConfigDir)
}

// recordSearch adds rec to the history, also when ctx is already canceled.
// A history failure never fails the search.
func recordSearch(ctx context.Context, rec *domain.SearchRecord) {
	history, err := openHistory()
	if err != nil {
		logger.Debug("Search not recorded: %v", err)
		return
	}
	defer closeHistory(history)

	if err := history.Record(context.WithoutCancel(ctx), rec); err != nil {
		logger.Warn("Could not record search: %v", err)
	}
}

func closeHistory(h driving.HistoryService) {
	if err := h.Close(); err != nil {
		logger.Debug("Closing history: %v", err)
	}
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyLimit <= 0 {
		return NewExitError(ExitUsage, "--limit must be positive")
	}

	database := ""
	if !historyAll {
		settings, err := resolveSettings()
		if err != nil {
			return err
		}
		if target := settings.Spanner.Target(); target.Validate() == nil {
			database = target.Path()
		}
	}

	history, err := openHistory()
	if err != nil {
		return err
	}
	defer closeHistory(history)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	records, err := history.Recent(ctx, database, historyLimit)
	if err != nil {
		return err
	}

	if historyJSON {
		return outputHistoryJSON(cmd, records)
	}

	if len(records) == 0 {
		cmd.Println("No searches recorded.")
		return nil
	}

	for i := range records {
		printRecord(cmd, &records[i], database == "")
	}
	cmd.Printf("Total: %d searches\n", len(records))
	return nil
}

func printRecord(cmd *cobra.Command, rec *domain.SearchRecord, showDatabase bool) {
	cmd.Printf("#%d  %s  (%s)\n", rec.ID, rec.StartedAt.Local().Format("2006-01-02 15:04:05"),
		rec.Duration().Round(time.Millisecond))
	if showDatabase {
		cmd.Printf("    Database: %s\n", rec.Database)
	}
	cmd.Printf("    Query:    %s\n", rec.Query)
	cmd.Printf("    Window:   %s\n", rec.Window)
	if rec.Succeeded() {
		cmd.Printf("    Result:   %s (%d probes of %d, accuracy %s)\n",
			domain.FormatTimestamp(rec.Timestamp), rec.Probes, rec.Budget, rec.Accuracy)
	} else {
		cmd.Printf("    Failed:   %s\n", rec.Error)
	}
	cmd.Println()
}

func outputHistoryJSON(cmd *cobra.Command, records []domain.SearchRecord) error {
	entries := make([]historyEntry, 0, len(records))
	for i := range records {
		rec := &records[i]
		entry := historyEntry{
			ID:                 rec.ID,
			Database:           rec.Database,
			Query:              rec.Query,
			WindowStart:        domain.FormatTimestamp(rec.Window.Start),
			WindowEnd:          domain.FormatTimestamp(rec.Window.End),
			AccuracyMS:         rec.Accuracy.Milliseconds(),
			StartedAt:          domain.FormatTimestamp(rec.StartedAt),
			DurationMS:         rec.Duration().Milliseconds(),
			Probes:             rec.Probes,
			Budget:             rec.Budget,
			InconclusiveProbes: rec.InconclusiveProbes,
			Error:              rec.Error,
		}
		if !rec.Timestamp.IsZero() {
			entry.Timestamp = domain.FormatTimestamp(rec.Timestamp)
		}
		entries = append(entries, entry)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	history, err := openHistory()
	if err != nil {
		return err
	}
	defer closeHistory(history)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := history.Clear(ctx); err != nil {
		return err
	}
	cmd.Println("Search history cleared.")
	return nil
}
