package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the recoverable time range of the database",
	Long: `Prints the database state, its earliest version time and version
retention period, and the current database time. Any instant between the
earliest version time and now can be searched.`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, _ []string) error {
	settings, err := resolveSettings()
	if err != nil {
		return err
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
	now, err := session.Database.ServerTime(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Database:          %s\n", info.Name)
	cmd.Printf("State:             %s\n", info.State)
	cmd.Printf("Retention period:  %s\n", info.RetentionPeriod)
	cmd.Printf("Earliest version:  %s\n", formatOptional(info.EarliestVersionTime))
	cmd.Printf("Database time:     %s\n", domain.FormatTimestamp(now))
	if !info.EarliestVersionTime.IsZero() {
		cmd.Printf("Recoverable span:  %s\n", now.Sub(info.EarliestVersionTime).Round(time.Second))
	}
	return nil
}

func formatOptional(t time.Time) string {
	if t.IsZero() {
		return "(unknown)"
	}
	return domain.FormatTimestamp(t)
}
