package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage stored settings",
	Long: `View and change the settings stored in the configuration file.

Stored settings are used when the matching flag is not given:
  spanner.project            Google Cloud project
  spanner.instance           Cloud Spanner instance
  spanner.database           Cloud Spanner database
  spanner.endpoint           REST endpoint override (emulator)
  search.accuracy_ms         default accuracy in milliseconds
  search.probes_per_second   maximum request rate
  search.probe_burst         requests allowed back to back`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	settings, err := resolveSettings()
	if err != nil {
		return err
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Spanner]")
	cmd.Printf("  Project:  %s\n", orNotSet(settings.Spanner.Project))
	cmd.Printf("  Instance: %s\n", orNotSet(settings.Spanner.Instance))
	cmd.Printf("  Database: %s\n", orNotSet(settings.Spanner.Database))
	cmd.Printf("  Endpoint: %s\n", orDefault(settings.Spanner.Endpoint, "(Google Cloud)"))
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Accuracy: %s\n", settings.Search.Accuracy)
	cmd.Printf("  Rate:     %g probes/s (burst %d)\n", settings.Search.ProbesPerSecond, settings.Search.ProbeBurst)
	cmd.Println()

	if err := settings.Spanner.Target().Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'pitrseek config set spanner.<key> <value>' or pass --project, --instance and --database.")
	} else {
		cmd.Printf("Target: %s\n", settings.Spanner.Target().Path())
	}

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	svc, err := openSettings()
	if err != nil {
		return err
	}

	if err := svc.Set(args[0], args[1]); err != nil {
		return WrapExitError(ExitUsage, fmt.Sprintf("set %s", args[0]), err)
	}

	cmd.Printf("Set %s = %s\n", args[0], args[1])
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	svc, err := openSettings()
	if err != nil {
		return err
	}

	cmd.Println(svc.Path())
	return nil
}

func orNotSet(v string) string {
	return orDefault(v, "(not set)")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
