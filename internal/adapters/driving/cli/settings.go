package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change importer, indexing and logging settings.
Settings are stored in config.toml in the configuration directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a single setting.

Keys:
  import.max_file_size     largest file read, in bytes
  import.scan_mode         all | header
  import.first_match       true keeps the first value found for a field
  import.fallback_charset  IANA charset for non-UTF-8 files ("" to disable)
  index.workers            files imported in parallel
  index.rate_per_second    import rate cap, 0 for unlimited
  log.level                verbose | debug | off`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Import]")
	cmd.Printf("  Max file size: %d bytes\n", settings.Import.MaxFileSize)
	cmd.Printf("  Scan mode: %s\n", settings.Import.ScanMode.Description())
	if settings.Import.FirstMatchWins {
		cmd.Println("  Repeated fields: first value wins")
	} else {
		cmd.Println("  Repeated fields: last value wins")
	}
	charset := settings.Import.FallbackCharset
	if charset == "" {
		charset = "(none)"
	}
	cmd.Printf("  Fallback charset: %s\n", charset)
	cmd.Println()

	cmd.Println("[Index]")
	cmd.Printf("  Workers: %d\n", settings.Index.Workers)
	if settings.Index.RatePerSecond > 0 {
		cmd.Printf("  Rate limit: %g files/s\n", settings.Index.RatePerSecond)
	} else {
		cmd.Println("  Rate limit: unlimited")
	}
	cmd.Println()

	cmd.Println("[Log]")
	cmd.Printf("  Level: %s\n", settings.Log.Level)

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}

	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}
