package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lispmeta/internal/core/ports/driving"
)

var watchNoIndex bool

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Keep the index current while files change",
	Long: `Indexes a directory, then re-imports Lisp files as they are created or
modified and removes records for deleted files. Stops on interrupt.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchNoIndex, "no-index", false, "skip the initial full index")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchService == nil {
		return errNotConfigured("watch")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	st := newStyles(out)

	if !watchNoIndex {
		if indexService == nil {
			return errNotConfigured("index")
		}
		stats, err := indexService.Index(ctx, args[0], nil)
		if err != nil {
			return fmt.Errorf("index failed: %w", err)
		}
		fmt.Fprintf(out, "Indexed %d files (%d failed, %d pruned)\n", stats.Imported, stats.Failed, stats.Pruned)
	}

	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", args[0])
	err := watchService.Watch(ctx, args[0], func(e driving.WatchEvent) {
		switch e.Kind {
		case driving.WatchImported:
			fmt.Fprintf(out, "%s %s\n", st.render(st.success, "imported"), e.Path)
		case driving.WatchRemoved:
			fmt.Fprintf(out, "%s %s\n", st.render(st.muted, "removed"), e.Path)
		case driving.WatchFailed:
			fmt.Fprintf(out, "%s %v\n", st.render(st.err, "failed"), e.Err)
		}
	})
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
