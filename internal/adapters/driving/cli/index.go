package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var indexQuiet bool

var indexCmd = &cobra.Command{
	Use:   "index <dir>",
	Short: "Import every Lisp file under a directory",
	Long: `Walks a directory tree and imports every Lisp source file in parallel.
Version control and node_modules directories and hidden files are skipped.
Records for files that no longer exist under the directory are removed.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexQuiet, "quiet", "q", false, "only print the summary")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errNotConfigured("index")
	}

	out := cmd.OutOrStdout()
	st := newStyles(out)

	progress := func(path string, err error) {
		switch {
		case err != nil:
			fmt.Fprintf(out, "%s %v\n", st.render(st.err, "failed"), err)
		case !indexQuiet:
			fmt.Fprintf(out, "%s %s\n", st.render(st.success, "imported"), path)
		}
	}

	stats, err := indexService.Index(cmd.Context(), args[0], progress)
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, st.render(st.title, "Index complete"))
	fmt.Fprintf(out, "  Scanned:  %d\n", stats.Scanned)
	fmt.Fprintf(out, "  Imported: %d\n", stats.Imported)
	fmt.Fprintf(out, "  Failed:   %d\n", stats.Failed)
	fmt.Fprintf(out, "  Skipped:  %d\n", stats.Skipped)
	fmt.Fprintf(out, "  Pruned:   %d\n", stats.Pruned)
	fmt.Fprintf(out, "  Duration: %s\n", stats.Duration.Round(time.Millisecond))
	return nil
}
