package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Show the stored metadata for a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errNotConfigured("search")
	}

	rec, err := searchService.Get(cmd.Context(), args[0])
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s has not been imported", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to get record: %w", err)
	}

	if showJSON {
		return writeJSON(cmd.OutOrStdout(), newRecordView(rec))
	}
	printRecord(cmd.OutOrStdout(), newStyles(cmd.OutOrStdout()), rec)
	return nil
}
