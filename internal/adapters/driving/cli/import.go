package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
)

var (
	importJSON   bool
	importType   string
	importDryRun bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import metadata from Lisp source files",
	Long: `Reads each file, extracts header fields and stores them in the index.
The extracted attributes are printed for every file.

With --type the content type is forced instead of detected from the file
extension, and nothing is stored. --dry-run prints without storing.

Every file is attempted; the command fails if any import failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importJSON, "json", false, "output results as JSON")
	importCmd.Flags().StringVarP(&importType, "type", "t", "", "content type to import as (implies --dry-run)")
	importCmd.Flags().BoolVarP(&importDryRun, "dry-run", "n", false, "extract without storing")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if importService == nil {
		return errNotConfigured("import")
	}

	out := cmd.OutOrStdout()
	st := newStyles(out)

	views := make([]recordView, 0, len(args))
	failed := 0
	for _, path := range args {
		rec, err := importOne(cmd, path)
		if err != nil {
			failed++
			if importJSON {
				views = append(views, recordView{Path: path, Error: err.Error()})
			} else {
				fmt.Fprintf(out, "%s %s\n", st.render(st.err, "error:"), err)
			}
			continue
		}
		if importJSON {
			views = append(views, newRecordView(rec))
		} else {
			printRecord(out, st, rec)
		}
	}

	if importJSON {
		if err := writeJSON(out, views); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to import", failed, len(args))
	}
	return nil
}

// importOne imports or extracts a single file according to the flags.
func importOne(cmd *cobra.Command, path string) (*domain.Record, error) {
	ctx := cmd.Context()
	if importType == "" && !importDryRun {
		return importService.Import(ctx, path)
	}

	contentType := domain.ContentType(importType)
	if contentType == "" {
		contentType = domain.ContentTypeForPath(path)
	}
	attrs, err := importService.Extract(ctx, path, contentType)
	if err != nil {
		return nil, err
	}
	return &domain.Record{Path: path, ContentType: contentType, Attributes: attrs}, nil
}
