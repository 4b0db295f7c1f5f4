package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
)

var (
	searchLimit int
	searchKey   string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search imported metadata",
	Long: `Finds files whose header fields contain the query text.
Matching is a case-insensitive substring match on attribute values.
Use --key to search a single field, for example --key author.
Without a query, lists files that have any metadata.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultSearchLimit, "maximum number of results")
	searchCmd.Flags().StringVarP(&searchKey, "key", "k", "", "only match this attribute key")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errNotConfigured("search")
	}

	query := domain.SearchQuery{
		Key:   domain.Key(searchKey),
		Limit: searchLimit,
	}
	if len(args) == 1 {
		query.Text = args[0]
	}

	results, err := searchService.Search(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		views := make([]recordView, 0, len(results))
		for i := range results {
			v := newRecordView(&results[i].Record)
			for _, k := range results[i].MatchedKeys {
				v.MatchedKeys = append(v.MatchedKeys, k.String())
			}
			views = append(views, v)
		}
		return writeJSON(cmd.OutOrStdout(), views)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}

	st := newStyles(out)
	fmt.Fprintln(out, "Results:")
	fmt.Fprintln(out)
	for i := range results {
		r := &results[i]
		fmt.Fprintf(out, "  [%d] %s\n", i+1, st.render(st.title, r.Record.Path))
		for _, k := range r.MatchedKeys {
			fmt.Fprintf(out, "      %s %s\n", st.render(st.key, k.String()+":"), r.Record.Attributes[k])
		}
		fmt.Fprintln(out)
	}
	return nil
}
