package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
	searchType  string
	searchLangs string
	searchFuzzy bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed pages",
	Long: `Searches the page index.

Quoted text is matched as a phrase. Queries containing "or", parentheses
or "-" are run as boolean queries unless --type basic is given. Results are
limited to the active language unless --langs lists others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default from configuration)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "", "search type: auto, basic or boolean")
	searchCmd.Flags().StringVar(&searchLangs, "langs", "", "comma-separated languages to accept")
	searchCmd.Flags().BoolVar(&searchFuzzy, "fuzzy", false, "enable approximate matching")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	req := searchService.Defaults().WithOverrides(searchLangs, domain.SearchType(strings.ToLower(searchType)))
	req.Query = strings.Join(args, " ")
	if !req.SearchType.IsValid() {
		return fmt.Errorf("%w: unknown search type %q", domain.ErrInvalidInput, searchType)
	}
	if searchLimit > 0 {
		req.Limit = searchLimit
	}
	if searchFuzzy {
		req.Fuzzy = true
	}
	req.JSON = searchJSON

	if searchJSON {
		data, err := searchService.SearchJSON(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("search failed: %w", describeError(err))
		}
		cmd.Println(string(data))
		return nil
	}

	envelope, err := searchService.Search(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("search failed: %w", describeError(err))
	}
	outputSearchTable(cmd, envelope)
	return nil
}

func outputSearchTable(cmd *cobra.Command, envelope *domain.ResultEnvelope) {
	if envelope.NumberOfHits == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Printf("Results: %d (%s)\n", envelope.NumberOfHits, domain.FormatExecutionTime(envelope.ExecutionTime))
	cmd.Println()
	for i, page := range envelope.Hits {
		title := page.Title
		if title == "" {
			title = page.Route
		}
		cmd.Printf("  [%d] %s\n", i+1, title)
		cmd.Printf("      %s", page.Route)
		if page.Language != "" {
			cmd.Printf(" [%s]", page.Language)
		}
		cmd.Println()
	}
}
