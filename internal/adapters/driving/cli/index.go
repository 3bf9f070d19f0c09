package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
)

// reporterSetter is implemented by index services that report progress.
type reporterSetter interface {
	SetReporter(driven.ProgressReporter)
}

var indexQuiet bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the search index",
	Long: `Rebuilds the full-text index from the content tree.

Every page selected by the search filter is indexed once per configured
language, using its translation where one exists. The previous index is
replaced.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

var updateLang string

var updateCmd = &cobra.Command{
	Use:   "update <route>",
	Short: "Re-index a single page",
	Long: `Replaces the index record of the page at route. A page that no longer
matches the search filter is only removed.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

var deleteLang string

var deleteCmd = &cobra.Command{
	Use:   "delete <route>",
	Short: "Remove a page from the index",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexQuiet, "quiet", "q", false, "do not print per-page progress")
	updateCmd.Flags().StringVarP(&updateLang, "lang", "l", "", "language to update (default: active language)")
	deleteCmd.Flags().StringVarP(&deleteLang, "lang", "l", "", "language to remove (default: active language)")
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	svc, err := requireIndex()
	if err != nil {
		return err
	}

	if setter, ok := svc.(reporterSetter); ok {
		if indexQuiet {
			setter.SetReporter(nil)
		} else {
			setter.SetReporter(newProgressPrinter(cmd.OutOrStdout()))
		}
	}

	report, err := svc.Build(cmd.Context())
	if err != nil {
		return fmt.Errorf("index failed: %w", describeError(err))
	}

	cmd.Printf("Indexed %d records (%d skipped) in %s\n",
		report.Records, report.Skipped, domain.FormatExecutionTime(report.Duration))
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	svc, err := requireIndex()
	if err != nil {
		return err
	}
	route := args[0]
	if route == "" {
		return errors.New("route is required")
	}

	if err := svc.Upsert(cmd.Context(), route, updateLang); err != nil {
		return fmt.Errorf("update failed: %w", describeError(err))
	}
	cmd.Printf("Updated %s\n", domain.CleanRoute(route))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	svc, err := requireIndex()
	if err != nil {
		return err
	}
	route := args[0]

	if err := svc.Remove(cmd.Context(), route, deleteLang); err != nil {
		return fmt.Errorf("delete failed: %w", describeError(err))
	}
	cmd.Printf("Removed %s\n", domain.CleanRoute(route))
	return nil
}
