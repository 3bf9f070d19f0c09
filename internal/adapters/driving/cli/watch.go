package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagesearch/internal/adapters/driving/watcher"
)

var watchQuiet time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the index in step with the content tree",
	Long: `Watches the content directory and re-indexes pages as their files change.
Adding, removing or renaming a folder rebuilds the whole index.

Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchQuiet, "quiet-period", watcher.DefaultQuietPeriod,
		"wait this long for further changes before re-indexing")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	w, err := newWatcher(watchQuiet)
	if err != nil {
		return err
	}
	cmd.Printf("Watching %s (press Ctrl+C to stop)\n", contentTree.Root())
	if err := w.Run(cmd.Context()); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}

func newWatcher(quiet time.Duration) (*watcher.Watcher, error) {
	svc, err := requireIndex()
	if err != nil {
		return nil, err
	}
	if contentTree == nil {
		return nil, errors.New("content repository not configured")
	}
	return watcher.New(contentTree, svc, siteSettings.IndexLanguages(), watcher.WithQuietPeriod(quiet)), nil
}
