// Package cli implements the pagesearch command line.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagesearch/internal/adapters/driving/watcher"
	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driving"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// ContentTree is the content repository as seen by the commands: readable
// pages plus what the watcher needs.
type ContentTree interface {
	driven.ContentRepository
	watcher.Source
}

// Services are the dependencies the commands run against.
type Services struct {
	Search   driving.SearchService
	Index    driving.IndexService
	Config   driven.ConfigStore
	Settings domain.Settings
	Content  ContentTree

	// Close releases resources after the command finished. Optional.
	Close func() error
}

// Bootstrap builds the services from the configuration file at path.
// An empty path selects the default location.
type Bootstrap func(ctx context.Context, path string) (*Services, error)

var (
	searchService driving.SearchService
	indexService  driving.IndexService
	configStore   driven.ConfigStore
	siteSettings  domain.Settings
	contentTree   ContentTree
	closeServices func() error

	bootstrap Bootstrap
)

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "pagesearch",
	Short: "Full-text search for a tree of content pages",
	Long: `pagesearch indexes a folder of Markdown and HTML pages, including their
per-language translations, and answers full-text queries against the index.

Build the index with "pagesearch index", query it with "pagesearch search",
keep it current with "pagesearch watch" or serve it with "pagesearch serve".`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"configuration file (default ~/.pagesearch/config.toml)")
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap sets the function that builds the services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs ready-made services, bypassing the bootstrap.
func SetServices(s *Services) {
	searchService = s.Search
	indexService = s.Index
	configStore = s.Config
	siteSettings = s.Settings
	contentTree = s.Content
	closeServices = s.Close
}

// Execute runs the root command and releases the services afterwards.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	return errors.Join(err, teardown())
}

// setup enables logging and runs the bootstrap for commands that need services.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if bootstrap == nil || cmd == versionCmd {
		return nil
	}

	services, err := bootstrap(cmd.Context(), configPath)
	if err != nil {
		return err
	}
	SetServices(services)
	return nil
}

func teardown() error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

// requireIndex returns the index service or an error when it is not wired.
func requireIndex() (driving.IndexService, error) {
	if indexService == nil {
		return nil, errors.New("index service not configured")
	}
	return indexService, nil
}

// describeError adds a hint for errors users can fix themselves.
func describeError(err error) error {
	switch {
	case errors.Is(err, domain.ErrIndexNotFound):
		return fmt.Errorf("%w (run \"pagesearch index\" first)", err)
	case errors.Is(err, domain.ErrConfiguration):
		return fmt.Errorf("%w (see \"pagesearch settings\")", err)
	default:
		return err
	}
}
