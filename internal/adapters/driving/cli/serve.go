package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/pagesearch/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/pagesearch/internal/adapters/driving/watcher"
)

var (
	serveAddr  string
	serveWatch bool
	serveMCP   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve search over HTTP",
	Long: `Starts an HTTP server answering GET /search?q=... with the JSON result
envelope. Prometheus metrics are exposed on /metrics and a liveness probe
on /healthz.

With --watch the content directory is watched at the same time and the
index is kept current while serving. With --mcp the MCP streamable HTTP
transport is served on /mcp as well.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8080", "listen address")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "watch the content directory while serving")
	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "also serve the MCP transport on /mcp")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	var opts []httpapi.Option
	if serveMCP {
		mcpServer, err := newMCPServer()
		if err != nil {
			return err
		}
		opts = append(opts, httpapi.WithMount("/mcp", mcpServer.Handler()))
	}

	server, err := httpapi.NewServer(searchService, opts...)
	if err != nil {
		return err
	}

	var w *watcher.Watcher
	if serveWatch {
		if w, err = newWatcher(watchQuiet); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return server.Run(ctx, serveAddr)
	})
	if w != nil {
		g.Go(func() error {
			return w.Run(ctx)
		})
	}

	cmd.Printf("Serving search on %s\n", serveAddr)
	if err := g.Wait(); err != nil {
		return fmt.Errorf("serve failed: %w", err)
	}
	return nil
}
