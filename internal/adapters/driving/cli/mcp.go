package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagesearch/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server offers a "search" tool over the page index, a "reindex_page"
tool and the site's pages as resources (pagesearch://pages).

By default, the server communicates over stdio using JSON-RPC. Use --port
to start an HTTP server instead.

Examples:
  # Stdio mode (default, for desktop assistants)
  pagesearch mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  pagesearch mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "pagesearch": {
        "command": "/path/to/pagesearch",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, err := newMCPServer()
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}

// newMCPServer builds the MCP server over the configured services.
func newMCPServer() (*mcp.Server, error) {
	ports := &mcp.Ports{
		Search: searchService,
		Index:  indexService,
	}
	if contentTree != nil {
		ports.Pages = contentTree
	}
	return mcp.NewServer(ports)
}
