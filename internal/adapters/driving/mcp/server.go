package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pagesearch/internal/logger"
)

// Name and Version identify the server to MCP clients.
const (
	Name    = "pagesearch"
	Version = "0.1.0"
)

// shutdownTimeout bounds the HTTP shutdown once the context is cancelled.
const shutdownTimeout = 5 * time.Second

// instructions tell clients how the tools fit together.
const instructions = `Use "search" to find pages of the site by full text. Results carry the
page route and language; read a page with the pagesearch://pages{route} resource.
After editing a page, call "reindex_page" with its route so searches see the change.`

// Server exposes the page index to MCP clients.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a server over ports. Only the search port is required.
func NewServer(ports *Ports) (*Server, error) {
	if ports == nil {
		return nil, ErrMissingSearchService
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    Name,
		Version: Version,
	}
	opts := &mcp.ServerOptions{
		Instructions: instructions,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, opts),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves a single client over stdio until ctx is cancelled or the
// client disconnects.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("MCP server on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler of the server, for mounting
// next to other endpoints.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("MCP server shutdown: %v", err)
		}
	}()

	logger.Info("MCP server listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
