// Package mcp provides an MCP (Model Context Protocol) server adapter for pagesearch.
// It lets AI assistants query the page index and read pages of the content tree.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrIndexUnavailable is returned by the reindex tool when no index service is wired.
var ErrIndexUnavailable = errors.New("mcp: index service is not available")
