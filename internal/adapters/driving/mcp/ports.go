package mcp

import (
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driving"
)

// Ports aggregates the interfaces the MCP server uses.
type Ports struct {
	// Search runs queries. Required.
	Search driving.SearchService

	// Index refreshes single pages. Optional; without it the reindex
	// tool reports ErrIndexUnavailable.
	Index driving.IndexService

	// Pages backs the page resources. Optional.
	Pages driven.ContentRepository
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
