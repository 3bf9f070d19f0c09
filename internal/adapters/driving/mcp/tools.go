package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query      string `json:"query" jsonschema:"the search query; quote phrases, use AND/OR/- for boolean queries"`
	Langs      string `json:"langs,omitempty" jsonschema:"comma-separated language codes to accept (default: active language)"`
	SearchType string `json:"search_type,omitempty" jsonschema:"auto, basic or boolean (default from configuration)"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of results (default from configuration)"`
	Fuzzy      bool   `json:"fuzzy,omitempty" jsonschema:"enable approximate term matching"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	ExecutionTime string             `json:"execution_time"`
	Count         int                `json:"count"`
	Results       []SearchResultPage `json:"results"`
}

// SearchResultPage represents a single hit.
type SearchResultPage struct {
	Route    string `json:"route"`
	Language string `json:"language,omitempty"`
	Title    string `json:"title"`
	Path     string `json:"path"`
}

// ReindexInput is the input schema for the reindex_page tool.
type ReindexInput struct {
	Route string `json:"route" jsonschema:"route of the page, e.g. /blog/first"`
	Lang  string `json:"lang,omitempty" jsonschema:"language to refresh (default: active language)"`
}

// ReindexOutput is the output schema for the reindex_page tool.
type ReindexOutput struct {
	ID string `json:"id"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Full-text search over the site's pages",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reindex_page",
		Description: "Refresh the index record of one page after it changed",
	}, s.handleReindex)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	req := s.ports.Search.Defaults().WithOverrides(input.Langs, domain.SearchType(input.SearchType))
	req.Query = input.Query
	if input.Limit > 0 {
		req.Limit = input.Limit
	}
	if input.Fuzzy {
		req.Fuzzy = true
	}
	if !req.SearchType.IsValid() {
		return nil, SearchOutput{}, fmt.Errorf("%w: search_type %q", domain.ErrInvalidInput, req.SearchType)
	}

	envelope, err := s.ports.Search.Search(ctx, req)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		ExecutionTime: domain.FormatExecutionTime(envelope.ExecutionTime),
		Count:         envelope.NumberOfHits,
		Results:       make([]SearchResultPage, 0, len(envelope.Hits)),
	}
	for _, page := range envelope.Hits {
		output.Results = append(output.Results, SearchResultPage{
			Route:    page.Route,
			Language: page.Language,
			Title:    page.Title,
			Path:     page.FilePath(),
		})
	}

	return nil, output, nil
}

// handleReindex handles the reindex_page tool invocation.
func (s *Server) handleReindex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReindexInput,
) (*mcp.CallToolResult, ReindexOutput, error) {
	if s.ports.Index == nil {
		return nil, ReindexOutput{}, ErrIndexUnavailable
	}
	if input.Route == "" {
		return nil, ReindexOutput{}, fmt.Errorf("%w: route is required", domain.ErrInvalidInput)
	}

	if err := s.ports.Index.Upsert(ctx, input.Route, input.Lang); err != nil {
		return nil, ReindexOutput{}, err
	}

	lang := input.Lang
	if lang == "" {
		lang = s.ports.Search.Defaults().Langs
	}
	return nil, ReindexOutput{ID: domain.IndexID(lang, domain.CleanRoute(input.Route))}, nil
}
