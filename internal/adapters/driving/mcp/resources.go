package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for pagesearch resources.
	uriScheme = "pagesearch://"

	pagesURI = uriScheme + "pages"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         pagesURI,
		Name:        "pages",
		Description: "Published, routable pages of the site",
		MIMEType:    "application/json",
	}, s.handlePagesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: pagesURI + "{+route}",
		Name:        "page-content",
		Description: "Source of the page at a route",
		MIMEType:    "text/plain",
	}, s.handlePageContentResource)
}

// handlePagesResource lists the site's pages.
func (s *Server) handlePagesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Pages == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	pages, err := s.ports.Pages.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}

	type pageInfo struct {
		Route    string `json:"route"`
		Title    string `json:"title"`
		Language string `json:"language,omitempty"`
		URI      string `json:"uri"`
	}

	infos := make([]pageInfo, len(pages))
	for i, p := range pages {
		infos[i] = pageInfo{
			Route:    p.Route,
			Title:    p.Title,
			Language: p.Language,
			URI:      pagesURI + p.Route,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling pages: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handlePageContentResource returns the body of the page at a route.
func (s *Server) handlePageContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Pages == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	route := extractRoute(req.Params.URI)
	if route == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	page, err := s.ports.Pages.Page(ctx, route)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting page: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: mimeType(page),
			Text:     page.Body,
		}},
	}, nil
}

// extractRoute extracts the route from a URI like pagesearch://pages/blog/first.
func extractRoute(uri string) string {
	rest, ok := strings.CutPrefix(uri, pagesURI)
	if !ok || !strings.HasPrefix(rest, "/") || rest == "/" {
		return ""
	}
	return rest
}

func mimeType(page *domain.Page) string {
	switch page.Format {
	case ".html", ".htm":
		return "text/html"
	default:
		return "text/markdown"
	}
}
