package mcp

import (
	"context"
	"encoding/json"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	envelope *domain.ResultEnvelope
	last     domain.QueryRequest
	err      error
}

func (m *mockSearchService) Defaults() domain.QueryRequest {
	return domain.QueryRequest{
		SearchType: domain.SearchTypeAuto,
		Langs:      "en",
		Limit:      20,
		Phrases:    true,
	}
}

func (m *mockSearchService) Search(_ context.Context, req domain.QueryRequest) (*domain.ResultEnvelope, error) {
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	if m.envelope == nil {
		return &domain.ResultEnvelope{Query: req.Query}, nil
	}
	return m.envelope, nil
}

func (m *mockSearchService) SearchJSON(ctx context.Context, req domain.QueryRequest) ([]byte, error) {
	env, err := m.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	route string
	lang  string
	err   error
}

func (m *mockIndexService) Build(_ context.Context) (*driving.BuildReport, error) {
	return &driving.BuildReport{}, m.err
}

func (m *mockIndexService) Remove(_ context.Context, route, lang string) error {
	m.route, m.lang = route, lang
	return m.err
}

func (m *mockIndexService) Upsert(_ context.Context, route, lang string) error {
	m.route, m.lang = route, lang
	return m.err
}

// mockPages is a mock implementation of driven.ContentRepository.
type mockPages struct {
	pages []*domain.Page
	err   error
}

func (m *mockPages) Page(_ context.Context, route string) (*domain.Page, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.pages {
		if p.Route == route {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockPages) PageAt(_ context.Context, _, _ string) (*domain.Page, error) {
	return nil, domain.ErrNotFound
}

func (m *mockPages) Collection(_ context.Context, _ domain.CollectionFilter) ([]*domain.Page, error) {
	return m.pages, m.err
}

func (m *mockPages) All(_ context.Context) ([]*domain.Page, error) {
	return m.pages, m.err
}
