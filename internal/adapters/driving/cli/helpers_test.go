package cli

import (
	"context"
	"encoding/json"
	"time"

	"github.com/custodia-labs/pagesearch/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/pagesearch/internal/adapters/driving/watcher"
	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driving"
)

// mockSearchService returns one hit for every non-empty query.
type mockSearchService struct {
	last domain.QueryRequest
	err  error
}

func (m *mockSearchService) Defaults() domain.QueryRequest {
	return domain.DefaultSettings().QueryDefaults()
}

func (m *mockSearchService) Search(_ context.Context, req domain.QueryRequest) (*domain.ResultEnvelope, error) {
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	if req.Query == "nothing" {
		return &domain.ResultEnvelope{Query: req.Query}, nil
	}
	return &domain.ResultEnvelope{
		Query:         req.Query,
		ExecutionTime: 1250 * time.Microsecond,
		NumberOfHits:  1,
		Hits: []*domain.Page{{
			Route:    "/blog/first",
			Language: "en",
			Title:    "First Post",
			Path:     "/site/01.blog/01.first",
			Name:     "item.md",
		}},
	}, nil
}

func (m *mockSearchService) SearchJSON(ctx context.Context, req domain.QueryRequest) ([]byte, error) {
	env, err := m.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(env, "", "    ")
}

// mockIndexService records calls and reports one added page per build.
type mockIndexService struct {
	reporter driven.ProgressReporter
	calls    []string
	err      error
}

func (m *mockIndexService) SetReporter(r driven.ProgressReporter) {
	m.reporter = r
}

func (m *mockIndexService) Build(_ context.Context) (*driving.BuildReport, error) {
	m.calls = append(m.calls, "build")
	if m.err != nil {
		return nil, m.err
	}
	if m.reporter != nil {
		m.reporter.Added(1, "en", "/blog")
		m.reporter.Skipped(1, "/drafts", nil)
	}
	return &driving.BuildReport{Generation: "g-1", Records: 1, Skipped: 1, Duration: 2 * time.Millisecond}, nil
}

func (m *mockIndexService) Remove(_ context.Context, route, lang string) error {
	m.calls = append(m.calls, "remove "+route+" "+lang)
	return m.err
}

func (m *mockIndexService) Upsert(_ context.Context, route, lang string) error {
	m.calls = append(m.calls, "upsert "+route+" "+lang)
	return m.err
}

// mockTree is an empty content tree.
type mockTree struct {
	root string
}

var _ ContentTree = (*mockTree)(nil)

func (m *mockTree) Page(_ context.Context, _ string) (*domain.Page, error) {
	return nil, domain.ErrNotFound
}

func (m *mockTree) PageAt(_ context.Context, _, _ string) (*domain.Page, error) {
	return nil, domain.ErrNotFound
}

func (m *mockTree) Collection(_ context.Context, _ domain.CollectionFilter) ([]*domain.Page, error) {
	return nil, nil
}

func (m *mockTree) All(_ context.Context) ([]*domain.Page, error) {
	return nil, nil
}

func (m *mockTree) Root() string { return m.root }

func (m *mockTree) Reload(_ context.Context) error { return nil }

func (m *mockTree) Locate(_ string) (string, bool) { return "", false }

// testServices holds the mocks installed by setupTestServices.
var testServices struct {
	search *mockSearchService
	index  *mockIndexService
	config *memory.ConfigStore
}

// setupTestServices installs mock services and returns a cleanup function
// restoring the previous state and the flag defaults.
func setupTestServices() func() {
	oldSearch, oldIndex, oldConfig := searchService, indexService, configStore
	oldSettings, oldTree, oldClose, oldBootstrap := siteSettings, contentTree, closeServices, bootstrap

	testServices.search = &mockSearchService{}
	testServices.index = &mockIndexService{}
	testServices.config = memory.NewConfigStore(map[string]any{
		"site.content_dir": "/site/pages",
	})

	settings := domain.DefaultSettings()
	settings.ContentDir = "/site/pages"

	bootstrap = nil
	SetServices(&Services{
		Search:   testServices.search,
		Index:    testServices.index,
		Config:   testServices.config,
		Settings: settings,
		Content:  &mockTree{root: "/site/pages"},
	})

	return func() {
		searchService, indexService, configStore = oldSearch, oldIndex, oldConfig
		siteSettings, contentTree, closeServices, bootstrap = oldSettings, oldTree, oldClose, oldBootstrap
		resetFlags()
	}
}

func resetFlags() {
	searchLimit, searchJSON, searchType, searchLangs, searchFuzzy = 0, false, "", "", false
	indexQuiet = false
	updateLang, deleteLang = "", ""
	serveAddr, serveWatch, serveMCP = ":8080", false, false
	watchQuiet = watcher.DefaultQuietPeriod
}
