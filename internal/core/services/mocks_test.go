package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockRepository implements driven.ContentRepository over in-memory pages.
type mockRepository struct {
	mu           sync.Mutex
	pages        []*domain.Page
	files        map[string]*domain.Page
	pageErr      error
	collectErr   error
	pageCalls    int
	collectCalls int
}

func newMockRepository() *mockRepository {
	return &mockRepository{files: make(map[string]*domain.Page)}
}

// add registers a routable page.
func (m *mockRepository) add(p *domain.Page) *domain.Page {
	m.pages = append(m.pages, p)
	m.files[p.FilePath()] = p
	return p
}

// addTranslation registers a file that is only reachable through PageAt.
func (m *mockRepository) addTranslation(p *domain.Page) *domain.Page {
	m.files[p.FilePath()] = p
	return p
}

func (m *mockRepository) Page(_ context.Context, route string) (*domain.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageCalls++
	if m.pageErr != nil {
		return nil, m.pageErr
	}
	for _, p := range m.pages {
		if p.Route == domain.CleanRoute(route) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, route)
}

func (m *mockRepository) PageAt(_ context.Context, file, lang string) (*domain.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.files[file]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, file)
	}
	c := p.Detached()
	c.Language = lang
	return c, nil
}

func (m *mockRepository) Collection(_ context.Context, filter domain.CollectionFilter) ([]*domain.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collectCalls++
	if m.collectErr != nil {
		return nil, m.collectErr
	}
	prefix, _ := filter.Items.(string)
	var out []*domain.Page
	for _, p := range m.pages {
		if strings.HasPrefix(p.Route, prefix) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockRepository) All(_ context.Context) ([]*domain.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Page(nil), m.pages...), nil
}

// mockRenderer implements driven.TextRenderer by returning the page body.
type mockRenderer struct {
	failOn map[string]bool
}

func (m *mockRenderer) RenderCleanText(_ context.Context, page *domain.Page) (string, error) {
	if m.failOn[page.Route] {
		return "", errors.New("template exploded")
	}
	return page.Body, nil
}

// mockEngine implements driven.IndexEngine with one shared in-memory index.
type mockEngine struct {
	mu        sync.Mutex
	exists    bool
	records   map[string]domain.IndexRecord
	order     []string
	stemmer   string
	hits      domain.RawHitSet
	searches  []string
	params    []driven.SearchParams
	createErr error
	searchErr error
}

func newMockEngine() *mockEngine {
	return &mockEngine{records: make(map[string]domain.IndexRecord)}
}

func (m *mockEngine) CreateIndex(_ context.Context, _ string) (driven.IndexHandle, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exists = true
	m.records = make(map[string]domain.IndexRecord)
	m.order = nil
	return &mockHandle{engine: m}, nil
}

func (m *mockEngine) SelectIndex(_ context.Context, name string) (driven.IndexHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrIndexNotFound, name)
	}
	return &mockHandle{engine: m}, nil
}

// ids returns the stored record ids in insertion order.
func (m *mockEngine) ids() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, id := range m.order {
		if _, ok := m.records[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func (m *mockEngine) record(id string) (domain.IndexRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	return rec, ok
}

type mockHandle struct {
	engine *mockEngine
}

func (h *mockHandle) SetLanguage(stemmer string) error {
	if stemmer == "klingon" {
		return domain.ErrUnsupportedType
	}
	h.engine.stemmer = stemmer
	return nil
}

func (h *mockHandle) Insert(_ context.Context, record domain.IndexRecord) error {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	if _, ok := h.engine.records[record.ID]; !ok {
		h.engine.order = append(h.engine.order, record.ID)
	}
	h.engine.records[record.ID] = record
	return nil
}

func (h *mockHandle) Delete(_ context.Context, id string) error {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	delete(h.engine.records, id)
	h.engine.order = slices.DeleteFunc(h.engine.order, func(o string) bool { return o == id })
	return nil
}

func (h *mockHandle) Run(ctx context.Context, source driven.RecordSource) (int, error) {
	records, err := source.Records(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for rec := range records {
		if err := h.Insert(ctx, rec); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (h *mockHandle) Search(_ context.Context, query string, params driven.SearchParams) (domain.RawHitSet, error) {
	return h.search("plain:"+query, params)
}

func (h *mockHandle) SearchBoolean(_ context.Context, query string, params driven.SearchParams) (domain.RawHitSet, error) {
	return h.search("boolean:"+query, params)
}

func (h *mockHandle) search(call string, params driven.SearchParams) (domain.RawHitSet, error) {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	h.engine.searches = append(h.engine.searches, call)
	h.engine.params = append(h.engine.params, params)
	if h.engine.searchErr != nil {
		return domain.RawHitSet{}, h.engine.searchErr
	}
	return h.engine.hits, nil
}

func (h *mockHandle) Close() error {
	return nil
}

// mockReporter records progress callbacks.
type mockReporter struct {
	added   []string
	skipped []string
}

func (m *mockReporter) Added(_ int, lang, route string) {
	m.added = append(m.added, domain.IndexID(lang, route))
}

func (m *mockReporter) Skipped(_ int, route string, _ error) {
	m.skipped = append(m.skipped, route)
}

// --- Fixtures ---

// newPage builds a page stored as dir/name where name carries an optional
// language part ("item.en.md").
func newPage(route, lang, dir, base string, parent *domain.Page) *domain.Page {
	ext := ".md"
	if lang != "" {
		ext = "." + lang + ".md"
	}
	return &domain.Page{
		Route:     route,
		Language:  lang,
		Parent:    parent,
		Name:      base + ext,
		Extension: ext,
		Format:    ".md",
		Path:      dir,
		Title:     strings.TrimPrefix(route, "/"),
		Body:      "body of " + route,
		Published: true,
		Routable:  true,
	}
}

// siteFixture is a two-language site:
//
//	/blog            en, fr
//	/blog/tomatoes   en only
//	/about           en, with search.process false
func siteFixture() *mockRepository {
	repo := newMockRepository()
	blog := repo.add(newPage("/blog", "en", "/site/blog", "blog", nil))
	frBlog := newPage("/blog", "fr", "/site/blog", "blog", nil)
	frBlog.Title = "Le blog"
	repo.addTranslation(frBlog)

	tomatoes := newPage("/blog/tomatoes", "en", filepath.Join("/site/blog", "tomatoes"), "item", blog)
	repo.add(tomatoes)

	about := newPage("/about", "en", "/site/about", "default", nil)
	about.Header = map[string]any{"search": map[string]any{"process": false}}
	repo.add(about)
	return repo
}

func testEnvironment(repo driven.ContentRepository) *Environment {
	settings := domain.DefaultSettings()
	settings.Languages = []string{"en", "fr"}
	return NewEnvironment(repo, settings)
}
