package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/logger"
	"github.com/custodia-labs/pagesearch/internal/normalisers/html"
	"github.com/custodia-labs/pagesearch/internal/normalisers/markdown"
)

// Ensure Repository implements the interface.
var _ driven.ContentRepository = (*Repository)(nil)

// contentFormats are the file extensions recognised as pages.
var contentFormats = []string{".md", ".markdown", ".html", ".htm"}

// Repository reads pages from a directory tree. The tree is scanned on
// first use and again on every Reload.
type Repository struct {
	root      string
	languages []string

	mu     sync.RWMutex
	loaded bool
	pages  []*domain.Page          // primary pages in tree order
	routes map[string]*domain.Page // route -> primary page
	files  map[string]*domain.Page // file path -> page, all languages
}

// New creates a repository rooted at root. languages are the configured
// site languages in priority order; they decide which file suffixes are
// language tags and which file is a folder's primary page.
func New(root string, languages []string) *Repository {
	if root != "" {
		root = filepath.Clean(root)
	}
	return &Repository{
		root:      root,
		languages: languages,
	}
}

// Root returns the content root directory.
func (r *Repository) Root() string {
	return r.root
}

// Reload rescans the content tree.
func (r *Repository) Reload(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scan(ctx)
}

// Page returns the primary page at route.
func (r *Repository) Page(ctx context.Context, route string) (*domain.Page, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	page, ok := r.routes[domain.CleanRoute(route)]
	if !ok {
		return nil, fmt.Errorf("%w: page %s", domain.ErrNotFound, route)
	}
	return page, nil
}

// PageAt returns a parentless copy of the page stored in file, labelled
// with lang.
func (r *Repository) PageAt(ctx context.Context, file, lang string) (*domain.Page, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	page, ok := r.files[filepath.Clean(file)]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: file %s", domain.ErrNotFound, file)
	}

	c := page.Detached()
	c.Language = lang
	return c, nil
}

// All returns every published, routable primary page in tree order.
func (r *Repository) All(ctx context.Context) ([]*domain.Page, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Page
	for _, p := range r.pages {
		if p.Published && p.Routable {
			out = append(out, p)
		}
	}
	return out, nil
}

// Locate maps a page file to the route of its folder without reading it,
// so it also works for deleted files. ok is false for files that are not
// pages or that the scan would skip.
func (r *Repository) Locate(file string) (string, bool) {
	rel, err := filepath.Rel(r.root, filepath.Clean(file))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return "", false
	}
	for _, part := range parts[:len(parts)-1] {
		if strings.HasPrefix(part, ".") {
			return "", false
		}
	}
	if _, _, _, ok := r.parseName(parts[len(parts)-1]); !ok {
		return "", false
	}
	return r.routeFor(filepath.Dir(filepath.Join(r.root, rel))), true
}

func (r *Repository) ensureLoaded(ctx context.Context) error {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()
	if loaded {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return nil
	}
	return r.scan(ctx)
}

// scan walks the tree and rebuilds the indexes. Callers hold the write lock.
func (r *Repository) scan(ctx context.Context) error {
	if r.root == "" {
		return fmt.Errorf("%w: content directory is not set", domain.ErrConfiguration)
	}
	logger.Debug("Scanning content tree %s", r.root)

	info, err := os.Stat(r.root)
	if err != nil {
		return fmt.Errorf("%w: content directory %s: %w", domain.ErrConfiguration, r.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: content directory %s is not a directory", domain.ErrConfiguration, r.root)
	}

	pages := make([]*domain.Page, 0)
	routes := make(map[string]*domain.Page)
	files := make(map[string]*domain.Page)
	// folder -> primary page, for parent lookup
	folders := make(map[string]*domain.Page)

	err = filepath.WalkDir(r.root, func(dir string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !d.IsDir() || dir == r.root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}

		folderPages, err := r.loadFolder(dir)
		if err != nil {
			return err
		}
		if len(folderPages) == 0 {
			return nil
		}

		primary := r.primary(folderPages)
		if primary.Language == "" && len(r.languages) > 0 {
			primary.Language = r.languages[0]
		}
		parent := nearestFolderPage(folders, r.root, filepath.Dir(dir))
		for _, p := range folderPages {
			p.Parent = parent
			files[p.FilePath()] = p
		}
		folders[dir] = primary
		routes[primary.Route] = primary
		pages = append(pages, primary)
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", r.root, err)
	}

	r.pages, r.routes, r.files = pages, routes, files
	r.loaded = true
	logger.Debug("Content tree: %d pages, %d files", len(pages), len(files))
	return nil
}

// loadFolder reads every page file directly inside dir. Files that fail to
// parse are logged and left out.
func (r *Repository) loadFolder(dir string) ([]*domain.Page, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	route := r.routeFor(dir)
	var pages []*domain.Page
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		base, lang, format, ok := r.parseName(e.Name())
		if !ok {
			continue
		}
		page, err := loadPage(dir, e.Name(), base, format, route)
		if err != nil {
			logger.Warn("Skipping %s: %v", filepath.Join(dir, e.Name()), err)
			continue
		}
		page.Language = lang
		pages = append(pages, page)
	}
	return pages, nil
}

// loadPage reads and parses one page file.
func loadPage(dir, name, base, format, route string) (*domain.Page, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}
	header, body, err := splitFrontMatter(data)
	if err != nil {
		return nil, err
	}

	page := &domain.Page{
		Route:     route,
		Name:      name,
		Extension: name[len(base):],
		Format:    format,
		Path:      dir,
		Header:    header,
		Body:      body,
		Published: headerBool(header, "published", true),
		Routable:  headerBool(header, "routable", true),
		Taxonomy:  headerTaxonomy(header),
	}
	page.Title = pageTitle(page, filepath.Base(dir))
	return page, nil
}

func pageTitle(page *domain.Page, folder string) string {
	if title := headerString(page.Header, "title"); title != "" {
		return title
	}
	if page.Format == ".html" || page.Format == ".htm" {
		if title := html.Title(page.Body); title != "" {
			return title
		}
		return markdown.TitleFromName(folder)
	}
	return markdown.Title(page.Body, folder)
}

// parseName splits a file name into base name, language tag and format.
// ok is false for files that are not pages.
func (r *Repository) parseName(name string) (base, lang, format string, ok bool) {
	format = strings.ToLower(filepath.Ext(name))
	if !slices.Contains(contentFormats, format) {
		return "", "", "", false
	}
	stem := name[:len(name)-len(format)]
	if stem == "" {
		return "", "", "", false
	}

	if i := strings.LastIndexByte(stem, '.'); i > 0 {
		if tag := stem[i+1:]; r.isLanguage(tag) {
			return stem[:i], tag, format, true
		}
	}
	return stem, "", format, true
}

// isLanguage reports whether tag is a language suffix. With configured
// languages only those count; otherwise any ISO 639 code does.
func (r *Repository) isLanguage(tag string) bool {
	if len(r.languages) > 0 {
		return slices.Contains(r.languages, tag)
	}
	if len(tag) < 2 || len(tag) > 3 || strings.ToLower(tag) != tag {
		return false
	}
	_, err := language.ParseBase(tag)
	return err == nil
}

// primary picks the folder's primary page: the untagged file, else the
// first configured language, else the first file by name.
func (r *Repository) primary(pages []*domain.Page) *domain.Page {
	for _, p := range pages {
		if p.Language == "" {
			return p
		}
	}
	for _, lang := range r.languages {
		for _, p := range pages {
			if p.Language == lang {
				return p
			}
		}
	}
	return pages[0]
}

// routeFor maps a folder to its route, dropping numeric ordering prefixes.
func (r *Repository) routeFor(dir string) string {
	rel, err := filepath.Rel(r.root, dir)
	if err != nil || rel == "." {
		return "/"
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for i, part := range parts {
		parts[i] = slugOf(part)
	}
	return "/" + strings.Join(parts, "/")
}

// slugOf strips a numeric ordering prefix ("01.blog" -> "blog").
func slugOf(folder string) string {
	prefix, rest, found := strings.Cut(folder, ".")
	if !found || prefix == "" || rest == "" {
		return folder
	}
	for _, c := range prefix {
		if c < '0' || c > '9' {
			return folder
		}
	}
	return rest
}

// nearestFolderPage returns the primary page of dir or its closest
// ancestor below root, nil when there is none.
func nearestFolderPage(folders map[string]*domain.Page, root, dir string) *domain.Page {
	for dir != root && len(dir) > len(root) {
		if p, ok := folders[dir]; ok {
			return p
		}
		next := filepath.Dir(dir)
		if next == dir {
			break
		}
		dir = next
	}
	return nil
}

