package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/logger"
	"github.com/custodia-labs/pagesearch/internal/normalisers/html"
	"github.com/custodia-labs/pagesearch/internal/normalisers/markdown"
)

// Ensure Renderer implements the interface.
var _ driven.TextRenderer = (*Renderer)(nil)

// TemplateSuffix is appended to a search.template name to find its file.
const TemplateSuffix = ".html.tmpl"

// Renderer produces clean text from pages.
type Renderer struct {
	templatesDir string

	mu        sync.Mutex
	templates map[string]*template.Template
}

// New creates a renderer looking up search templates in templatesDir.
// An empty templatesDir disables template overrides.
func New(templatesDir string) *Renderer {
	return &Renderer{
		templatesDir: templatesDir,
		templates:    make(map[string]*template.Template),
	}
}

// RenderCleanText returns the indexable text of page. When the page's
// front matter names a search template, the template output replaces
// the body. Markdown bodies are stripped of formatting, and any HTML
// left over is reduced to text.
func (r *Renderer) RenderCleanText(ctx context.Context, page *domain.Page) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	content := page.Body
	fromTemplate := false

	if name := templateName(page); name != "" {
		out, err := r.execute(name, page)
		if err != nil {
			return "", err
		}
		content = out
		fromTemplate = true
	}

	if !fromTemplate && isMarkdown(page) {
		content = markdown.Strip(content)
	}
	return html.Text(content), nil
}

// templateName reads search.template from the page front matter.
func templateName(page *domain.Page) string {
	val, ok := page.SearchOption("template")
	if !ok {
		return ""
	}
	name, _ := val.(string)
	return strings.TrimSpace(name)
}

func isMarkdown(page *domain.Page) bool {
	switch strings.ToLower(page.Format) {
	case ".md", ".markdown", "":
		return true
	default:
		return false
	}
}

// TemplateData is the value templates are executed with.
type TemplateData struct {
	Page   *domain.Page
	Title  string
	Route  string
	Header map[string]any
	Body   string
}

func (r *Renderer) execute(name string, page *domain.Page) (string, error) {
	tmpl, err := r.lookup(name)
	if err != nil {
		return "", err
	}

	data := TemplateData{
		Page:   page,
		Title:  page.Title,
		Route:  page.Route,
		Header: page.Header,
		Body:   page.Body,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// lookup parses and caches the named template.
func (r *Renderer) lookup(name string) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.templates[name]; ok {
		return tmpl, nil
	}

	if r.templatesDir == "" {
		return nil, fmt.Errorf("%w: template %q requested but no templates directory is configured",
			domain.ErrConfiguration, name)
	}

	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return nil, fmt.Errorf("%w: template name %q leaves the templates directory", domain.ErrInvalidInput, name)
	}

	path := filepath.Join(r.templatesDir, filepath.FromSlash(name)+TemplateSuffix)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: template %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}

	tmpl, err := template.New(name).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: parse template %s: %w", domain.ErrConfiguration, path, err)
	}

	logger.Debug("Loaded search template %s", path)
	r.templates[name] = tmpl
	return tmpl, nil
}
