package domain

import (
	"path"
	"path/filepath"
	"strings"
)

// LanguageUndetermined is the ISO 639-2 code for an undetermined language.
// Pages indexed under it are treated as language-agnostic.
const LanguageUndetermined = "und"

// Page represents a content page read from the content repository.
// Pages are owned by the repository; the core only reads them and
// builds fresh copies when it needs a different parent chain.
type Page struct {
	// Route is the public path of the page (e.g. "/blog/first-post").
	Route string

	// Language is the language tag parsed from the file name.
	// Empty means the page carries no language tag.
	Language string

	// Parent is the enclosing page, nil for top-level pages.
	Parent *Page

	// Name is the file name including extensions (e.g. "item.fr.md").
	Name string

	// Extension is the full suffix of Name, including any language
	// part (e.g. ".fr.md" or ".md").
	Extension string

	// Format is the content extension without language (e.g. ".md").
	Format string

	// Path is the directory holding the page file.
	Path string

	// Title is the display title.
	Title string

	// Header contains the parsed front matter.
	Header map[string]any

	// Body is the raw page content after the front matter.
	Body string

	// Published reports whether the page is published.
	Published bool

	// Routable reports whether the page can be reached by its route.
	Routable bool

	// Taxonomy maps taxonomy names (e.g. "category", "tag") to values.
	Taxonomy map[string][]string
}

// FilePath returns the location of the page file.
func (p *Page) FilePath() string {
	return filepath.Join(p.Path, p.Name)
}

// BaseName returns Name without Extension (e.g. "item" for "item.fr.md").
func (p *Page) BaseName() string {
	return strings.TrimSuffix(p.Name, p.Extension)
}

// TranslationPath returns the file path of the sibling translation of p
// for lang, following the "<base-name>.<lang><format>" convention.
func (p *Page) TranslationPath(lang string) string {
	format := p.Format
	if format == "" {
		format = p.Extension
	}
	return filepath.Join(p.Path, p.BaseName()+"."+lang+format)
}

// Clone returns a deep copy of the page and its ancestor chain.
// Header and Taxonomy maps are copied one level deep.
func (p *Page) Clone() *Page {
	if p == nil {
		return nil
	}
	c := *p
	c.Header = copyHeader(p.Header)
	if p.Taxonomy != nil {
		c.Taxonomy = make(map[string][]string, len(p.Taxonomy))
		for k, v := range p.Taxonomy {
			c.Taxonomy[k] = append([]string(nil), v...)
		}
	}
	c.Parent = p.Parent.Clone()
	return &c
}

// Detached returns a copy of the page without its parent link.
func (p *Page) Detached() *Page {
	c := *p
	c.Header = copyHeader(p.Header)
	c.Parent = nil
	return &c
}

// Ancestors returns the parent chain from the nearest parent upwards.
func (p *Page) Ancestors() []*Page {
	var chain []*Page
	for a := p.Parent; a != nil; a = a.Parent {
		chain = append(chain, a)
	}
	return chain
}

// SearchOption reads a key from the "search" section of the front matter.
func (p *Page) SearchOption(key string) (any, bool) {
	section, ok := p.Header["search"].(map[string]any)
	if !ok {
		return nil, false
	}
	val, ok := section[key]
	return val, ok
}

// copyHeader creates a shallow copy of front matter.
func copyHeader(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// IndexRecord is the unit handed to the search engine for one page in
// one language.
type IndexRecord struct {
	// ID is the composite key "<lang>:<route>".
	ID string `json:"id"`

	// Name is the display title.
	Name string `json:"name"`

	// Content is the cleaned, whitespace-normalised text.
	Content string `json:"content"`
}

// CleanRoute returns route in canonical "/a/b" form: a single leading
// slash, no trailing slash, no empty or dot segments.
func CleanRoute(route string) string {
	return path.Clean("/" + strings.Trim(strings.TrimSpace(route), "/"))
}

// IndexID builds the composite record key for a route in a language.
func IndexID(lang, route string) string {
	return lang + ":" + route
}

// SplitIndexID splits a composite key on its first colon.
// ok is false when id contains no colon.
func SplitIndexID(id string) (lang, route string, ok bool) {
	return strings.Cut(id, ":")
}
