package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// newSite builds a small multi-language tree.
func newSite(t *testing.T) (*Repository, string) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "01.blog/blog.md", "---\ntitle: Blog\n---\nAll posts")
	writeFile(t, root, "01.blog/blog.fr.md", "---\ntitle: Le blog\n---\nTous les articles")
	writeFile(t, root, "01.blog/01.first/item.md",
		"---\ntitle: First\ntaxonomy:\n  tag: [go, search]\n  category: news\n---\nHello")
	writeFile(t, root, "01.blog/01.first/item.fr.md", "---\ntitle: Premier\n---\nBonjour")
	writeFile(t, root, "01.blog/02.second/item.md", "---\ntitle: Second\npublished: false\n---\nDraft")
	writeFile(t, root, "02.about/default.md", "# About Us\n\nWho we are")
	writeFile(t, root, "03.hidden/default.md", "---\nroutable: false\n---\nHidden")
	writeFile(t, root, "notes/01.deep/page.md", "Deep")
	writeFile(t, root, "notes/readme.txt", "not a page")
	writeFile(t, root, ".git/ignored.md", "ignored")
	return New(root, []string{"en", "fr"}), root
}

func routes(pages []*domain.Page) []string {
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.Route)
	}
	return out
}

func TestPage_RouteAndTitle(t *testing.T) {
	repo, root := newSite(t)
	ctx := context.Background()

	page, err := repo.Page(ctx, "/blog/first")
	require.NoError(t, err)
	assert.Equal(t, "First", page.Title)
	assert.Equal(t, "item.md", page.Name)
	assert.Equal(t, ".md", page.Extension)
	assert.Equal(t, ".md", page.Format)
	assert.Equal(t, filepath.Join(root, "01.blog", "01.first"), page.Path)
	assert.Equal(t, "en", page.Language)
	assert.Equal(t, []string{"go", "search"}, page.Taxonomy["tag"])
	assert.Equal(t, []string{"news"}, page.Taxonomy["category"])
	assert.Equal(t, "Hello", page.Body)

	require.NotNil(t, page.Parent)
	assert.Equal(t, "/blog", page.Parent.Route)
	assert.Nil(t, page.Parent.Parent)
}

func TestPage_TitleFromHeading(t *testing.T) {
	repo, _ := newSite(t)

	page, err := repo.Page(context.Background(), "about/")
	require.NoError(t, err)
	assert.Equal(t, "About Us", page.Title)
}

func TestPage_FolderWithoutPage(t *testing.T) {
	repo, _ := newSite(t)

	page, err := repo.Page(context.Background(), "/notes/deep")
	require.NoError(t, err)
	assert.Nil(t, page.Parent)
	assert.Equal(t, "Deep", page.Title)
}

func TestPage_NotFound(t *testing.T) {
	repo, _ := newSite(t)

	_, err := repo.Page(context.Background(), "/missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPageAt(t *testing.T) {
	repo, root := newSite(t)
	ctx := context.Background()

	page, err := repo.PageAt(ctx, filepath.Join(root, "01.blog", "01.first", "item.fr.md"), "fr")
	require.NoError(t, err)
	assert.Equal(t, "Premier", page.Title)
	assert.Equal(t, "fr", page.Language)
	assert.Equal(t, ".fr.md", page.Extension)
	assert.Equal(t, "/blog/first", page.Route)
	assert.Nil(t, page.Parent)

	_, err = repo.PageAt(ctx, filepath.Join(root, "01.blog", "01.first", "item.de.md"), "de")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPageAt_ReturnsCopy(t *testing.T) {
	repo, root := newSite(t)
	ctx := context.Background()
	file := filepath.Join(root, "01.blog", "blog.md")

	page, err := repo.PageAt(ctx, file, "xx")
	require.NoError(t, err)
	page.Title = "changed"

	again, err := repo.Page(ctx, "/blog")
	require.NoError(t, err)
	assert.Equal(t, "Blog", again.Title)
	assert.Equal(t, "en", again.Language)
}

func TestAll_PublishedRoutable(t *testing.T) {
	repo, _ := newSite(t)

	pages, err := repo.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/blog", "/blog/first", "/about", "/notes/deep"}, routes(pages))
}

func TestAll_MissingRoot(t *testing.T) {
	repo := New(filepath.Join(t.TempDir(), "missing"), nil)

	_, err := repo.All(context.Background())
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestAll_RootNotSet(t *testing.T) {
	repo := New("", nil)

	_, err := repo.All(context.Background())
	require.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "not set")
}

func TestReload_PicksUpChanges(t *testing.T) {
	repo, root := newSite(t)
	ctx := context.Background()

	_, err := repo.Page(ctx, "/contact")
	require.ErrorIs(t, err, domain.ErrNotFound)

	writeFile(t, root, "04.contact/default.md", "---\ntitle: Contact\n---\n")
	require.NoError(t, repo.Reload(ctx))

	page, err := repo.Page(ctx, "/contact")
	require.NoError(t, err)
	assert.Equal(t, "Contact", page.Title)
}

func TestPrimary_TaggedFilesOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "news/item.fr.md", "---\ntitle: Nouvelles\n---\n")
	writeFile(t, root, "news/item.en.md", "---\ntitle: News\n---\n")
	repo := New(root, []string{"en", "fr"})

	page, err := repo.Page(context.Background(), "/news")
	require.NoError(t, err)
	assert.Equal(t, "en", page.Language)
	assert.Equal(t, "News", page.Title)
	assert.Equal(t, ".en.md", page.Extension)
	assert.Equal(t, "item", page.BaseName())
}

func TestParseName(t *testing.T) {
	configured := New("", []string{"en", "fr"})
	unconfigured := New("", nil)

	tests := []struct {
		name   string
		repo   *Repository
		file   string
		base   string
		lang   string
		format string
		ok     bool
	}{
		{name: "untagged", repo: configured, file: "item.md", base: "item", format: ".md", ok: true},
		{name: "tagged", repo: configured, file: "item.fr.md", base: "item", lang: "fr", format: ".md", ok: true},
		{name: "unconfigured tag", repo: configured, file: "item.de.md", base: "item.de", format: ".md", ok: true},
		{name: "iso tag without config", repo: unconfigured, file: "item.de.md", base: "item", lang: "de", format: ".md", ok: true},
		{name: "not a language", repo: unconfigured, file: "my.v2.md", base: "my.v2", format: ".md", ok: true},
		{name: "html", repo: configured, file: "page.html", base: "page", format: ".html", ok: true},
		{name: "not content", repo: configured, file: "image.png"},
		{name: "extension only", repo: configured, file: ".md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, lang, format, ok := tt.repo.parseName(tt.file)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.base, base)
				assert.Equal(t, tt.lang, lang)
				assert.Equal(t, tt.format, format)
			}
		})
	}
}

func TestSlugOf(t *testing.T) {
	assert.Equal(t, "blog", slugOf("01.blog"))
	assert.Equal(t, "blog", slugOf("blog"))
	assert.Equal(t, "v1.2", slugOf("v1.2"))
	assert.Equal(t, "10.", slugOf("10."))
}

func TestLocate(t *testing.T) {
	root := t.TempDir()
	repo := New(root, []string{"en", "fr"})

	tests := []struct {
		name  string
		file  string
		route string
		ok    bool
	}{
		{"page", "01.blog/01.first/item.md", "/blog/first", true},
		{"translation", "01.blog/blog.fr.md", "/blog", true},
		{"deleted file", "02.gone/default.md", "/gone", true},
		{"not a page", "notes/readme.txt", "", false},
		{"root file", "index.md", "", false},
		{"hidden folder", ".git/page.md", "", false},
		{"outside root", "../elsewhere/page.md", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, ok := repo.Locate(filepath.Join(root, filepath.FromSlash(tt.file)))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.route, route)
		})
	}
}
