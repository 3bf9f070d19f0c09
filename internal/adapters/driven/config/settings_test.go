package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagesearch/internal/adapters/driven/config"
	"github.com/custodia-labs/pagesearch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pagesearch/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := config.LoadSettings(memory.NewConfigStore(nil))
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultSettings(), s)
	assert.Nil(t, s.Filter)
}

func TestLoadSettings_AllKeys(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		config.KeyContentDir:         "/site/pages",
		config.KeyDataDir:            "/site/data",
		config.KeyTemplatesDir:       "/site/templates",
		config.KeyLanguages:          []any{"en", "fr"},
		config.KeyActiveLanguage:     "fr",
		config.KeyDriver:             "Bleve",
		config.KeyIndexName:          "docs.index",
		config.KeySearchType:         "boolean",
		config.KeyStemmer:            "porter",
		config.KeyLimit:              int64(5),
		config.KeyAsYouType:          false,
		config.KeyFuzzy:              true,
		config.KeySnippet:            int64(120),
		config.KeyPhrases:            false,
		config.KeyIndexPageByDefault: false,
	})

	s, err := config.LoadSettings(store)
	require.NoError(t, err)

	assert.Equal(t, "/site/pages", s.ContentDir)
	assert.Equal(t, "/site/data", s.DataDir)
	assert.Equal(t, "/site/templates", s.TemplatesDir)
	assert.Equal(t, []string{"en", "fr"}, s.Languages)
	assert.Equal(t, "fr", s.ActiveLanguage)
	assert.Equal(t, domain.DriverBleve, s.Driver)
	assert.Equal(t, "docs.index", s.IndexName)
	assert.Equal(t, domain.SearchTypeBoolean, s.SearchType)
	assert.Equal(t, "porter", s.Stemmer)
	assert.Equal(t, 5, s.Limit)
	assert.False(t, s.AsYouType)
	assert.True(t, s.Fuzzy)
	assert.Equal(t, 120, s.Snippet)
	assert.False(t, s.Phrases)
	assert.False(t, s.IndexPageByDefault)
}

func TestLoadSettings_FilterFromYAMLString(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		config.KeyFilterItems:     "'@page.descendants': /blog",
		config.KeyFilterPublished: false,
	})

	s, err := config.LoadSettings(store)
	require.NoError(t, err)

	require.NotNil(t, s.Filter)
	assert.Equal(t, "'@page.descendants': /blog", s.Filter.Items)
	require.NotNil(t, s.Filter.Published)
	assert.False(t, *s.Filter.Published)
}

func TestLoadSettings_FilterFromTOMLTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[site]
content_dir = "/site/pages"

[search.filter.items]
"@page.descendants" = "/blog"
"@taxonomy.tag" = ["go"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	store, err := file.Open(path)
	require.NoError(t, err)

	s, err := config.LoadSettings(store)
	require.NoError(t, err)

	require.NotNil(t, s.Filter)
	items, ok := s.Filter.Items.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/blog", items["@page.descendants"])
	assert.Equal(t, []any{"go"}, items["@taxonomy.tag"])
	assert.Nil(t, s.Filter.Published)
}

func TestLoadSettings_PublishedWithoutItemsIgnored(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		config.KeyFilterPublished: false,
	})

	s, err := config.LoadSettings(store)
	require.NoError(t, err)
	assert.Nil(t, s.Filter)
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		err    error
	}{
		{
			name:   "malformed language",
			values: map[string]any{config.KeyLanguages: []any{"en", "not a language"}},
			err:    domain.ErrConfiguration,
		},
		{
			name: "active language not configured",
			values: map[string]any{
				config.KeyLanguages:      []any{"en", "fr"},
				config.KeyActiveLanguage: "de",
			},
			err: domain.ErrConfiguration,
		},
		{
			name:   "unknown search type",
			values: map[string]any{config.KeySearchType: "semantic"},
			err:    domain.ErrConfiguration,
		},
		{
			name:   "unknown driver",
			values: map[string]any{config.KeyDriver: "elastic"},
			err:    domain.ErrUnsupportedType,
		},
		{
			name:   "zero limit",
			values: map[string]any{config.KeyLimit: 0},
			err:    domain.ErrConfiguration,
		},
		{
			name:   "negative snippet",
			values: map[string]any{config.KeySnippet: -1},
			err:    domain.ErrConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadSettings(memory.NewConfigStore(tt.values))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLoadSettings_CommaSeparatedLanguages(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		config.KeyLanguages: "en, de",
	})

	s, err := config.LoadSettings(store)
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "de"}, s.Languages)
}

func TestValidate_UndeterminedActiveLanguage(t *testing.T) {
	s := domain.DefaultSettings()
	s.Languages = []string{"en"}
	s.ActiveLanguage = domain.LanguageUndetermined

	assert.NoError(t, config.Validate(s))
}
